package pipeline

import (
	"errors"
	"path/filepath"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/fingerprint"
	"github.com/DennisSchulmeister/interview-analysis/internal/segment"
	"github.com/DennisSchulmeister/interview-analysis/internal/store"
	"github.com/DennisSchulmeister/interview-analysis/internal/transcript"
)

// Segment normalizes and windows every discovered transcript, skipping
// transcripts whose stored segmentation is still current. Structural errors
// fail the affected transcript only; the rest of the batch proceeds.
func (p *Pipeline) Segment() error {
	files, err := p.Discover()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		p.printf("No input transcript files found.\n")
		return nil
	}

	updated, skipped, failed := 0, 0, 0
	entries := make([]store.IndexEntry, 0, len(files))

	for _, path := range files {
		// Ids and recorded paths are config-relative, so a version-controlled
		// work directory stays valid when the project directory moves.
		rel := p.displayPath(path)

		t, err := transcript.Read(path, transcript.Options{})
		if err != nil {
			if errors.Is(err, errs.ErrConfig) {
				return err
			}
			p.printf("WARNING: skipping transcript %s: %v\n", rel, err)
			entries = append(entries, store.IndexEntry{
				DocumentID: transcript.DocumentID(rel),
				SourcePath: rel,
				Status:     "failed",
				Error:      err.Error(),
			})
			failed++
			continue
		}
		t.ID = transcript.DocumentID(rel)
		t.SourcePath = rel

		freshHash := fingerprint.TranscriptHash(t.Statements)
		if existing, ok := p.store.LoadSegments(t.ID); ok &&
			existing.TranscriptHash == freshHash &&
			existing.SegmentParagraphs == p.cfg.Segmentation.SegmentParagraphs &&
			existing.OverlapParagraphs == p.cfg.Segmentation.OverlapParagraphs {
			p.verbosef("Skipping unchanged transcript: %s\n", rel)
			entries = append(entries, store.IndexEntry{
				DocumentID:    t.ID,
				SourcePath:    rel,
				SegmentsTotal: len(existing.Segments),
			})
			skipped++
			continue
		}

		segments, err := segment.Split(t.ID, t.Statements,
			p.cfg.Segmentation.SegmentParagraphs, p.cfg.Segmentation.OverlapParagraphs)
		if err != nil {
			return err
		}

		if err := p.store.SaveSegments(&store.SegmentsFile{
			Transcript:        *t,
			SegmentParagraphs: p.cfg.Segmentation.SegmentParagraphs,
			OverlapParagraphs: p.cfg.Segmentation.OverlapParagraphs,
			TranscriptHash:    freshHash,
			Segments:          segments,
		}); err != nil {
			return err
		}

		p.printf("Segmented %s: %d statement(s), %d segment(s)\n", rel, len(t.Statements), len(segments))
		entries = append(entries, store.IndexEntry{
			DocumentID:    t.ID,
			SourcePath:    rel,
			SegmentsTotal: len(segments),
		})
		updated++
	}

	if err := p.store.SaveIndex("segments", entries); err != nil {
		return err
	}
	p.printf("Processed %d transcript(s): updated %d, skipped %d, failed %d\n",
		len(files), updated, skipped, failed)
	return nil
}

func (p *Pipeline) displayPath(path string) string {
	if rel, err := filepath.Rel(p.cfg.BaseDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

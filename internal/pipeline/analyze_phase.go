package pipeline

import (
	"context"
	"fmt"

	"github.com/DennisSchulmeister/interview-analysis/internal/annotate"
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/fingerprint"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
	"github.com/DennisSchulmeister/interview-analysis/internal/reconcile"
	"github.com/DennisSchulmeister/interview-analysis/internal/store"
	"github.com/DennisSchulmeister/interview-analysis/internal/worker"
)

// Analyze annotates and reconciles every segmented transcript, re-annotating
// only segments whose fingerprint no longer matches the stored analysis.
// Results of unchanged segments are carried over verbatim, including any
// researcher decisions recorded in the work files.
func (p *Pipeline) Analyze(ctx context.Context) error {
	if p.annotator == nil {
		return errs.Config("analysis requires an annotation client")
	}
	idx, ok := p.store.LoadIndex("segments")
	if !ok {
		return errs.Config("no segmentation found in %s, run 'segment' first", p.store.Dir())
	}

	reconciler := reconcile.New(p.cfg.Codebook, p.cfg.Analysis)
	entries := make([]store.IndexEntry, 0, len(idx.Documents))
	failed := 0

	for _, doc := range idx.Documents {
		if doc.Status == "failed" {
			entries = append(entries, doc)
			failed++
			continue
		}
		entry, err := p.analyzeTranscript(ctx, reconciler, doc)
		if err != nil {
			return err
		}
		if entry.Status == "failed" {
			p.printf("WARNING: analysis failed for %s: %s\n", doc.SourcePath, entry.Error)
			failed++
		}
		entries = append(entries, entry)
	}

	if err := p.store.SaveIndex("analysis", entries); err != nil {
		return err
	}
	p.printf("Analyzed %d transcript(s), %d failed\n", len(entries), failed)
	return nil
}

func (p *Pipeline) analyzeTranscript(ctx context.Context, reconciler *reconcile.Reconciler, doc store.IndexEntry) (store.IndexEntry, error) {
	entry := store.IndexEntry{DocumentID: doc.DocumentID, SourcePath: doc.SourcePath, SegmentsTotal: doc.SegmentsTotal}

	sf, ok := p.store.LoadSegments(doc.DocumentID)
	if !ok {
		entry.Status = "failed"
		entry.Error = "segmentation work file missing or unreadable"
		return entry, nil
	}
	fresh := fingerprint.Compute(&sf.Transcript, sf.Segments, p.cfg.Codebook)

	// A stored analysis is reusable only if it was produced under the same
	// coding policy. A policy change re-annotates everything.
	var stored *fingerprint.Record
	old, haveOld := p.store.LoadAnalysis(doc.DocumentID)
	if haveOld && old.Policy == p.cfg.Analysis {
		stored = &old.Fingerprint
	}

	plan := fingerprint.Plan(stored, fresh)
	if len(plan) == 0 {
		p.verbosef("Skipping unchanged analysis: %s\n", doc.SourcePath)
		return entry, nil
	}
	p.verbosef("Annotating %d of %d segment(s) in %s\n", len(plan), len(sf.Segments), doc.SourcePath)

	segByIndex := make(map[int]model.Segment, len(sf.Segments))
	for _, seg := range sf.Segments {
		segByIndex[seg.Index] = seg
	}
	jobs := make([]worker.Job, 0, len(plan))
	for _, index := range plan {
		req := p.buildRequest(sf, segByIndex[index])
		jobs = append(jobs, worker.Job{
			SegmentIndex: index,
			Annotate: func(ctx context.Context) ([]model.Proposal, error) {
				return p.annotator.Annotate(ctx, req)
			},
		})
	}

	results := make(map[int]store.SegmentResult, len(sf.Segments))
	completed := make(map[int]bool, len(sf.Segments))
	if stored != nil {
		planned := make(map[int]bool, len(plan))
		for _, index := range plan {
			planned[index] = true
		}
		for _, r := range old.Segments {
			if !planned[r.SegmentIndex] {
				results[r.SegmentIndex] = r
				completed[r.SegmentIndex] = true
			}
		}
	}

	for _, res := range worker.Run(ctx, p.workers, jobs) {
		if res.Err != nil {
			p.printf("WARNING: segment %d of %s: %v\n", res.SegmentIndex, doc.SourcePath, res.Err)
			continue
		}
		seg := segByIndex[res.SegmentIndex]
		merged, err := reconciler.Reconcile(seg, sf.Transcript.Statements, res.Proposals)
		if err != nil {
			if errs.IsFatal(err) {
				return entry, err
			}
			entry.Status = "failed"
			entry.Error = err.Error()
			return entry, nil
		}
		results[res.SegmentIndex] = store.SegmentResult{
			SegmentIndex: res.SegmentIndex,
			Proposals:    res.Proposals,
			Assignments:  merged.Assignments,
			Orphans:      merged.Orphans,
		}
		completed[res.SegmentIndex] = true
	}

	// Only completed segments are fingerprinted. A failed segment keeps no
	// hash, so the next run plans it again.
	record := fingerprint.Record{
		TranscriptHash: fresh.TranscriptHash,
		CodebookHash:   fresh.CodebookHash,
		SegmentHashes:  make(map[int]string, len(completed)),
	}
	ordered := make([]store.SegmentResult, 0, len(results))
	for _, seg := range sf.Segments {
		if r, ok := results[seg.Index]; ok {
			ordered = append(ordered, r)
		}
		if completed[seg.Index] {
			record.SegmentHashes[seg.Index] = fresh.SegmentHashes[seg.Index]
		}
	}
	if incomplete := len(sf.Segments) - len(completed); incomplete > 0 {
		entry.Status = "failed"
		entry.Error = fmt.Sprintf("%d segment(s) not annotated", incomplete)
	}

	if err := p.store.SaveAnalysis(&store.AnalysisFile{
		DocumentID:  doc.DocumentID,
		SourcePath:  doc.SourcePath,
		Policy:      p.cfg.Analysis,
		Fingerprint: record,
		Segments:    ordered,
	}); err != nil {
		return entry, err
	}
	// A cancelled run persists what completed, then stops. Interrupted
	// segments kept no hash and are retried next time.
	if err := ctx.Err(); err != nil {
		return entry, errs.Annotation("analysis interrupted", err)
	}
	return entry, nil
}

// buildRequest assembles the annotation payload for one segment. Interviewer
// statements are withheld entirely when the run excludes the interviewer;
// overlap statements ride along as non-target context.
func (p *Pipeline) buildRequest(sf *store.SegmentsFile, seg model.Segment) annotate.Request {
	textByID := make(map[string]model.Statement, len(sf.Transcript.Statements))
	for _, s := range sf.Transcript.Statements {
		textByID[s.ID] = s
	}
	payload := make([]annotate.StatementPayload, 0, len(seg.Statements))
	for _, ref := range seg.Statements {
		s, ok := textByID[ref.ID]
		if !ok {
			continue
		}
		if p.cfg.Analysis.ExcludeInterviewer && s.Role == model.RoleInterviewer {
			continue
		}
		payload = append(payload, annotate.StatementPayload{
			ID:     s.ID,
			Target: !ref.Reference,
			Text:   s.Text,
		})
	}
	return annotate.Request{
		SegmentID:  fmt.Sprintf("%s#%d", seg.TranscriptID, seg.Index),
		Codebook:   p.cfg.Codebook,
		Policy:     p.cfg.Analysis,
		Statements: payload,
	}
}

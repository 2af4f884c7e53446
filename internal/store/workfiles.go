package store

import (
	"path/filepath"
	"time"

	"github.com/DennisSchulmeister/interview-analysis/internal/fingerprint"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
	"github.com/DennisSchulmeister/interview-analysis/internal/reconcile"
)

// SchemaVersion is bumped whenever work files change incompatibly. Files
// with a different version are regenerated rather than reused.
const SchemaVersion = 1

// SegmentsFile is the segmentation work file of one transcript.
type SegmentsFile struct {
	SchemaVersion     int              `yaml:"schema_version"`
	GeneratedAt       time.Time        `yaml:"generated_at"`
	RunID             string           `yaml:"run_id"`
	Transcript        model.Transcript `yaml:"transcript"`
	SegmentParagraphs int              `yaml:"segment_paragraphs"`
	OverlapParagraphs int              `yaml:"overlap_paragraphs"`
	TranscriptHash    string           `yaml:"transcript_hash"`
	Segments          []model.Segment  `yaml:"segments"`
}

// SegmentResult captures one segment's raw proposals and reconciled output.
// Raw proposals are persisted unmodified so a reviewer can audit every
// reconciliation decision.
type SegmentResult struct {
	SegmentIndex int                   `yaml:"segment_index"`
	Proposals    []model.Proposal      `yaml:"proposals,omitempty"`
	Assignments  []model.Assignment    `yaml:"assignments,omitempty"`
	Orphans      []reconcile.Rejection `yaml:"orphaned_rejections,omitempty"`
}

// AnalysisFile is the analysis work file of one transcript. Its fingerprint
// record only lists segments whose annotation completed, so a failed or
// cancelled segment stays stale and is retried on the next run.
type AnalysisFile struct {
	SchemaVersion int                `yaml:"schema_version"`
	GeneratedAt   time.Time          `yaml:"generated_at"`
	RunID         string             `yaml:"run_id"`
	DocumentID    string             `yaml:"document_id"`
	SourcePath    string             `yaml:"source_path"`
	Policy        model.RunPolicy    `yaml:"analysis"`
	Fingerprint   fingerprint.Record `yaml:"fingerprint"`
	Segments      []SegmentResult    `yaml:"segments"`
}

// IndexEntry is one transcript line in an index file.
type IndexEntry struct {
	DocumentID    string `yaml:"document_id"`
	SourcePath    string `yaml:"source_path"`
	SegmentsTotal int    `yaml:"segments_total"`
	Status        string `yaml:"status,omitempty"` // set when a transcript failed
	Error         string `yaml:"error,omitempty"`
}

// Index summarizes all transcripts of a run for external tooling.
type Index struct {
	SchemaVersion int          `yaml:"schema_version"`
	GeneratedAt   time.Time    `yaml:"generated_at"`
	RunID         string       `yaml:"run_id"`
	Documents     []IndexEntry `yaml:"documents"`
}

// LoadSegments returns the stored segmentation of a transcript, if any.
func (s *Store) LoadSegments(docID string) (*SegmentsFile, bool) {
	f, ok := readYAML[SegmentsFile](s, s.segmentsPath(docID))
	if !ok || f.SchemaVersion != SchemaVersion {
		return nil, false
	}
	return f, true
}

// SaveSegments persists the segmentation of a transcript.
func (s *Store) SaveSegments(f *SegmentsFile) error {
	f.SchemaVersion = SchemaVersion
	f.GeneratedAt = now()
	f.RunID = s.runID
	return writeYAML(s, s.segmentsPath(f.Transcript.ID), f)
}

// LoadAnalysis returns the stored analysis of a transcript, if any.
func (s *Store) LoadAnalysis(docID string) (*AnalysisFile, bool) {
	f, ok := readYAML[AnalysisFile](s, s.analysisPath(docID))
	if !ok || f.SchemaVersion != SchemaVersion {
		return nil, false
	}
	return f, true
}

// SaveAnalysis persists the analysis of a transcript.
func (s *Store) SaveAnalysis(f *AnalysisFile) error {
	f.SchemaVersion = SchemaVersion
	f.GeneratedAt = now()
	f.RunID = s.runID
	return writeYAML(s, s.analysisPath(f.DocumentID), f)
}

// SaveIndex writes the run index for one work-file kind ("segments" or
// "analysis").
func (s *Store) SaveIndex(kind string, entries []IndexEntry) error {
	index := &Index{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now(),
		RunID:         s.runID,
		Documents:     entries,
	}
	return writeYAML(s, s.indexPath(kind), index)
}

// LoadIndex reads the run index for one work-file kind.
func (s *Store) LoadIndex(kind string) (*Index, bool) {
	f, ok := readYAML[Index](s, s.indexPath(kind))
	if !ok || f.SchemaVersion != SchemaVersion {
		return nil, false
	}
	return f, true
}

func (s *Store) indexPath(kind string) string {
	return filepath.Join(s.dir, kind, "index.yaml")
}

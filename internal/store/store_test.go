package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSegmentsFile() *SegmentsFile {
	return &SegmentsFile{
		Transcript: model.Transcript{
			ID:         "interview-01-abc123",
			SourcePath: "transcripts/interview-01.odt",
			Statements: []model.Statement{
				{ID: "p0001", Speaker: "P1", Text: "Hello.", Role: model.RoleParticipant},
			},
		},
		SegmentParagraphs: 12,
		OverlapParagraphs: 3,
		TranscriptHash:    "abc",
		Segments: []model.Segment{
			{TranscriptID: "interview-01-abc123", Index: 1,
				Statements: []model.StatementRef{{ID: "p0001"}}},
		},
	}
}

func TestSegmentsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.LoadSegments("interview-01-abc123"); ok {
		t.Fatal("LoadSegments found a file that was never written")
	}
	if err := s.SaveSegments(testSegmentsFile()); err != nil {
		t.Fatalf("SaveSegments failed: %v", err)
	}

	got, ok := s.LoadSegments("interview-01-abc123")
	if !ok {
		t.Fatal("LoadSegments did not find the saved file")
	}
	if got.SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %d, want %d", got.SchemaVersion, SchemaVersion)
	}
	if got.RunID != s.RunID() {
		t.Errorf("run id = %q, want %q", got.RunID, s.RunID())
	}
	if got.TranscriptHash != "abc" || len(got.Segments) != 1 {
		t.Errorf("unexpected content: %+v", got)
	}
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := openTestStore(t)

	af := &AnalysisFile{
		DocumentID: "interview-01-abc123",
		SourcePath: "transcripts/interview-01.odt",
		Policy:     model.RunPolicy{Strategy: model.StrategySegment, ExcludeInterviewer: true},
		Segments: []SegmentResult{{
			SegmentIndex: 1,
			Assignments: []model.Assignment{{
				StatementID: "p0001", Topic: "Motivation", Orientation: "High",
				Role: model.RolePrimary, Evidence: "Hello.", Decision: model.DecisionPending,
			}},
		}},
	}
	if err := s.SaveAnalysis(af); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	got, ok := s.LoadAnalysis("interview-01-abc123")
	if !ok {
		t.Fatal("LoadAnalysis did not find the saved file")
	}
	if got.Policy != af.Policy {
		t.Errorf("policy = %+v, want %+v", got.Policy, af.Policy)
	}
	if len(got.Segments) != 1 || got.Segments[0].Assignments[0].Decision != model.DecisionPending {
		t.Errorf("unexpected content: %+v", got.Segments)
	}
}

func TestCorruptFileTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)

	path := s.segmentsPath("broken")
	if err := os.WriteFile(path, []byte("{{{ not yaml"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, ok := s.LoadSegments("broken"); ok {
		t.Error("corrupt work file was loaded as valid")
	}
}

func TestIndexRoundTrip(t *testing.T) {
	s := openTestStore(t)

	entries := []IndexEntry{
		{DocumentID: "a", SourcePath: "a.txt", SegmentsTotal: 3},
		{DocumentID: "b", SourcePath: "b.txt", Status: "failed", Error: "unreadable"},
	}
	if err := s.SaveIndex("segments", entries); err != nil {
		t.Fatalf("SaveIndex failed: %v", err)
	}
	got, ok := s.LoadIndex("segments")
	if !ok {
		t.Fatal("LoadIndex did not find the saved index")
	}
	if len(got.Documents) != 2 || got.Documents[1].Status != "failed" {
		t.Errorf("unexpected index: %+v", got.Documents)
	}
	if _, ok := s.LoadIndex("analysis"); ok {
		t.Error("LoadIndex found an index of the wrong kind")
	}
}

func TestLockExcludesSecondRun(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()

	if _, err := Open(dir); err == nil {
		t.Fatal("second Open on a locked directory succeeded")
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	second, err := Open(dir)
	if err != nil {
		t.Fatalf("Open after unlock failed: %v", err)
	}
	second.Close()
}

func TestCleanRemovesWorkFiles(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSegments(testSegmentsFile()); err != nil {
		t.Fatalf("SaveSegments failed: %v", err)
	}
	if err := s.Clean(); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, ok := s.LoadSegments("interview-01-abc123"); ok {
		t.Error("work file survived Clean")
	}
	// The directory layout stays usable after cleaning.
	if err := s.SaveSegments(testSegmentsFile()); err != nil {
		t.Errorf("SaveSegments after Clean failed: %v", err)
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveSegments(testSegmentsFile()); err != nil {
		t.Fatalf("SaveSegments failed: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(s.Dir(), "segments", ".*tmp*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

package pipeline

import (
	"github.com/DennisSchulmeister/interview-analysis/internal/aggregate"
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
	"github.com/DennisSchulmeister/interview-analysis/internal/reconcile"
)

// TranscriptResult is the finalized analysis of one transcript, flattened
// across segments for reporting.
type TranscriptResult struct {
	DocumentID  string
	SourcePath  string
	Assignments []model.Assignment
	Orphans     []reconcile.Rejection
}

// Collect loads the finished analyses of the current work directory in
// index order. Transcripts marked failed in the index are skipped; a
// missing analysis work file for a non-failed transcript is an error
// because the index promises one.
func (p *Pipeline) Collect() ([]TranscriptResult, error) {
	idx, ok := p.store.LoadIndex("analysis")
	if !ok {
		return nil, errs.Config("no analysis found in %s, run 'analyze' first", p.store.Dir())
	}

	out := make([]TranscriptResult, 0, len(idx.Documents))
	for _, doc := range idx.Documents {
		if doc.Status == "failed" {
			p.printf("WARNING: omitting failed transcript from report: %s\n", doc.SourcePath)
			continue
		}
		af, ok := p.store.LoadAnalysis(doc.DocumentID)
		if !ok {
			return nil, errs.Config("analysis work file missing for %s", doc.SourcePath)
		}
		result := TranscriptResult{DocumentID: af.DocumentID, SourcePath: af.SourcePath}
		for _, seg := range af.Segments {
			result.Assignments = append(result.Assignments, seg.Assignments...)
			result.Orphans = append(result.Orphans, seg.Orphans...)
		}
		out = append(out, result)
	}
	return out, nil
}

// SummaryInput converts collected results into aggregation input. Assignments
// the researcher rejected during review are excluded from the totals but stay
// in the per-transcript detail.
func SummaryInput(results []TranscriptResult) []aggregate.TranscriptAssignments {
	out := make([]aggregate.TranscriptAssignments, 0, len(results))
	for _, r := range results {
		t := aggregate.TranscriptAssignments{TranscriptID: r.DocumentID, SourcePath: r.SourcePath}
		for _, a := range r.Assignments {
			if a.Decision == model.DecisionRejected {
				continue
			}
			t.Assignments = append(t.Assignments, a)
		}
		out = append(out, t)
	}
	return out
}

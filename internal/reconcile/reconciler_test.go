package reconcile

import (
	"errors"
	"strings"
	"testing"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

func testCodebook() model.Codebook {
	return model.Codebook{Topics: []model.Topic{
		{Name: "Motivation", Orientations: []model.Orientation{
			{Label: "Intrinsic"}, {Label: "Extrinsic"},
		}},
		{Name: "Strategy", Orientations: []model.Orientation{
			{Label: "Deep"}, {Label: "Surface"},
		}},
		{Name: "Remarks"},
	}}
}

func testSegment() model.Segment {
	return model.Segment{TranscriptID: "doc", Index: 1, Statements: []model.StatementRef{
		{ID: "p0001"},
		{ID: "p0002"},
	}}
}

func testStatements() []model.Statement {
	return []model.Statement{
		{ID: "p0001", Speaker: "P1", Text: "I study because the subject fascinates me.", Role: model.RoleParticipant},
		{ID: "p0002", Speaker: "I", Text: "Why did you pick this program?", Role: model.RoleInterviewer},
		{ID: "p0003", Speaker: "P1", Text: "Owned by the previous segment.", Role: model.RoleParticipant},
	}
}

func TestReconcileAcceptsValidProposal(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic",
			Evidence: "the subject fascinates me", Rationale: "states fascination"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(res.Assignments))
	}
	a := res.Assignments[0]
	if a.Role != model.RolePrimary || a.Decision != model.DecisionPending {
		t.Errorf("unexpected assignment: role=%q decision=%q", a.Role, a.Decision)
	}
}

func TestReconcileRejectsUnknownVocabulary(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Invented", Orientation: "", Evidence: "fascinates me"},
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Sideways", Evidence: "fascinates me"},
		{StatementID: "p0001", Topic: "Remarks", Orientation: "Intrinsic", Evidence: "fascinates me"},
		{StatementID: "p0001", Topic: "Motivation", Orientation: "", Evidence: "fascinates me"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 0 {
		t.Fatalf("got %d assignments, want 0", len(res.Assignments))
	}
	// Nothing is silently dropped: all four survive as orphaned rejections.
	if len(res.Orphans) != 4 {
		t.Fatalf("got %d orphans, want 4", len(res.Orphans))
	}
	for _, o := range res.Orphans {
		if o.Candidate.Reason == "" {
			t.Errorf("orphan without reason: %+v", o)
		}
	}
}

func TestReconcileRejectsNonVerbatimEvidence(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic",
			Evidence: "the subject delights me"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 0 {
		t.Fatal("paraphrased evidence was accepted")
	}
	if len(res.Orphans) != 1 || !strings.Contains(res.Orphans[0].Candidate.Reason, "verbatim") {
		t.Errorf("unexpected orphans: %+v", res.Orphans)
	}
}

func TestReconcileDropsReferenceAndInterviewerProposals(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{ExcludeInterviewer: true})
	seg := model.Segment{TranscriptID: "doc", Index: 2, Statements: []model.StatementRef{
		{ID: "p0001", Reference: true},
		{ID: "p0002"},
		{ID: "p0003"},
	}}
	res, err := r.Reconcile(seg, testStatements(), []model.Proposal{
		// Reference statement, owned by segment 1.
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "fascinates me"},
		// Interviewer statement, excluded by policy.
		{StatementID: "p0002", Topic: "Remarks", Evidence: "Why did you pick this program?"},
		{StatementID: "p0003", Topic: "Remarks", Evidence: "Owned by the previous segment."},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 1 || res.Assignments[0].StatementID != "p0003" {
		t.Errorf("unexpected assignments: %+v", res.Assignments)
	}
	if len(res.Orphans) != 0 {
		t.Errorf("reference/interviewer drops must not leave audit records, got %+v", res.Orphans)
	}
}

func TestReconcileUnknownStatementID(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p9999", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "whatever"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Orphans) != 1 || res.Orphans[0].StatementID != "p9999" {
		t.Errorf("unexpected orphans: %+v", res.Orphans)
	}
}

func TestReconcileDeduplicatesExactTriplets(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	p := model.Proposal{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic",
		Evidence: "the subject fascinates me"}
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{p, p, p})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Errorf("duplicates not collapsed: %d assignments", len(res.Assignments))
	}
	if len(res.Assignments[0].RejectedCandidates) != 0 {
		t.Errorf("exact duplicates must collapse silently, got %+v", res.Assignments[0].RejectedCandidates)
	}
}

func TestReconcileDuplicateWithDifferentRoleKeepsAuditRecord(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{AllowSecondary: true})
	primary := model.Proposal{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic",
		Evidence: "the subject fascinates me", Role: model.ProposalPrimary}
	secondary := primary
	secondary.Role = model.ProposalSecondary
	secondary.SecondaryReason = "also mentioned in passing"

	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{primary, secondary})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(res.Assignments))
	}
	a := res.Assignments[0]
	if a.Role != model.RolePrimary {
		t.Errorf("kept role = %q, want the first-seen role", a.Role)
	}
	if len(a.RejectedCandidates) != 1 {
		t.Fatalf("collapsing a duplicate with a different role must leave an audit record, got %+v",
			a.RejectedCandidates)
	}
	if !strings.Contains(a.RejectedCandidates[0].Reason, `role "primary"`) {
		t.Errorf("rejection reason = %q, want it to name the kept role", a.RejectedCandidates[0].Reason)
	}
}

func TestReconcileOrientationSuppression(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Extrinsic", Evidence: "I study"},
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "fascinates me"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(res.Assignments))
	}
	a := res.Assignments[0]
	// "Intrinsic" is listed first for Motivation and outranks "Extrinsic".
	if a.Orientation != "Intrinsic" {
		t.Errorf("kept orientation %q, want Intrinsic", a.Orientation)
	}
	if len(a.RejectedCandidates) != 1 || a.RejectedCandidates[0].Orientation != "Extrinsic" {
		t.Errorf("suppressed orientation not preserved: %+v", a.RejectedCandidates)
	}
}

func TestReconcileMultipleOrientationsAllowed(t *testing.T) {
	cb := testCodebook()
	cb.Topics[0].AllowMultipleOrientations = true
	r := New(cb, model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Extrinsic", Evidence: "I study"},
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "fascinates me"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 2 {
		t.Fatalf("got %d assignments, want 2", len(res.Assignments))
	}
	// Output follows orientation rank, not proposal order.
	if res.Assignments[0].Orientation != "Intrinsic" {
		t.Errorf("first assignment orientation %q, want Intrinsic", res.Assignments[0].Orientation)
	}
}

func TestReconcilePrimaryCap(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{AllowSecondary: true})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Strategy", Orientation: "Deep", Evidence: "I study"},
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "fascinates me"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 2 {
		t.Fatalf("got %d assignments, want 2", len(res.Assignments))
	}
	// Motivation ranks first in the codebook, so it keeps the primary.
	first, second := res.Assignments[0], res.Assignments[1]
	if first.Topic != "Motivation" || first.Role != model.RolePrimary {
		t.Errorf("first: %+v", first)
	}
	if second.Topic != "Strategy" || second.Role != model.RoleSecondary {
		t.Errorf("second: %+v", second)
	}
	if second.SecondaryReason == "" {
		t.Error("downgraded assignment has no reason")
	}
}

func TestReconcileMultiplePrimariesAllowed(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{AllowSecondary: true, AllowMultiplePrimary: true})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Strategy", Orientation: "Deep", Evidence: "I study"},
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "fascinates me"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	for _, a := range res.Assignments {
		if a.Role != model.RolePrimary {
			t.Errorf("topic %q downgraded despite allow_multiple_primary_assignments", a.Topic)
		}
	}
}

func TestReconcileSecondaryDisabled(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{})
	res, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Motivation", Orientation: "Intrinsic", Evidence: "fascinates me"},
		{StatementID: "p0001", Topic: "Strategy", Orientation: "Deep", Evidence: "I study",
			Role: model.ProposalSecondary, SecondaryReason: "also touches strategy"},
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(res.Assignments))
	}
	rc := res.Assignments[0].RejectedCandidates
	if len(rc) != 1 || !strings.Contains(rc[0].Reason, "disabled") {
		t.Errorf("unexpected rejected candidates: %+v", rc)
	}
}

func TestReconcileSecondaryWithoutReason(t *testing.T) {
	r := New(testCodebook(), model.RunPolicy{AllowSecondary: true})
	_, err := r.Reconcile(testSegment(), testStatements(), []model.Proposal{
		{StatementID: "p0001", Topic: "Strategy", Orientation: "Deep", Evidence: "I study",
			Role: model.ProposalSecondary},
	})
	if !errors.Is(err, errs.ErrStructural) {
		t.Fatalf("got %v, want structural error", err)
	}
}

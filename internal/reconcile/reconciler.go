// Package reconcile merges raw model proposals into final, audit-preserving
// assignments.
//
// Proposals are untrusted input. Everything the model sends is validated
// against the closed codebook vocabulary at this boundary; nothing that
// fails validation is silently dropped, it becomes a rejection record
// instead. All decisions are deterministic: ties break by codebook order,
// never by call order.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Reconciler applies the multiplicity and ranking rules of one codebook and
// run policy. It is safe to use for any number of segments; it holds no
// per-segment state.
type Reconciler struct {
	codebook model.Codebook
	policy   model.RunPolicy
}

// New creates a reconciler for the given codebook and run policy.
func New(codebook model.Codebook, policy model.RunPolicy) *Reconciler {
	return &Reconciler{codebook: codebook, policy: policy}
}

// Rejection is a rejected proposal that could not be attached to any kept
// assignment, preserved separately for audit.
type Rejection struct {
	StatementID string         `yaml:"statement_id" json:"statement_id"`
	Candidate   model.Rejected `yaml:"candidate" json:"candidate"`
}

// Result is the reconciled output of one segment.
type Result struct {
	// Assignments for the segment's owned statements, in statement order,
	// then codebook topic order, then orientation rank.
	Assignments []model.Assignment
	// Orphans are rejections for statements that kept no assignment (or
	// that do not exist), so they cannot ride along on an Assignment.
	Orphans []Rejection
}

// Reconcile merges the raw proposals of one segment into final assignments
// for the segment's owned statements.
//
// Proposals for reference-only statements contribute nothing here: those
// statements are owned by the previous segment. Proposals for interviewer
// statements are discarded when the run excludes the interviewer, regardless
// of what the annotation layer claims. A secondary proposal without a reason
// is a structural error and aborts the transcript.
func (r *Reconciler) Reconcile(seg model.Segment, statements []model.Statement, proposals []model.Proposal) (*Result, error) {
	byID := make(map[string]model.Statement, len(statements))
	for _, s := range statements {
		byID[s.ID] = s
	}

	result := &Result{}

	// Group proposals by owned statement, collecting boundary rejections
	// along the way.
	grouped := make(map[string][]model.Proposal)
	for _, p := range proposals {
		stmt, known := byID[p.StatementID]
		if !known {
			result.Orphans = append(result.Orphans, Rejection{
				StatementID: p.StatementID,
				Candidate:   rejected(p, "unknown statement id"),
			})
			continue
		}
		if !seg.Owns(p.StatementID) {
			// Reference-only context statement, owned elsewhere.
			continue
		}
		if r.policy.ExcludeInterviewer && stmt.Role == model.RoleInterviewer {
			continue
		}
		grouped[p.StatementID] = append(grouped[p.StatementID], p)
	}

	// Process statements in segment order for deterministic output.
	for _, id := range seg.OwnedIDs() {
		ps := grouped[id]
		if len(ps) == 0 {
			continue
		}
		assignments, orphans, err := r.reconcileStatement(byID[id], ps)
		if err != nil {
			return nil, err
		}
		result.Assignments = append(result.Assignments, assignments...)
		result.Orphans = append(result.Orphans, orphans...)
	}

	return result, nil
}

// candidate is a proposal that survived vocabulary validation.
type candidate struct {
	proposal model.Proposal
	role     model.AssignmentRole
}

func (r *Reconciler) reconcileStatement(stmt model.Statement, proposals []model.Proposal) ([]model.Assignment, []Rejection, error) {
	var kept []candidate
	var rejectedCandidates []model.Rejected

	seen := make(map[[3]string]model.ProposalRole)
	for _, p := range proposals {
		// Exact duplicates across calls collapse silently. A duplicate
		// that only differs in role keeps an audit record, since the
		// collapse discards its role claim.
		key := [3]string{p.Topic, p.Orientation, p.Evidence}
		propRole := p.Role
		if propRole == "" {
			propRole = model.ProposalPrimary
		}
		if first, dup := seen[key]; dup {
			if propRole != first {
				rejectedCandidates = append(rejectedCandidates, rejected(p,
					fmt.Sprintf("collapsed into an identical proposal kept with role %q", first)))
			}
			continue
		}
		seen[key] = propRole

		if reason, ok := r.validate(stmt, p); !ok {
			rejectedCandidates = append(rejectedCandidates, rejected(p, reason))
			continue
		}

		role := model.RolePrimary
		switch p.Role {
		case model.ProposalSecondary:
			if !r.policy.AllowSecondary {
				rejectedCandidates = append(rejectedCandidates, rejected(p, "secondary assignments disabled for this run"))
				continue
			}
			if strings.TrimSpace(p.SecondaryReason) == "" {
				return nil, nil, errs.Structural(
					"statement %s: secondary proposal for topic %q has no reason", stmt.ID, p.Topic)
			}
			role = model.RoleSecondary
		case model.ProposalPrimary, "":
			role = model.RolePrimary
		default:
			rejectedCandidates = append(rejectedCandidates, rejected(p, fmt.Sprintf("unknown proposal role %q", p.Role)))
			continue
		}

		kept = append(kept, candidate{proposal: p, role: role})
	}

	kept, suppressed := r.suppressLowerOrientations(kept)
	rejectedCandidates = append(rejectedCandidates, suppressed...)

	kept = r.applyPrimaryCap(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].proposal, kept[j].proposal
		if ta, tb := r.codebook.TopicRank(a.Topic), r.codebook.TopicRank(b.Topic); ta != tb {
			return ta < tb
		}
		ra, _ := r.codebook.OrientationRank(a.Topic, a.Orientation)
		rb, _ := r.codebook.OrientationRank(b.Topic, b.Orientation)
		return ra < rb
	})

	assignments := make([]model.Assignment, 0, len(kept))
	for i, c := range kept {
		a := model.Assignment{
			StatementID:     stmt.ID,
			Topic:           c.proposal.Topic,
			Orientation:     c.proposal.Orientation,
			Role:            c.role,
			SecondaryReason: c.proposal.SecondaryReason,
			Rationale:       c.proposal.Rationale,
			Evidence:        c.proposal.Evidence,
			Decision:        model.DecisionPending,
		}
		if i == 0 {
			// Audit trail rides on the statement's first kept record.
			a.RejectedCandidates = rejectedCandidates
		}
		assignments = append(assignments, a)
	}

	var orphans []Rejection
	if len(assignments) == 0 {
		for _, rc := range rejectedCandidates {
			orphans = append(orphans, Rejection{StatementID: stmt.ID, Candidate: rc})
		}
	}

	return assignments, orphans, nil
}

// validate checks a proposal against the closed codebook vocabulary and the
// statement text. The returned reason is only meaningful when ok is false.
func (r *Reconciler) validate(stmt model.Statement, p model.Proposal) (reason string, ok bool) {
	topic, found := r.codebook.Topic(p.Topic)
	if !found {
		return errs.Schema("topic %q is not in the codebook", p.Topic).Error(), false
	}

	if len(topic.Orientations) == 0 {
		if p.Orientation != "" {
			return errs.Schema("topic %q defines no orientations, got %q", p.Topic, p.Orientation).Error(), false
		}
	} else {
		if p.Orientation == "" {
			return errs.Schema("topic %q requires an orientation", p.Topic).Error(), false
		}
		if _, known := r.codebook.OrientationRank(p.Topic, p.Orientation); !known {
			return errs.Schema("orientation %q is not defined for topic %q", p.Orientation, p.Topic).Error(), false
		}
	}

	if strings.TrimSpace(p.Evidence) == "" {
		return errs.Schema("proposal for topic %q has no evidence quote", p.Topic).Error(), false
	}
	if !strings.Contains(stmt.Text, strings.TrimSpace(p.Evidence)) {
		return errs.Schema("evidence quote does not appear verbatim in statement %s", stmt.ID).Error(), false
	}

	return "", true
}

// suppressLowerOrientations enforces the within-topic orientation rule: when
// a topic does not allow multiple orientations, only the proposal whose
// orientation ranks highest in the codebook survives.
func (r *Reconciler) suppressLowerOrientations(kept []candidate) ([]candidate, []model.Rejected) {
	var suppressed []model.Rejected
	bestByTopic := make(map[string]int) // topic -> index into kept

	out := kept[:0]
	for _, c := range kept {
		topic, _ := r.codebook.Topic(c.proposal.Topic)
		if topic.AllowMultipleOrientations {
			out = append(out, c)
			continue
		}

		bestIdx, have := bestByTopic[topic.Name]
		if !have {
			bestByTopic[topic.Name] = len(out)
			out = append(out, c)
			continue
		}

		best := out[bestIdx]
		bestRank, _ := r.codebook.OrientationRank(topic.Name, best.proposal.Orientation)
		rank, _ := r.codebook.OrientationRank(topic.Name, c.proposal.Orientation)
		if rank < bestRank {
			suppressed = append(suppressed, rejected(best.proposal,
				fmt.Sprintf("lower-ranked orientation suppressed in favor of %q", c.proposal.Orientation)))
			out[bestIdx] = c
		} else {
			suppressed = append(suppressed, rejected(c.proposal,
				fmt.Sprintf("lower-ranked orientation suppressed in favor of %q", best.proposal.Orientation)))
		}
	}

	return out, suppressed
}

// applyPrimaryCap enforces the run-level primary cap: when multiple topics
// claim a primary assignment on one statement and multiple primaries are not
// allowed, the topic ranked first in the codebook keeps them and the rest
// are downgraded to secondary with an auto-generated reason. Codebook order,
// not call order, keeps this deterministic across strategies.
func (r *Reconciler) applyPrimaryCap(kept []candidate) []candidate {
	if r.policy.AllowMultiplePrimary || !r.policy.AllowSecondary {
		return kept
	}

	primaryTopic := ""
	for _, c := range kept {
		if c.role != model.RolePrimary {
			continue
		}
		if primaryTopic == "" || r.codebook.TopicRank(c.proposal.Topic) < r.codebook.TopicRank(primaryTopic) {
			primaryTopic = c.proposal.Topic
		}
	}
	if primaryTopic == "" {
		return kept
	}

	for i, c := range kept {
		if c.role != model.RolePrimary || c.proposal.Topic == primaryTopic {
			continue
		}
		kept[i].role = model.RoleSecondary
		kept[i].proposal.SecondaryReason = fmt.Sprintf(
			"downgraded: single primary per statement, topic %q takes precedence by codebook order", primaryTopic)
	}
	return kept
}

func rejected(p model.Proposal, reason string) model.Rejected {
	return model.Rejected{
		Topic:       p.Topic,
		Orientation: p.Orientation,
		Evidence:    p.Evidence,
		Reason:      reason,
	}
}

package model

// ProposalRole is the role the annotation layer proposed for an assignment.
type ProposalRole string

const (
	ProposalPrimary   ProposalRole = "primary"
	ProposalSecondary ProposalRole = "secondary"
)

// Proposal is one raw per-statement unit from a model response. It is
// untrusted input: the reconciler validates every field against the codebook
// before anything reaches an Assignment.
type Proposal struct {
	StatementID     string       `yaml:"statement_id" json:"statement_id"`
	Topic           string       `yaml:"topic" json:"topic"`
	Orientation     string       `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	Evidence        string       `yaml:"evidence" json:"evidence"` // Verbatim quote from the statement
	Rationale       string       `yaml:"rationale,omitempty" json:"rationale,omitempty"`
	Role            ProposalRole `yaml:"role,omitempty" json:"role,omitempty"`
	SecondaryReason string       `yaml:"secondary_reason,omitempty" json:"secondary_reason,omitempty"`
}

// AssignmentRole distinguishes the one countable assignment of a statement
// and topic from contextual secondary assignments.
type AssignmentRole string

const (
	RolePrimary   AssignmentRole = "primary"
	RoleSecondary AssignmentRole = "secondary"
)

// Decision is the researcher's review verdict on an assignment. The pipeline
// only ever writes DecisionPending; the other values are set by a human in
// the work files and preserved across re-runs of unchanged segments.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionAccepted Decision = "accepted"
	DecisionModified Decision = "modified"
	DecisionRejected Decision = "rejected"
)

// Rejected records a proposal that did not survive reconciliation, kept for
// audit instead of being silently dropped.
type Rejected struct {
	Topic       string `yaml:"topic" json:"topic"`
	Orientation string `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	Evidence    string `yaml:"evidence,omitempty" json:"evidence,omitempty"`
	Reason      string `yaml:"reason" json:"reason"`
}

// Assignment is the reconciled, final topic/orientation record for one
// statement. Assignments are append-only; reconciliation never deletes one,
// and only the researcher fields change afterwards.
type Assignment struct {
	StatementID        string         `yaml:"statement_id" json:"statement_id"`
	Topic              string         `yaml:"topic" json:"topic"`
	Orientation        string         `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	Role               AssignmentRole `yaml:"role" json:"role"`
	SecondaryReason    string         `yaml:"secondary_reason,omitempty" json:"secondary_reason,omitempty"`
	Rationale          string         `yaml:"rationale,omitempty" json:"rationale,omitempty"`
	RejectedCandidates []Rejected     `yaml:"rejected_candidates,omitempty" json:"rejected_candidates,omitempty"`
	Evidence           string         `yaml:"evidence" json:"evidence"`
	Decision           Decision       `yaml:"researcher_decision" json:"researcher_decision"`
	ResearcherComment  string         `yaml:"researcher_comment,omitempty" json:"researcher_comment,omitempty"`
}

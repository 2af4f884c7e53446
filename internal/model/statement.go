package model

// Role identifies who spoke a statement.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleParticipant Role = "participant"
)

// Statement is one normalized speaker turn with a stable paragraph id.
// Statements are created once during normalization and never mutated.
type Statement struct {
	ID      string `yaml:"id" json:"id"`           // Stable "p####" identifier
	Speaker string `yaml:"speaker" json:"speaker"` // Speaker label as written in the transcript
	Text    string `yaml:"text" json:"text"`       // Full statement text, continuations joined
	Role    Role   `yaml:"role" json:"role"`
}

// Metadata holds `key = value` entries extracted from a transcript.
// Repeated keys overwrite earlier values (last wins).
type Metadata map[string]string

// Interviewer returns the interviewer label declared in the transcript
// metadata, or "" if none was declared.
func (m Metadata) Interviewer() string {
	return m["interviewer"]
}

// Transcript bundles the normalized statements of one source file.
type Transcript struct {
	ID         string      `yaml:"document_id" json:"document_id"`
	SourcePath string      `yaml:"source_path" json:"source_path"`
	Statements []Statement `yaml:"statements" json:"statements"`
	Metadata   Metadata    `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// StatementRef is a segment-local view of a statement. Reference-only
// statements provide context to the annotation call but are owned by the
// previous segment and must not produce assignments here.
type StatementRef struct {
	ID        string `yaml:"id" json:"id"`
	Reference bool   `yaml:"reference,omitempty" json:"reference,omitempty"`
}

// Segment is one overlapping window of statements submitted together for
// annotation. Segments are contiguous, non-empty, and ordered by Index.
type Segment struct {
	TranscriptID string         `yaml:"transcript_id" json:"transcript_id"`
	Index        int            `yaml:"index" json:"index"` // 1-based
	Statements   []StatementRef `yaml:"statements" json:"statements"`
}

// OwnedIDs returns the statement ids this segment owns (non-reference).
func (s Segment) OwnedIDs() []string {
	owned := make([]string, 0, len(s.Statements))
	for _, ref := range s.Statements {
		if !ref.Reference {
			owned = append(owned, ref.ID)
		}
	}
	return owned
}

// OverlapIDs returns the ids carried over from the previous segment.
func (s Segment) OverlapIDs() []string {
	var overlap []string
	for _, ref := range s.Statements {
		if ref.Reference {
			overlap = append(overlap, ref.ID)
		}
	}
	return overlap
}

// Owns reports whether the segment owns the given statement id.
func (s Segment) Owns(id string) bool {
	for _, ref := range s.Statements {
		if ref.ID == id {
			return !ref.Reference
		}
	}
	return false
}

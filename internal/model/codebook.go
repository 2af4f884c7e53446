package model

import (
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
)

// Orientation is a topic-scoped subcategory. When a topic does not allow
// multiple orientations, list order is the rank, highest first.
type Orientation struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Topic is one codebook category, the unit counted in summaries.
type Topic struct {
	Name                      string        `yaml:"topic" json:"topic"`
	Description               string        `yaml:"description,omitempty" json:"description,omitempty"`
	AllowMultipleOrientations bool          `yaml:"allow_multiple_orientations" json:"allow_multiple_orientations"`
	Orientations              []Orientation `yaml:"orientations,omitempty" json:"orientations,omitempty"`
}

// Codebook is the full, ordered topic/orientation definition set. It is a
// closed vocabulary: proposals referencing names outside it are rejected at
// the boundary.
type Codebook struct {
	Topics []Topic `yaml:"topics" json:"topics"`
}

// Validate checks the codebook invariants: at least one topic, unique topic
// names, unique orientation labels within each topic.
func (c Codebook) Validate() error {
	if len(c.Topics) == 0 {
		return errs.Config("codebook must define at least one topic")
	}
	topicSeen := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		if t.Name == "" {
			return errs.Config("codebook contains a topic without a name")
		}
		if topicSeen[t.Name] {
			return errs.Config("duplicate topic name %q", t.Name)
		}
		topicSeen[t.Name] = true

		orientSeen := make(map[string]bool, len(t.Orientations))
		for _, o := range t.Orientations {
			if o.Label == "" {
				return errs.Config("topic %q contains an orientation without a label", t.Name)
			}
			if orientSeen[o.Label] {
				return errs.Config("topic %q: duplicate orientation label %q", t.Name, o.Label)
			}
			orientSeen[o.Label] = true
		}
	}
	return nil
}

// Topic returns the topic definition by name.
func (c Codebook) Topic(name string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

// TopicRank returns the 0-based position of a topic in the codebook, used as
// the deterministic tie-break for the primary cap. Unknown topics rank last.
func (c Codebook) TopicRank(name string) int {
	for i, t := range c.Topics {
		if t.Name == name {
			return i
		}
	}
	return len(c.Topics)
}

// OrientationRank returns the 0-based rank of an orientation within a topic
// (earlier is higher). The second result is false for unknown pairs.
func (c Codebook) OrientationRank(topic, orientation string) (int, bool) {
	t, ok := c.Topic(topic)
	if !ok {
		return 0, false
	}
	for i, o := range t.Orientations {
		if o.Label == orientation {
			return i, true
		}
	}
	return 0, false
}

// RunPolicy is the run-level part of the reconciliation decision table.
// Per-topic multiplicity comes from the codebook itself.
type RunPolicy struct {
	Strategy             Strategy `yaml:"strategy" json:"strategy"`
	ExcludeInterviewer   bool     `yaml:"exclude_interviewer" json:"exclude_interviewer"`
	AllowSecondary       bool     `yaml:"allow_secondary_assignments" json:"allow_secondary_assignments"`
	AllowMultiplePrimary bool     `yaml:"allow_multiple_primary_assignments" json:"allow_multiple_primary_assignments"`
}

// Strategy selects how annotation calls are batched.
type Strategy string

const (
	// StrategySegment sends one call per segment with the full codebook.
	StrategySegment Strategy = "segment"
	// StrategyTopic sends one call per segment per topic.
	StrategyTopic Strategy = "topic"
)

// Package aggregate folds reconciled per-transcript assignments into
// cross-transcript frequency counts.
package aggregate

import (
	"sort"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// TranscriptAssignments is one transcript's finalized assignments in
// paragraph order. Order is the transcript's natural order; the position in
// the input slice is the file order.
type TranscriptAssignments struct {
	TranscriptID string
	SourcePath   string
	Assignments  []model.Assignment
}

// Row is one summary line for a (topic, orientation) pair.
type Row struct {
	Topic        string `yaml:"topic" json:"topic"`
	Orientation  string `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	Count        int    `yaml:"count" json:"count"`
	ExampleQuote string `yaml:"example_quote" json:"example_quote"`
}

// Summarize counts primary assignments per (topic, orientation) across all
// transcripts. Secondary assignments stay visible per transcript but never
// contribute to summary totals.
//
// The example quote is the evidence of the first primary assignment in
// file-then-paragraph order, which makes the choice deterministic. Rows are
// ordered by codebook topic order, then orientation rank; pairs without any
// primary assignment are omitted. The function is pure and does not mutate
// its input.
func Summarize(codebook model.Codebook, transcripts []TranscriptAssignments) []Row {
	type key struct{ topic, orientation string }
	counts := make(map[key]*Row)

	for _, t := range transcripts {
		for _, a := range t.Assignments {
			if a.Role != model.RolePrimary {
				continue
			}
			k := key{a.Topic, a.Orientation}
			row, ok := counts[k]
			if !ok {
				row = &Row{
					Topic:        a.Topic,
					Orientation:  a.Orientation,
					ExampleQuote: a.Evidence, // first occurrence wins
				}
				counts[k] = row
			}
			row.Count++
		}
	}

	rows := make([]Row, 0, len(counts))
	for _, row := range counts {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if ti, tj := codebook.TopicRank(rows[i].Topic), codebook.TopicRank(rows[j].Topic); ti != tj {
			return ti < tj
		}
		ri, _ := codebook.OrientationRank(rows[i].Topic, rows[i].Orientation)
		rj, _ := codebook.OrientationRank(rows[j].Topic, rows[j].Orientation)
		return ri < rj
	})
	return rows
}

package aggregate

import (
	"testing"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

func testCodebook() model.Codebook {
	return model.Codebook{Topics: []model.Topic{
		{Name: "Motivation", Orientations: []model.Orientation{{Label: "Low"}, {Label: "High"}}},
		{Name: "Strategy", Orientations: []model.Orientation{{Label: "Deep"}, {Label: "Surface"}}},
	}}
}

func primary(topic, orientation, evidence string) model.Assignment {
	return model.Assignment{Topic: topic, Orientation: orientation, Evidence: evidence, Role: model.RolePrimary}
}

func TestSummarizeCountsPrimariesOnly(t *testing.T) {
	// Three primary "High" assignments and one secondary: the summary must
	// report three, with the secondary visible only per transcript.
	secondary := model.Assignment{Topic: "Motivation", Orientation: "High",
		Evidence: "secondary quote", Role: model.RoleSecondary}
	transcripts := []TranscriptAssignments{
		{TranscriptID: "a", Assignments: []model.Assignment{
			primary("Motivation", "High", "first quote"),
			secondary,
		}},
		{TranscriptID: "b", Assignments: []model.Assignment{
			primary("Motivation", "High", "second quote"),
			primary("Motivation", "High", "third quote"),
		}},
	}

	rows := Summarize(testCodebook(), transcripts)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Count != 3 {
		t.Errorf("count = %d, want 3", row.Count)
	}
	if row.ExampleQuote != "first quote" {
		t.Errorf("example quote = %q, want first occurrence", row.ExampleQuote)
	}
}

func TestSummarizeOrdering(t *testing.T) {
	transcripts := []TranscriptAssignments{
		{TranscriptID: "a", Assignments: []model.Assignment{
			primary("Strategy", "Surface", "q1"),
			primary("Strategy", "Deep", "q2"),
			primary("Motivation", "Low", "q3"),
		}},
	}

	rows := Summarize(testCodebook(), transcripts)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Codebook order, not count or input order.
	want := []struct{ topic, orientation string }{
		{"Motivation", "Low"},
		{"Strategy", "Deep"},
		{"Strategy", "Surface"},
	}
	for i, w := range want {
		if rows[i].Topic != w.topic || rows[i].Orientation != w.orientation {
			t.Errorf("row %d = %s/%s, want %s/%s", i, rows[i].Topic, rows[i].Orientation, w.topic, w.orientation)
		}
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	rows := Summarize(testCodebook(), nil)
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	transcripts := []TranscriptAssignments{
		{TranscriptID: "a", Assignments: []model.Assignment{primary("Motivation", "Low", "q")}},
	}
	Summarize(testCodebook(), transcripts)
	if transcripts[0].Assignments[0].Topic != "Motivation" {
		t.Error("input mutated")
	}
}

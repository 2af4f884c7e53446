// Package report renders finalized assignments into a spreadsheet for the
// researcher: one summary sheet with frequency counts and one detail sheet
// per transcript.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/DennisSchulmeister/interview-analysis/internal/aggregate"
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
	"github.com/DennisSchulmeister/interview-analysis/internal/reconcile"
)

// Transcript is one transcript's detail rows.
type Transcript struct {
	DocumentID  string
	SourcePath  string
	Assignments []model.Assignment
	Orphans     []reconcile.Rejection
}

var summaryHeader = []any{"Topic", "Orientation", "Count", "Example quote"}

var detailHeader = []any{
	"Topic", "Orientation", "Role", "Secondary reason", "Rationale",
	"Rejected assignments", "Researcher decision", "Researcher comment",
	"Where found", "Evidence quote",
}

// Write creates the report workbook at path, overwriting any existing file.
func Write(path string, summary []aggregate.Row, transcripts []Transcript) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return errs.Config("create report: %s", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errs.Config("create report: %s", err)
	}

	if err := writeSummary(f, header, summary); err != nil {
		return err
	}
	used := map[string]bool{"Summary": true}
	for _, t := range transcripts {
		name := sheetName(t, used)
		if _, err := f.NewSheet(name); err != nil {
			return errs.Config("create report sheet %q: %s", name, err)
		}
		if err := writeDetail(f, name, header, t); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errs.Config("write report %s: %s", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, header int, rows []aggregate.Row) error {
	if err := f.SetSheetRow("Summary", "A1", &summaryHeader); err != nil {
		return errs.Config("write report: %s", err)
	}
	if err := f.SetCellStyle("Summary", "A1", "D1", header); err != nil {
		return errs.Config("write report: %s", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{row.Topic, row.Orientation, row.Count, row.ExampleQuote}
		if err := f.SetSheetRow("Summary", cell, &values); err != nil {
			return errs.Config("write report: %s", err)
		}
	}
	_ = f.SetColWidth("Summary", "A", "B", 28)
	_ = f.SetColWidth("Summary", "D", "D", 80)
	return nil
}

func writeDetail(f *excelize.File, sheet string, header int, t Transcript) error {
	if err := f.SetSheetRow(sheet, "A1", &detailHeader); err != nil {
		return errs.Config("write report: %s", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "J1", header); err != nil {
		return errs.Config("write report: %s", err)
	}
	row := 2
	for _, a := range t.Assignments {
		values := []any{
			a.Topic, a.Orientation, string(a.Role), a.SecondaryReason, a.Rationale,
			formatRejected(a.RejectedCandidates), string(a.Decision),
			a.ResearcherComment, a.StatementID, a.Evidence,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errs.Config("write report: %s", err)
		}
		row++
	}
	// Orphaned rejections kept no assignment to ride on; they still appear
	// so the audit trail is complete.
	for _, o := range t.Orphans {
		values := []any{
			o.Candidate.Topic, o.Candidate.Orientation, "rejected", "", "",
			o.Candidate.Reason, "", "", o.StatementID, o.Candidate.Evidence,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errs.Config("write report: %s", err)
		}
		row++
	}
	_ = f.SetColWidth(sheet, "A", "B", 24)
	_ = f.SetColWidth(sheet, "E", "F", 50)
	_ = f.SetColWidth(sheet, "J", "J", 50)
	return nil
}

func formatRejected(rejected []model.Rejected) string {
	if len(rejected) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rejected))
	for _, r := range rejected {
		pair := r.Topic
		if r.Orientation != "" {
			pair += " / " + r.Orientation
		}
		lines = append(lines, fmt.Sprintf("%s: %s", pair, r.Reason))
	}
	return strings.Join(lines, "\n")
}

// sheetName derives a unique sheet name from the transcript source, within
// the 31-character spreadsheet limit and without characters sheet names
// forbid.
func sheetName(t Transcript, used map[string]bool) string {
	base := t.SourcePath
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = t.DocumentID
	}
	// Sheet name limits count characters, so truncation must not split a
	// multi-byte rune.
	if r := []rune(base); len(r) > 31 {
		base = string(r[:31])
	}
	name := base
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		name = base
		if r := []rune(name); len(r)+len(suffix) > 31 {
			name = string(r[:31-len(suffix)])
		}
		name += suffix
	}
	used[name] = true
	return name
}

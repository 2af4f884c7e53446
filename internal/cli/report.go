package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/DennisSchulmeister/interview-analysis/internal/aggregate"
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/pipeline"
	"github.com/DennisSchulmeister/interview-analysis/internal/report"
)

var force bool

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate finalized assignments into a spreadsheet report",
	Long: `Report folds the finalized assignments of all analyzed transcripts into
topic and orientation frequency counts and writes a spreadsheet with one
summary sheet and one detail sheet per transcript.

Only primary assignments count toward the summary; secondary assignments
and rejections stay visible in the per-transcript sheets. Assignments the
researcher rejected in the work files are excluded from the totals.

Example:
  interviews report
  interviews report --force`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing report file")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(cfg.Outfile); err == nil {
			return errs.Config("report file %s already exists, use --force to overwrite", cfg.Outfile)
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p := pipeline.New(cfg, st, pipeline.Options{Out: os.Stdout, Verbose: verbose})
	results, err := p.Collect()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errs.Config("no analyzed transcripts to report on")
	}

	rows := aggregate.Summarize(cfg.Codebook, pipeline.SummaryInput(results))

	transcripts := make([]report.Transcript, 0, len(results))
	for _, r := range results {
		transcripts = append(transcripts, report.Transcript{
			DocumentID:  r.DocumentID,
			SourcePath:  r.SourcePath,
			Assignments: r.Assignments,
			Orphans:     r.Orphans,
		})
	}
	if err := report.Write(cfg.Outfile, rows, transcripts); err != nil {
		return err
	}

	printSummary(rows)
	fmt.Printf("\nReport written to %s (%d transcript(s))\n", cfg.Outfile, len(transcripts))
	return nil
}

func printSummary(rows []aggregate.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Topic", "Orientation", "Count"})
	total := 0
	for _, row := range rows {
		t.AppendRow(table.Row{row.Topic, row.Orientation, row.Count})
		total += row.Count
	}
	t.AppendFooter(table.Row{"Total", "", total})
	t.SetStyle(table.StyleLight)
	t.Render()
}

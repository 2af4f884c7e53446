package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/DennisSchulmeister/interview-analysis/internal/pipeline"
)

// segmentCmd represents the segment command
var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Normalize and segment all transcripts matching the include pattern",
	Long: `Segment reads every transcript matching the configured include pattern,
splits it into speaker statements, and windows the statements into
overlapping segments for annotation.

Transcripts whose content and segmentation parameters are unchanged since
the last run are skipped. A transcript that cannot be parsed is reported
and skipped; the rest of the batch proceeds.

Example:
  interviews segment
  interviews segment --config studies/2026/interviews.yaml`,
	Args: cobra.NoArgs,
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	p := pipeline.New(cfg, st, pipeline.Options{Out: os.Stdout, Verbose: verbose})
	return p.Segment()
}

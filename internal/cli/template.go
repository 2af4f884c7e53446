package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
)

// configTemplate is a starter configuration with every supported topic
// notation shown once.
const configTemplate = `# Interview analysis configuration.
# All relative paths resolve against the directory of this file.

# Glob pattern for transcript files (.txt, .md, .odt, .html).
# "**" matches any number of directories.
include: "transcripts/**/*.odt"

# Optional glob pattern for files to skip.
exclude: ""

# Directory for intermediate work files. Keep it under version control to
# preserve researcher decisions between runs.
workdir: "work"

# Spreadsheet report location.
outfile: "report.xlsx"

# The closed codebook. Three notations are supported:
topics:
  # 1. Bare topic without orientations:
  - "Study motivation"

  # 2. Topic with a list of orientation labels:
  - "Learning strategy":
      - "Surface"
      - "Deep"

  # 3. Expanded form with descriptions:
  - topic: "Exam anxiety"
    description: "How the participant experiences assessment pressure."
    allow_multiple_orientations: false
    orientations:
      - label: "Low"
        description: "Pressure is mentioned but not distressing."
      - label: "High"
        description: "Pressure dominates the participant's account."

segmentation:
  segment_paragraphs: 12
  overlap_paragraphs: 3

analysis:
  # "segment" annotates all topics in one call per segment,
  # "topic" asks one question per topic per segment.
  strategy: "segment"
  exclude_interviewer: true
  allow_secondary_assignments: false
  allow_multiple_primary_assignments: false
`

// templateCmd represents the template command
var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a starter interviews.yaml configuration",
	Long: `Template writes a commented starter configuration to the path given by
--config, or ./interviews.yaml. Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return errs.Config("config file %s already exists, refusing to overwrite", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return errs.Config("write template %s: %v", path, err)
	}
	fmt.Printf("Wrote starter configuration to %s\n", path)
	return nil
}

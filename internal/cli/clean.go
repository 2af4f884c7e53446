package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all work files from the work directory",
	Long: `Clean deletes the segmentation and analysis work files so the next run
starts from scratch. This discards all researcher decisions recorded in
the work files; the report file is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clean(); err != nil {
		return err
	}
	fmt.Printf("Removed work files from %s\n", st.Dir())
	return nil
}

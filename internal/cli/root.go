// Package cli wires the interviews command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DennisSchulmeister/interview-analysis/internal/config"
	"github.com/DennisSchulmeister/interview-analysis/internal/store"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "interviews",
	Short: "Interviews - LLM-assisted qualitative coding of interview transcripts",
	Long: `Interviews segments interview transcripts into overlapping windows,
sends each window to an LLM for topic and orientation annotation, and
reconciles the raw proposals against a closed codebook.

All intermediate results live in plain YAML work files so every annotation,
rejection, and researcher decision stays auditable. Unchanged transcripts
and segments are never re-annotated; only stale segments cost new LLM calls.

The tool proposes codes, it does not decide them. The researcher reviews
the work files and the final spreadsheet report.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("interviews v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./interviews.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in environment variables that match INTERVIEWS_*
func initConfig() {
	viper.SetEnvPrefix("INTERVIEWS")
	viper.AutomaticEnv()
}

// configPath resolves the config file location: flag, then INTERVIEWS_CONFIG,
// then ./interviews.yaml.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if env := viper.GetString("config"); env != "" {
		return env
	}
	return "interviews.yaml"
}

func loadConfig() (*config.Config, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", cfg.Path)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Workdir)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Work directory: %s (run %s)\n", st.Dir(), st.RunID())
	}
	return st, nil
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DennisSchulmeister/interview-analysis/internal/annotate"
	"github.com/DennisSchulmeister/interview-analysis/internal/pipeline"
)

var (
	workers        int
	requestTimeout time.Duration
	requestRate    float64
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Annotate stale segments with the LLM and reconcile the proposals",
	Long: `Analyze sends each segment that changed since the last run to the
configured LLM endpoint and merges the returned proposals into final
assignments. Unchanged segments keep their stored results, including any
researcher decisions recorded in the work files.

The endpoint is configured through environment variables:
  LLM_OPENAI_API_KEY    API key (required)
  LLM_OPENAI_MODEL      model name (required)
  LLM_OPENAI_BASE_URL   alternative OpenAI-compatible endpoint (optional)

Example:
  interviews analyze
  interviews analyze --workers 4 --request-timeout 5m`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of concurrent annotation calls")
	analyzeCmd.Flags().DurationVar(&requestTimeout, "request-timeout", 2*time.Minute, "timeout per annotation call")
	analyzeCmd.Flags().Float64Var(&requestRate, "request-rate", 1, "annotation calls per second")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	llmCfg, err := annotate.ConfigFromEnv()
	if err != nil {
		return err
	}
	llmCfg.Timeout = requestTimeout
	llmCfg.RequestsPerSecond = requestRate
	client, err := annotate.NewClient(llmCfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Ctrl-C finishes in-flight segments and persists what completed;
	// interrupted segments stay stale and are retried on the next run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, st, pipeline.Options{
		Annotator: client,
		Workers:   workers,
		Out:       os.Stdout,
		Verbose:   verbose,
	})
	return p.Analyze(ctx)
}

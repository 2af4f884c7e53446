// Package pipeline orchestrates the analysis run: transcript discovery,
// normalization, segmentation, fingerprint-gated annotation, and
// reconciliation.
//
// Data flows strictly forward. The pipeline's own logic is synchronous; only
// the external annotation calls are dispatched concurrently, one job per
// segment, because segments share no mutable state during annotation.
package pipeline

import (
	"fmt"
	"io"

	"github.com/DennisSchulmeister/interview-analysis/internal/annotate"
	"github.com/DennisSchulmeister/interview-analysis/internal/config"
	"github.com/DennisSchulmeister/interview-analysis/internal/store"
)

// Pipeline runs the analysis phases against one work directory.
type Pipeline struct {
	cfg       *config.Config
	store     *store.Store
	annotator annotate.Annotator
	workers   int
	out       io.Writer
	verbose   bool
}

// Options configure a pipeline.
type Options struct {
	Annotator annotate.Annotator // Required for Analyze, unused by Segment
	Workers   int                // Concurrent annotation jobs, default 1
	Out       io.Writer          // Progress output, default io.Discard
	Verbose   bool
}

// New creates a pipeline over an opened work-file store.
func New(cfg *config.Config, st *store.Store, opts Options) *Pipeline {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		annotator: opts.Annotator,
		workers:   workers,
		out:       out,
		verbose:   opts.Verbose,
	}
}

func (p *Pipeline) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Pipeline) verbosef(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(p.out, format, args...)
	}
}

// Package worker runs segment annotation jobs concurrently.
//
// Each job covers exactly one segment and shares no mutable state with any
// other job, so the pool can dispatch them in any order. Results are
// returned sorted by segment index to keep downstream processing
// deterministic.
package worker

import (
	"context"
	"sort"
	"sync"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Job is one segment-level annotation unit.
type Job struct {
	SegmentIndex int
	Annotate     func(ctx context.Context) ([]model.Proposal, error)
}

// Result is the outcome of one job. A non-nil Err marks the segment as
// failed; its proposals are discarded and the segment stays stale.
type Result struct {
	SegmentIndex int
	Proposals    []model.Proposal
	Err          error
}

// Run executes all jobs on a fixed-size pool and blocks until every job has
// finished or the context is cancelled. Cancelled jobs report ctx.Err() so
// their segments are retried on the next run.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan Job)
	results := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if err := ctx.Err(); err != nil {
					results <- Result{SegmentIndex: job.SegmentIndex, Err: err}
					continue
				}
				proposals, err := job.Annotate(ctx)
				results <- Result{SegmentIndex: job.SegmentIndex, Proposals: proposals, Err: err}
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()
	close(results)

	out := make([]Result, 0, len(jobs))
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SegmentIndex < out[j].SegmentIndex })
	return out
}

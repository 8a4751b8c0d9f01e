package format

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// WorkerCount resolves the number of workers to use for numJobs jobs.
// A requested count of 0 or less means one more than the number of CPUs.
// The result never exceeds numJobs.
func WorkerCount(requested, numJobs int) int {
	if requested <= 0 {
		requested = runtime.NumCPU() + 1
	}
	return min(requested, numJobs)
}

// Dispatch runs every job through r and yields one Result per job.
//
// With a single worker the jobs run in order on the goroutine ranging over the
// sequence. With more, they run concurrently and results are yielded in
// completion order. When the consumer stops ranging, or ctx is cancelled, no
// further jobs are started. Jobs already running are left to finish in the
// background and their results are dropped.
func Dispatch(ctx context.Context, r Runner, jobs []Job, workers int) iter.Seq[Result] {
	if workers <= 1 {
		return func(yield func(Result) bool) {
			for _, job := range jobs {
				if ctx.Err() != nil {
					return
				}
				if !yield(runIsolated(r, job)) {
					return
				}
			}
		}
	}

	return func(yield func(Result) bool) {
		runCtx, cancelRun := context.WithCancel(ctx)
		defer cancelRun()

		// Buffered to len(jobs) so a worker never blocks on a consumer that
		// has gone away.
		resultC := make(chan Result, len(jobs))

		g, gCtx := errgroup.WithContext(runCtx)
		g.SetLimit(workers)

		go func() {
			defer close(resultC)
			for _, job := range jobs {
				if gCtx.Err() != nil {
					break
				}
				g.Go(func() error {
					if gCtx.Err() != nil {
						return nil
					}
					resultC <- runIsolated(r, job)
					return nil
				})
			}
			_ = g.Wait()
		}()

		for res := range resultC {
			if !yield(res) {
				return
			}
		}
	}
}

// runIsolated runs job, converting a panic into a KindFatal result so that
// one job cannot take down the pool.
func runIsolated(r Runner, job Job) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{
				Path: job.Path,
				Kind: KindFatal,
				Err: &UnexpectedError{
					Message: fmt.Sprintf("%s: panic: %v", job.Path, p),
					Trace:   string(debug.Stack()),
				},
			}
		}
	}()
	return r.Run(job)
}

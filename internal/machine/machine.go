package machine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunAll boots count new processors and runs them concurrently until each
// one stops. The processors share the memory of the runner but nothing
// else. All results are returned, the error is the first terminal error of
// any processor. A failing processor does not stop the others.
func (r *Runner) RunAll(ctx context.Context, count int) ([]Result, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid processor count %d", count)
	}

	results := make([]Result, count)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range count {
		g.Go(func() error {
			id, err := r.allocate()
			if err != nil {
				results[i] = Result{Reason: StopError, Err: err}
				return err
			}

			proc, err := r.reset(id)
			if err != nil {
				results[i] = Result{ID: id, HasID: true, Reason: StopError, Err: err}
				return err
			}

			result, err := r.Run(ctx, proc, id)
			results[i] = result
			if err != nil {
				return fmt.Errorf("processor %d: %w", id, err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

package pipeline

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/albumgrid/pkg/album"
)

// BatchResult is the outcome of one album in a batch run.
type BatchResult struct {
	Album  *album.Album
	Result *Result
	Err    error
}

// Batch runs Execute for every album with at most workers albums in flight.
// A failing album does not stop the others; its error is recorded in the
// corresponding BatchResult. Results are returned in input order.
//
// The returned error is non-nil only when ctx is cancelled.
func (r *Runner) Batch(ctx context.Context, albums []*album.Album, opts Options, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(albums))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i, a := range albums {
		p.Go(func(ctx context.Context) error {
			results[i].Album = a
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			// Each album gets its own copy; Formats is shared read-only.
			res, err := r.Execute(ctx, a, opts)
			results[i].Result, results[i].Err = res, err
			if err != nil {
				r.Logger.Warn("album failed", "album", a.Name, "error", err)
			}
			return nil
		})
	}
	_ = p.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed counts the batch results that carry an error.
func Failed(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

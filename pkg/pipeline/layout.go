package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/observability"
)

// ComputeLayout arranges sizes with the grouped layout engine.
// It reports the run to the registered layout hooks. The engine itself is
// synchronous; ctx only carries request-scoped values to the hooks.
func ComputeLayout(ctx context.Context, sizes []grouped.Size, opts Options) (grouped.Result, error) {
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(sizes))

	start := time.Now()
	res, err := grouped.Compute(sizes, opts.Constraints())
	hooks.OnLayoutComplete(ctx, string(res.Strategy), len(sizes), time.Since(start), err)
	if err != nil {
		return grouped.Result{}, err
	}
	return res, nil
}

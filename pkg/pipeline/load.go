package pipeline

import (
	"context"
	"image"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/albumgrid/pkg/media"
)

// LoadImages decodes the images at paths concurrently. Empty paths yield a
// nil image. The first decode failure cancels the remaining loads.
func LoadImages(ctx context.Context, paths []string) ([]image.Image, error) {
	images := make([]image.Image, len(paths))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		if path == "" {
			continue
		}
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := media.Load(path)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

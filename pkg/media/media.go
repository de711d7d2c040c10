// Package media reads image files: their pixel dimensions for building
// albums, and their pixels for drawing collages.
//
// JPEG, PNG and GIF are decoded by the standard library. WebP, BMP and TIFF
// decoders come from golang.org/x/image and are registered by this package.
package media

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/errors"
)

// Dimensions are the pixel size and codec of an image.
type Dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Extensions lists the file extensions ProbeDir picks up.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// Supported reports whether path has one of [Extensions].
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Probe reads the header of the image at path without decoding its pixels.
func Probe(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Dimensions{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
	}
	if err != nil {
		return Dimensions{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, errors.Wrap(errors.ErrCodeUnsupported, err, "decode %s", filepath.Base(path))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, errors.New(errors.ErrCodeInvalidSize, "%s: empty image", filepath.Base(path))
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ProbeDir probes every supported image directly inside dir and returns album
// entries sorted by file name. Entry paths are relative to dir. Files are
// probed concurrently; the first failure cancels the rest.
func ProbeDir(ctx context.Context, dir string) ([]album.Entry, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "directory %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string
	for _, f := range files {
		if f.Type().IsRegular() && Supported(f.Name()) {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	entries := make([]album.Entry, len(names))
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, name := range names {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := Probe(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			entries[i] = album.Entry{Path: name, Width: float64(d.Width), Height: float64(d.Height)}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Load decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "decode %s", filepath.Base(path))
	}
	return img, nil
}

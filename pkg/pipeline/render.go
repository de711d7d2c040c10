package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/observability"
	"github.com/matzehuels/albumgrid/pkg/render"
)

// Render generates output artifacts in the requested formats.
//
// paths are the resolved source files of the items, in layout order. They are
// recorded in JSON output and, when opts.DrawImages is set, referenced from
// SVG and drawn into PNG output. paths may be nil.
func Render(ctx context.Context, res grouped.Result, paths []string, opts Options) (map[string][]byte, error) {
	var images []image.Image
	if opts.DrawImages && opts.HasFormat(FormatPNG) && hasAny(paths) {
		var err error
		if images, err = LoadImages(ctx, paths); err != nil {
			return nil, fmt.Errorf("load images: %w", err)
		}
		opts.logger().Debug("loaded images", "count", len(images))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks := observability.Layout()
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		data, err := renderFormat(res, format, paths, images, opts)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(res grouped.Result, format string, paths []string, images []image.Image, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return render.RenderJSON(res, render.WithJSONPaths(paths))
	case FormatSVG:
		return render.RenderSVG(res, buildSVGOptions(paths, opts)...), nil
	case FormatPNG:
		return render.RenderPNG(res, buildPNGOptions(images, opts)...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func buildSVGOptions(paths []string, opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{render.WithRadius(opts.Radius)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.Background))
	}
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}
	if opts.DrawImages && hasAny(paths) {
		svgOpts = append(svgOpts, render.WithImageHrefs(paths))
	}
	return svgOpts
}

func buildPNGOptions(images []image.Image, opts Options) []render.PNGOption {
	pngOpts := []render.PNGOption{
		render.WithPNGRadius(opts.Radius),
		render.WithScale(opts.Scale),
	}
	if opts.Background != "" {
		pngOpts = append(pngOpts, render.WithPNGBackground(opts.Background))
	}
	if len(images) > 0 {
		pngOpts = append(pngOpts, render.WithImages(images))
	}
	return pngOpts
}

func hasAny(paths []string) bool {
	for _, p := range paths {
		if p != "" {
			return true
		}
	}
	return false
}

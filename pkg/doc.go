// Package pkg provides the core libraries for albumgrid grouped media layout.
//
// # Overview
//
// Albumgrid arranges one to twelve images into a single rounded card of
// bounded width, the way chat clients show a photo album sent as one
// message. The pkg directory is organized into these areas:
//
//  1. [grouped] - The layout engine (sizes and constraints in, tiles out)
//  2. [album] - Album files: items, captions and per-album constraints
//  3. [media] - Reading image dimensions from disk
//  4. [render] - JSON, SVG and PNG output with outer-corner rounding
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//  6. [cache], [storage] - Content-addressed artifacts and saved layouts
//  7. [errors], [observability], [buildinfo] - Shared plumbing
//
// # Architecture
//
// The typical data flow through albumgrid:
//
//	album.toml / image directory / HTTP request
//	         ↓
//	    [album] / [media] (item sizes)
//	         ↓
//	    [grouped] (tile geometry + outer sides)
//	         ↓
//	    [render] (corners + drawing)
//	         ↓
//	    JSON/SVG/PNG output
//
// # Quick Start
//
// Lay out two square photos and render them:
//
//	import (
//	    "github.com/matzehuels/albumgrid/pkg/grouped"
//	    "github.com/matzehuels/albumgrid/pkg/render"
//	)
//
//	sizes := []grouped.Size{{W: 100, H: 100}, {W: 100, H: 100}}
//	res, err := grouped.Compute(sizes, grouped.Constraints{MaxWidth: 300, MinWidth: 50, Spacing: 8})
//	if err != nil {
//	    return err
//	}
//	svg := render.RenderSVG(res)
//
// Or run the cached pipeline end to end:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, a, pipeline.Options{Formats: []string{"svg"}})
//
// # Packages
//
// Each package carries its own documentation. Start with [grouped] for the
// layout rules and [pipeline] for how the pieces fit together.
package pkg

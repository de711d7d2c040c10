// Package pipeline provides the layout pipeline shared by the albumgrid CLI
// and HTTP server.
//
// By centralizing this logic, every entry point applies the same defaults,
// validation and caching.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: Arrange the album's items with the grouped layout engine
//  2. Render: Produce artifacts in the requested formats (JSON, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Formats: []string{"svg"}}
//	result, err := runner.Execute(ctx, album, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, err := runner.ComputeLayout(ctx, album.Sizes(), opts)
//	artifacts, err := runner.Render(ctx, res, nil, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/cache"
	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxWidth is the width of a grouped message bubble in pixels.
	DefaultMaxWidth = 420.0

	// DefaultMinWidth is the narrowest row the partition search accepts
	// without penalty.
	DefaultMinWidth = 100.0

	// DefaultSpacing is the gap between tiles in pixels.
	DefaultSpacing = 2.0

	// DefaultRadius is the corner radius of the group outline.
	DefaultRadius = 12.0

	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// DefaultFormat is the output format when none is requested.
	DefaultFormat = FormatJSON
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatSVG, FormatPNG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Unset values fall back to the album's own constraints
	// and then to the package defaults. Zero is unset for MaxWidth and
	// MaxHeight; MinWidth and Spacing use nil so that zero can be asked for.
	MaxWidth  float64  `json:"max_width,omitempty" bson:"max_width,omitempty"`
	MinWidth  *float64 `json:"min_width,omitempty" bson:"min_width,omitempty"`
	Spacing   *float64 `json:"spacing,omitempty" bson:"spacing,omitempty"`
	MaxHeight float64  `json:"max_height,omitempty" bson:"max_height,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty" bson:"formats,omitempty"`
	Radius     float64  `json:"radius,omitempty" bson:"radius,omitempty"`
	Scale      float64  `json:"scale,omitempty" bson:"scale,omitempty"`
	Background string   `json:"background,omitempty" bson:"background,omitempty"`
	DrawImages bool     `json:"draw_images,omitempty" bson:"draw_images,omitempty"`
	Labels     bool     `json:"labels,omitempty" bson:"labels,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty" bson:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" bson:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Album is the input album.
	Album *album.Album

	// SizesHash is the content hash of the album's item sizes.
	SizesHash string

	// Layout is the computed geometry.
	Layout grouped.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Strategy   grouped.Strategy
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ApplyAlbum fills zero layout options from the album's own constraints.
// Explicit options always win over the album file.
func (o *Options) ApplyAlbum(a *album.Album) {
	if a == nil || a.Layout == nil {
		return
	}
	if o.MaxWidth == 0 {
		o.MaxWidth = a.Layout.MaxWidth
	}
	if o.MinWidth == nil && a.Layout.MinWidth != nil {
		o.MinWidth = Float(*a.Layout.MinWidth)
	}
	if o.Spacing == nil && a.Layout.Spacing != nil {
		o.Spacing = Float(*a.Layout.Spacing)
	}
	if o.MaxHeight == 0 {
		o.MaxHeight = a.Layout.MaxHeight
	}
}

// ValidateAndSetDefaults applies defaults for the full pipeline and validates
// the result. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.MaxWidth == 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MinWidth == nil {
		o.MinWidth = Float(min(DefaultMinWidth, o.MaxWidth))
	}
	if o.Spacing == nil {
		o.Spacing = Float(DefaultSpacing)
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	c := o.Constraints()
	return errors.ValidateConstraints(c.MaxWidth, c.MinWidth, c.Spacing, c.MaxHeight)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Radius < 0 || math.IsInf(o.Radius, 0) || math.IsNaN(o.Radius) {
		return errors.New(errors.ErrCodeInvalidInput, "radius must be a non-negative number, got %v", o.Radius)
	}
	if o.Scale <= 0 || o.Scale > 8 || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 8], got %v", o.Scale)
	}
	return nil
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// logger returns the configured logger or a discard logger.
func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return discardLogger()
	}
	return o.Logger
}

// Constraints returns the layout constraints described by the options.
func (o *Options) Constraints() grouped.Constraints {
	return grouped.Constraints{
		MaxWidth:  o.MaxWidth,
		MinWidth:  value(o.MinWidth),
		Spacing:   value(o.Spacing),
		MaxHeight: o.MaxHeight,
	}
}

// Float returns a pointer to v, for the optional MinWidth and Spacing fields.
func Float(v float64) *float64 { return &v }

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// HasFormat reports whether format is among the requested formats.
func (o *Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	c := o.Constraints()
	return cache.LayoutKeyOpts{
		MaxWidth:  c.MaxWidth,
		MinWidth:  c.MinWidth,
		Spacing:   c.Spacing,
		MaxHeight: c.MaxHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// sources is the hash of the item paths, or empty when no paths are known.
func (o *Options) ArtifactKeyOpts(format, sources string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Radius:     o.Radius,
		Background: o.Background,
		Sources:    sources,
	}
	switch format {
	case FormatPNG:
		k.Scale = o.Scale
		k.Images = o.DrawImages
	case FormatSVG:
		k.Images = o.DrawImages
		k.Labels = o.Labels
	case FormatJSON:
		k.Radius, k.Background = 0, ""
	}
	return k
}

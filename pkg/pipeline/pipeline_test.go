package pipeline

import (
	"testing"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.MaxWidth != DefaultMaxWidth {
		t.Errorf("MaxWidth should be %v, got %v", DefaultMaxWidth, opts.MaxWidth)
	}
	if c := opts.Constraints(); c.MinWidth != DefaultMinWidth || c.Spacing != DefaultSpacing {
		t.Errorf("MinWidth, Spacing = %v, %v, want %v, %v", c.MinWidth, c.Spacing, DefaultMinWidth, DefaultSpacing)
	}
	if opts.MaxHeight != 0 {
		t.Errorf("MaxHeight should stay unset, got %v", opts.MaxHeight)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	narrow := Options{MaxWidth: 60}
	narrow.SetLayoutDefaults()
	if got := narrow.Constraints().MinWidth; got != 60 {
		t.Errorf("MinWidth should not exceed MaxWidth, got %v", got)
	}

	zeros := Options{MinWidth: Float(0), Spacing: Float(0)}
	zeros.SetLayoutDefaults()
	if c := zeros.Constraints(); c.MinWidth != 0 || c.Spacing != 0 {
		t.Errorf("explicit zeros should be kept, got %+v", c)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats should be [%s], got %v", DefaultFormat, opts.Formats)
	}
	if opts.Radius != DefaultRadius {
		t.Errorf("Radius should be %v, got %v", DefaultRadius, opts.Radius)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"all formats", Options{Formats: ValidFormats}, false},
		{"bad format", Options{Formats: []string{"gif"}}, true},
		{"negative radius", Options{Radius: -1}, true},
		{"negative scale", Options{Scale: -2}, true},
		{"huge scale", Options{Scale: 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForRender() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForLayout(t *testing.T) {
	opts := Options{MaxWidth: 100, MinWidth: Float(200)}
	if err := opts.ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidConstraints) {
		t.Errorf("min above max should fail with INVALID_CONSTRAINTS, got %v", err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg"}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts.Constraints()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Constraints() != first {
		t.Error("Constraints changed on second call")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats changed: %v", opts.Formats)
	}
}

func TestApplyAlbum(t *testing.T) {
	a := &album.Album{Layout: &album.Layout{MaxWidth: 300, Spacing: Float(8), MaxHeight: 500}}

	opts := Options{Spacing: Float(4)}
	opts.ApplyAlbum(a)
	opts.SetLayoutDefaults()

	want := grouped.Constraints{MaxWidth: 300, MinWidth: DefaultMinWidth, Spacing: 4, MaxHeight: 500}
	if got := opts.Constraints(); got != want {
		t.Errorf("Constraints = %+v, want %+v", got, want)
	}

	// Explicit zeros in the album survive defaults.
	opts = Options{}
	opts.ApplyAlbum(&album.Album{Layout: &album.Layout{MaxWidth: 300, MinWidth: Float(0), Spacing: Float(0)}})
	opts.SetLayoutDefaults()
	if got, want := opts.Constraints(), (grouped.Constraints{MaxWidth: 300}); got != want {
		t.Errorf("Constraints = %+v, want %+v", got, want)
	}

	// Albums without constraints leave options untouched.
	opts = Options{}
	opts.ApplyAlbum(&album.Album{})
	opts.ApplyAlbum(nil)
	if opts.MaxWidth != 0 {
		t.Errorf("MaxWidth = %v, want 0", opts.MaxWidth)
	}
}

func TestHasFormat(t *testing.T) {
	opts := Options{Formats: []string{"json", "png"}}
	if !opts.HasFormat("png") || opts.HasFormat("svg") {
		t.Errorf("HasFormat mismatch for %v", opts.Formats)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Radius: 12, Scale: 2, Background: "#fff", DrawImages: true, Labels: true}

	j := opts.ArtifactKeyOpts(FormatJSON, "src")
	if j.Radius != 0 || j.Background != "" || j.Scale != 0 || j.Images {
		t.Errorf("JSON key should ignore visual options: %+v", j)
	}
	if j.Sources != "src" {
		t.Errorf("JSON key should include sources: %+v", j)
	}

	s := opts.ArtifactKeyOpts(FormatSVG, "")
	if s.Scale != 0 || !s.Images || !s.Labels || s.Radius != 12 {
		t.Errorf("SVG key = %+v", s)
	}

	p := opts.ArtifactKeyOpts(FormatPNG, "")
	if p.Scale != 2 || !p.Images || p.Labels {
		t.Errorf("PNG key = %+v", p)
	}
}

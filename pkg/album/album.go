package album

import (
	"path/filepath"
	"slices"

	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
)

// Album is an ordered group of media items.
type Album struct {
	Name  string  `json:"name,omitempty" toml:"name,omitempty" bson:"name,omitempty"`
	Items []Entry `json:"items" toml:"items" bson:"items"`
	// Layout overrides the default constraints when set.
	Layout *Layout `json:"layout,omitempty" toml:"layout,omitempty" bson:"layout,omitempty"`

	// Source is the file the album was read from, if any. Relative item
	// paths are resolved against its directory.
	Source string `json:"-" toml:"-" bson:"-"`
}

// Entry is one media item of an album.
type Entry struct {
	Path   string  `json:"path,omitempty" toml:"path,omitempty" bson:"path,omitempty"`
	Width  float64 `json:"width" toml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" bson:"height"`
}

// Layout holds the constraints an album file may pin. Zero MaxWidth and
// MaxHeight mean unset. MinWidth and Spacing are pointers because zero is a
// meaningful value for both: a nil field is unset, a zero field is kept.
type Layout struct {
	MaxWidth  float64  `json:"max_width,omitempty" toml:"max_width,omitempty" bson:"max_width,omitempty"`
	MinWidth  *float64 `json:"min_width,omitempty" toml:"min_width,omitempty" bson:"min_width,omitempty"`
	Spacing   *float64 `json:"spacing,omitempty" toml:"spacing,omitempty" bson:"spacing,omitempty"`
	MaxHeight float64  `json:"max_height,omitempty" toml:"max_height,omitempty" bson:"max_height,omitempty"`
}

// LayoutOf returns a Layout with every field of c set.
func LayoutOf(c grouped.Constraints) *Layout {
	minWidth, spacing := c.MinWidth, c.Spacing
	return &Layout{
		MaxWidth:  c.MaxWidth,
		MinWidth:  &minWidth,
		Spacing:   &spacing,
		MaxHeight: c.MaxHeight,
	}
}

// FromSizes builds an anonymous album without paths.
func FromSizes(sizes []grouped.Size) *Album {
	a := &Album{Items: make([]Entry, len(sizes))}
	for i, s := range sizes {
		a.Items[i] = Entry{Width: s.W, Height: s.H}
	}
	return a
}

// Clone returns a deep copy of a. A nil album clones to nil.
func (a *Album) Clone() *Album {
	if a == nil {
		return nil
	}
	out := *a
	out.Items = slices.Clone(a.Items)
	if a.Layout != nil {
		l := *a.Layout
		if l.MinWidth != nil {
			v := *l.MinWidth
			l.MinWidth = &v
		}
		if l.Spacing != nil {
			v := *l.Spacing
			l.Spacing = &v
		}
		out.Layout = &l
	}
	return &out
}

// Sizes returns the natural sizes of the items in album order.
func (a *Album) Sizes() []grouped.Size {
	sizes := make([]grouped.Size, len(a.Items))
	for i, e := range a.Items {
		sizes[i] = grouped.Size{W: e.Width, H: e.Height}
	}
	return sizes
}

// Constraints returns the album's own constraints, or def when it has none.
// Unset fields fall back to def field by field.
func (a *Album) Constraints(def grouped.Constraints) grouped.Constraints {
	if a.Layout == nil {
		return def
	}
	l := a.Layout
	c := def
	if l.MaxWidth != 0 {
		c.MaxWidth = l.MaxWidth
	}
	if l.MinWidth != nil {
		c.MinWidth = *l.MinWidth
	}
	if l.Spacing != nil {
		c.Spacing = *l.Spacing
	}
	if l.MaxHeight != 0 {
		c.MaxHeight = l.MaxHeight
	}
	return c
}

// Validate checks that the album can be laid out.
func (a *Album) Validate() error {
	if err := errors.ValidateGroupSize(len(a.Items)); err != nil {
		return err
	}
	for i, e := range a.Items {
		if err := errors.ValidateSize(e.Width, e.Height); err != nil {
			if e.Path != "" {
				return errors.Wrap(errors.ErrCodeInvalidSize, err, "item %d (%s)", i, e.Path)
			}
			return errors.Wrap(errors.ErrCodeInvalidSize, err, "item %d", i)
		}
	}
	if l := a.Layout; l != nil {
		minWidth := deref(l.MinWidth)
		maxWidth := l.MaxWidth
		if maxWidth == 0 {
			// Unset; the effective max width is checked once defaults apply.
			maxWidth = minWidth
		}
		if err := errors.ValidateConstraints(maxWidth, minWidth, deref(l.Spacing), l.MaxHeight); err != nil {
			return err
		}
	}
	return nil
}

// BaseDir returns the directory of the album file, or "" for albums that
// were not read from disk.
func (a *Album) BaseDir() string {
	if a.Source == "" {
		return ""
	}
	return filepath.Dir(a.Source)
}

// SourcePaths returns the item paths with relative paths resolved against
// base. Items without a path yield an empty string.
func (a *Album) SourcePaths(base string) []string {
	paths := make([]string, len(a.Items))
	for i, e := range a.Items {
		switch {
		case e.Path == "":
		case filepath.IsAbs(e.Path) || base == "":
			paths[i] = e.Path
		default:
			paths[i] = filepath.Join(base, e.Path)
		}
	}
	return paths
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

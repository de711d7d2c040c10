package cache

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// LayoutKey identifies a layout computed from an album's sizes.
	LayoutKey(sizesHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change the computed geometry.
type LayoutKeyOpts struct {
	MaxWidth  float64 `json:"max_width"`
	MinWidth  float64 `json:"min_width"`
	Spacing   float64 `json:"spacing"`
	MaxHeight float64 `json:"max_height"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Radius     float64 `json:"radius"`
	Scale      float64 `json:"scale"`
	Background string  `json:"background"`
	Images     bool    `json:"images"`
	Labels     bool    `json:"labels"`
	// Sources hashes the image paths when Images is set, so that the same
	// geometry drawn from different files does not collide.
	Sources string `json:"sources,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates a keyer without a prefix.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (DefaultKeyer) LayoutKey(sizesHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sizesHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

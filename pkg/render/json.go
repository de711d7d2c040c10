package render

import (
	"encoding/json"

	"github.com/matzehuels/albumgrid/pkg/grouped"
)

type jsonOutput struct {
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Strategy string     `json:"strategy"`
	Rows     []int      `json:"rows,omitempty"`
	Items    []jsonItem `json:"items"`
}

type jsonItem struct {
	Index   int      `json:"index"`
	Path    string   `json:"path,omitempty"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Sides   []string `json:"sides"`
	Corners []string `json:"corners"`
}

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	paths []string
}

// WithJSONPaths records the source path of every item in the output.
func WithJSONPaths(paths []string) JSONOption { return func(r *jsonRenderer) { r.paths = paths } }

// RenderJSON exports the layout as a pretty-printed JSON document. Items
// keep their input order; index is the position in the input.
//
// RenderJSON does not modify res and is safe to call concurrently.
func RenderJSON(res grouped.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:    res.Width,
		Height:   res.Height,
		Strategy: string(res.Strategy),
		Rows:     res.Rows,
		Items:    make([]jsonItem, len(res.Items)),
	}
	for i, it := range res.Items {
		g := it.Geometry
		ji := jsonItem{
			Index:   i,
			X:       g.X,
			Y:       g.Y,
			Width:   g.Width,
			Height:  g.Height,
			Sides:   sideNames(it.Sides),
			Corners: Corners(it.Sides).Names(),
		}
		if i < len(r.paths) {
			ji.Path = r.paths[i]
		}
		out.Items[i] = ji
	}
	return json.MarshalIndent(out, "", "  ")
}

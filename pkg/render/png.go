package render

import (
	"bytes"
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/matzehuels/albumgrid/pkg/errors"
	"github.com/matzehuels/albumgrid/pkg/grouped"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	radius     float64
	scale      float64
	background string
	images     []image.Image
}

// WithPNGRadius sets the corner radius of the group outline.
func WithPNGRadius(r float64) PNGOption { return func(p *pngRenderer) { p.radius = r } }

// WithScale sets the PNG scale factor (default 1). A scale of 2 produces a
// bitmap for high density displays.
func WithScale(s float64) PNGOption { return func(p *pngRenderer) { p.scale = s } }

// WithPNGBackground fills the bitmap with a color. The default is
// transparent.
func WithPNGBackground(color string) PNGOption {
	return func(p *pngRenderer) { p.background = color }
}

// WithImages draws one image per item, cropped to cover its tile. Nil
// entries fall back to a placeholder color.
func WithImages(images []image.Image) PNGOption { return func(p *pngRenderer) { p.images = images } }

// RenderPNG rasterizes the layout.
func RenderPNG(res grouped.Result, opts ...PNGOption) ([]byte, error) {
	p := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&p)
	}
	if p.scale <= 0 || math.IsInf(p.scale, 0) || math.IsNaN(p.scale) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", p.scale)
	}

	w := int(math.Ceil(res.Width * p.scale))
	h := int(math.Ceil(res.Height * p.scale))
	if w == 0 || h == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot rasterize an empty layout")
	}

	dc := gg.NewContext(w, h)
	if p.background != "" {
		dc.SetHexColor(p.background)
		dc.Clear()
	}

	for i, it := range res.Items {
		g := scaleRect(it.Geometry, p.scale)
		tileRoundedPath(dc, g, cornerRadii(Corners(it.Sides), p.radius*p.scale, g.Width, g.Height))

		var img image.Image
		if i < len(p.images) {
			img = p.images[i]
		}
		if img == nil {
			dc.SetHexColor(tileColor(i))
			dc.Fill()
			continue
		}

		dc.Clip()
		x, y := int(math.Round(g.X)), int(math.Round(g.Y))
		dc.DrawImage(cover(img, int(math.Round(g.Right()))-x, int(math.Round(g.Bottom()))-y), x, y)
		dc.ResetClip()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scaleRect(r grouped.Rect, s float64) grouped.Rect {
	return grouped.Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}

// tileRoundedPath appends the outline of g to the current path, rounding
// only the corners with a non-zero radius.
func tileRoundedPath(dc *gg.Context, g grouped.Rect, rr radii) {
	x0, y0, x1, y1 := g.X, g.Y, g.Right(), g.Bottom()

	dc.NewSubPath()
	dc.MoveTo(x0+rr.topLeft, y0)
	dc.LineTo(x1-rr.topRight, y0)
	if rr.topRight > 0 {
		dc.DrawArc(x1-rr.topRight, y0+rr.topRight, rr.topRight, gg.Radians(270), gg.Radians(360))
	}
	dc.LineTo(x1, y1-rr.bottomRight)
	if rr.bottomRight > 0 {
		dc.DrawArc(x1-rr.bottomRight, y1-rr.bottomRight, rr.bottomRight, gg.Radians(0), gg.Radians(90))
	}
	dc.LineTo(x0+rr.bottomLeft, y1)
	if rr.bottomLeft > 0 {
		dc.DrawArc(x0+rr.bottomLeft, y1-rr.bottomLeft, rr.bottomLeft, gg.Radians(90), gg.Radians(180))
	}
	dc.LineTo(x0, y0+rr.topLeft)
	if rr.topLeft > 0 {
		dc.DrawArc(x0+rr.topLeft, y0+rr.topLeft, rr.topLeft, gg.Radians(180), gg.Radians(270))
	}
	dc.ClosePath()
}

// cover scales src to fill a w×h box, cropping the overflow evenly on both
// sides.
func cover(src image.Image, w, h int) image.Image {
	w, h = max(w, 1), max(h, 1)
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	crop := b
	if sw*h > sh*w {
		cw := sh * w / h
		crop.Min.X += (sw - cw) / 2
		crop.Max.X = crop.Min.X + cw
	} else {
		ch := sw * h / w
		crop.Min.Y += (sh - ch) / 2
		crop.Max.Y = crop.Min.Y + ch
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

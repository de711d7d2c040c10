// Package render turns computed group layouts into output artifacts.
//
// # Formats
//
//   - JSON ([RenderJSON]): the canonical layout document consumed by
//     clients that draw the grid themselves.
//   - SVG ([RenderSVG]): one rounded tile per item, optionally referencing
//     the source images.
//   - PNG ([RenderPNG]): a raster collage drawn with fogleman/gg, either
//     with placeholder colors or with the actual images cropped to fill
//     their tiles.
//
// # Corner Rounding
//
// A grouped album is drawn as one rounded card. Only tile corners that lie
// on the card's outline are rounded: a corner is rounded when both sides
// meeting at it are outer sides of the group. [Corners] derives that set
// from the side flags computed by the layout engine.
//
//	res, _ := grouped.Compute(sizes, c)
//	svg := render.RenderSVG(res, render.WithRadius(12))
//	png, err := render.RenderPNG(res, render.WithScale(2))
package render

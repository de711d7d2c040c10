// Package grouped computes layouts for grouped media ("albums").
//
// Given the natural sizes of the photos and videos in an album and a set of
// [Constraints], [Layout] arranges them into a balanced grid of tight
// rectangles. Each rectangle carries a [Side] bitmask telling the renderer
// which of its edges lie on the outline of the whole group, which is what
// decides corner rounding.
//
// # Strategies
//
// The engine picks one of several strategies:
//
//   - One item fills the full width.
//   - Two, three or four items with moderate aspect ratios use closed-form
//     arrangements (side by side, stacked, a strip plus a row, a column plus
//     a stack), chosen from the coarse shape of each item.
//   - Five or more items, or any item wider than 2:1, go through a search over
//     row partitions. Each candidate partition is scored by how far its total
//     height is from the target height, with penalties for rows shorter than
//     the minimum width and for rows holding more items than the row below.
//
// Spacing is never part of a rectangle: rectangles are tight and gaps only
// show up in their positions.
//
// # Determinism
//
// Layout is a pure function. Intermediate values are rounded at fixed steps
// so the same input always produces the same pixel-aligned output.
//
//	items, err := grouped.Layout([]grouped.Size{{W: 1280, H: 720}, {W: 720, H: 1280}},
//	    grouped.Constraints{MaxWidth: 420, MinWidth: 100, Spacing: 2})
package grouped

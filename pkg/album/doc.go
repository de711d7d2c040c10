// Package album reads and writes album description files.
//
// # Overview
//
// An album is an ordered list of media items with their natural pixel
// dimensions, plus optional layout constraints. It is the input to every
// albumgrid command: the dimensions feed [grouped.Layout], and the paths are
// used when rendering a collage with the actual images.
//
// # Formats
//
// Albums are stored as JSON or TOML. The format is chosen from the file
// extension by [ReadFile] and [WriteFile]:
//
//	{
//	  "name": "lisbon",
//	  "layout": {"max_width": 420, "min_width": 100, "spacing": 2},
//	  "items": [
//	    {"path": "tram.jpg", "width": 1280, "height": 960},
//	    {"path": "alfama.jpg", "width": 1080, "height": 1350}
//	  ]
//	}
//
// The equivalent TOML:
//
//	name = "lisbon"
//
//	[layout]
//	max_width = 420
//	min_width = 100
//	spacing = 2
//
//	[[items]]
//	path = "tram.jpg"
//	width = 1280
//	height = 960
//
// Unknown keys are rejected in both formats so that typos in hand-written
// files surface instead of being silently ignored.
//
// Relative item paths are resolved against the directory of the album file
// by [Album.SourcePaths].
//
// [grouped.Layout]: github.com/matzehuels/albumgrid/pkg/grouped.Layout
package album

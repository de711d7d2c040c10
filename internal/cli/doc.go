// Package cli implements the albumgrid command-line interface.
//
// This package provides commands for laying out and rendering grouped media,
// creating album files from image directories, serving the HTTP API and
// managing the local cache. The CLI is built using cobra, reads its
// configuration with viper and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Compute the tile geometry of an album
//   - render: Generate SVG, PNG or JSON output
//   - probe: Create an album file from a directory of images
//   - batch: Render many albums concurrently
//   - serve: Run the HTTP layout API
//   - preview: Explore a layout interactively in the terminal
//   - cache, config: Inspect and manage local state
//
// # Configuration
//
// Settings are read from ~/.config/albumgrid/config.toml (or --config) and
// may be overridden by ALBUMGRID_* environment variables, e.g.
// ALBUMGRID_CACHE_BACKEND=redis. Command flags win over album files, which
// win over the configuration.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/albumgrid/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

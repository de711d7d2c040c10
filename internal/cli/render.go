package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

// renderCommand creates the render command (album → artifacts in one step).
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [album]",
		Short: "Render an album to SVG, PNG or JSON",
		Long: `Render an album to SVG, PNG or JSON.

The render command lays out the album and writes one file per format next to
the album (or under the --output base path). With --images, PNG output draws
the source images into their tiles and SVG output links them.

Results are cached locally for faster subsequent runs.`,
		Example: `  albumgrid render trip.toml -f svg,png
  albumgrid render trip.toml -f png --images --scale 2 -o out/trip
  albumgrid render trip.json -f svg -o - > trip.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runRender(cmd, args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path, or - for stdout with a single format")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")

	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formatsStr)

	return cmd
}

// runRender runs the full pipeline for one album and writes the artifacts.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()

	a, err := album.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load album %s: %w", input, err)
	}
	opts, err = c.resolveOptions(cmd, a, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", a.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, a, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return contextErr(ctx, fmt.Errorf("render: %w", err))
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	if output == stdoutPath {
		return nil
	}

	printSuccess("Rendered %s", a.Name)
	for _, p := range paths {
		printFile(p)
	}
	printStats(layoutStats{
		items:    result.Stats.Items,
		strategy: string(result.Stats.Strategy),
		width:    result.Layout.Width,
		height:   result.Layout.Height,
		cached:   result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
	return nil
}

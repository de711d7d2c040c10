package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
	"github.com/matzehuels/albumgrid/pkg/render"
)

// layoutCommand creates the layout command for computing tile geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [album]",
		Short: "Compute the tile layout of an album",
		Long: `Compute the tile layout of an album.

The layout command reads an album file (JSON or TOML, see 'probe') and writes
the computed geometry as <album>.layout.json: the group bounds, the chosen
strategy and, per item, its rectangle, outer sides and rounded corners.

Constraint flags override the album's own [layout] section, which overrides
the config file.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Refresh = refresh
			return c.runLayout(cmd, args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout (default: <album>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the album, computes the layout, and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d items...", len(a.Items)))
	spinner.Start()

	res, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, a.Sizes(), opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := render.RenderJSON(res, render.WithJSONPaths(a.SourcePaths(a.BaseDir())))
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := writeFile(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == stdoutPath {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(layoutStats{items: len(res.Items), strategy: string(res.Strategy), width: res.Width, height: res.Height, cached: cacheHit})
	printNewline()
	printNextStep("Render", "albumgrid render "+quoteArg(input)+" -f svg,png")

	return nil
}

// quoteArg quotes a path for display in a suggested command.
func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// contextErr reports cancellation in preference to a downstream error.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

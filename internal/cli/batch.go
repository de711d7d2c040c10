package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

// batchCommand creates the batch command that renders many albums
// concurrently.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		formatsStr string
		outDir     string
		workers    int
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "batch [album...]",
		Short: "Render many albums concurrently",
		Long: `Render many albums concurrently.

Each album is laid out and rendered independently; a failing album is
reported and does not stop the others. Artifacts are written next to each
album, or into --out-dir.

The command exits with an error if any album failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runBatch(cmd, args, opts, outDir, workers, noCache)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "", "directory for artifacts (default: next to each album)")
	cmd.Flags().IntVarP(&workers, "jobs", "j", 0, "albums processed in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formatsStr)

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, inputs []string, opts pipeline.Options, outDir string, workers int, noCache bool) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	// Album constraints must keep precedence over the config file, so the
	// config fills each album's own constraints rather than the shared options.
	defaults := c.config.Constraints()
	var albums []*album.Album
	failed := 0
	for _, in := range inputs {
		a, err := album.ReadFile(in)
		if err != nil {
			printError("%s: %v", in, err)
			failed++
			continue
		}
		merged := a.Constraints(defaults)
		if a.Layout == nil || a.Layout.MinWidth == nil {
			merged.MinWidth = min(merged.MinWidth, merged.MaxWidth)
		}
		a.Layout = album.LayoutOf(merged)
		albums = append(albums, a)
	}

	if err := applyLayoutFlags(cmd, &opts); err != nil {
		return err
	}
	c.config.applyRender(&opts)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d albums...", len(albums)))
	spinner.Start()
	results, err := runner.Batch(ctx, albums, opts, workers)
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			printError("%s: %v", r.Album.Source, r.Err)
			failed++
			continue
		}
		output := ""
		if outDir != "" {
			output = filepath.Join(outDir, filepath.Base(basePath("", r.Album.Source)))
		}
		paths, err := writeArtifacts(artifactWriteParams{
			artifacts: r.Result.Artifacts,
			formats:   opts.Formats,
			input:     r.Album.Source,
			output:    output,
		})
		if err != nil {
			printError("%s: %v", r.Album.Source, err)
			failed++
			continue
		}
		printSuccess("%s %s", r.Album.Name, StyleDim.Render(string(r.Result.Stats.Strategy)))
		for _, p := range paths {
			printFile(p)
		}
	}

	total := len(inputs)
	prog.done(fmt.Sprintf("Processed %d albums", total))
	if failed > 0 {
		return fmt.Errorf("%d of %d albums failed", failed, total)
	}
	return nil
}

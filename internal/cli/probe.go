package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/media"
)

// probeCommand creates the probe command that turns a directory of images
// into an album file.
func (c *CLI) probeCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "probe [dir]",
		Short: "Create an album file from a directory of images",
		Long: `Create an album file from a directory of images.

The probe command reads the dimensions of every supported image in the
directory (jpeg, png, gif, webp, bmp, tiff), sorted by file name, and writes
an album file. The format follows the output extension (.toml or .json).

Item paths are written relative to the album file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runProbe(cmd, args[0], output, name)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "album file (default: <dir>/album.toml)")
	cmd.Flags().StringVar(&name, "name", "", "album name (default: directory name)")

	return cmd
}

func (c *CLI) runProbe(cmd *cobra.Command, dir, output, name string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	entries, err := media.ProbeDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("probe %s: %w", dir, err)
	}
	if len(entries) == 0 {
		printWarning("No supported images in %s", dir)
		return nil
	}
	prog.done(fmt.Sprintf("Probed %d images", len(entries)))

	if output == "" {
		output = filepath.Join(dir, "album.toml")
	}
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			abs = dir
		}
		name = filepath.Base(abs)
	}

	a := &album.Album{Name: name, Items: relativeTo(entries, dir, filepath.Dir(output))}
	if err := a.Validate(); err != nil {
		printWarning("%v", err)
	}
	if err := album.WriteFile(a, output); err != nil {
		return fmt.Errorf("write album %s: %w", output, err)
	}

	printSuccess("Album %s", name)
	printFile(output)
	printDetail("%d items", len(entries))
	printNewline()
	printNextStep("Render", "albumgrid render "+quoteArg(output)+" -f png --images")
	return nil
}

// relativeTo rewrites entry paths, which are relative to dir, to be relative
// to base where possible.
func relativeTo(entries []album.Entry, dir, base string) []album.Entry {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return entries
	}
	out := make([]album.Entry, len(entries))
	for i, e := range entries {
		out[i] = e
		abs, err := filepath.Abs(filepath.Join(dir, e.Path))
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(absBase, abs); err == nil {
			out[i].Path = filepath.ToSlash(rel)
		}
	}
	return out
}

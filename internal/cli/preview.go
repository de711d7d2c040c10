package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/pipeline"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "preview [album]",
		Short: "Explore an album layout interactively in the terminal",
		Long: `Explore an album layout interactively in the terminal.

The preview draws the tiles as colored blocks and recomputes the layout as
you change the constraints. On exit, the flags reproducing the final layout
are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args[0], opts)
		},
	}

	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, input string, opts pipeline.Options) error {
	a, err := album.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load album %s: %w", input, err)
	}
	opts, err = c.resolveOptions(cmd, a, opts)
	if err != nil {
		return err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	m := NewPreviewModel(a, opts.Constraints())
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return err
	}

	pm, ok := final.(PreviewModel)
	if !ok || !pm.Changed() {
		return nil
	}
	fc := pm.Constraints
	printNextStep("Render with", fmt.Sprintf("albumgrid render %s --max-width %s --min-width %s --spacing %s",
		quoteArg(input),
		strconv.FormatFloat(fc.MaxWidth, 'f', -1, 64),
		strconv.FormatFloat(fc.MinWidth, 'f', -1, 64),
		strconv.FormatFloat(fc.Spacing, 'f', -1, 64)))
	return nil
}

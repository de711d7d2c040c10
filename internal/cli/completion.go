package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

func shellNames() []string {
	names := make([]string, 0, len(completionShells))
	for name := range completionShells {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// completionCommand prints a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	shells := shellNames()
	return &cobra.Command{
		Use:   fmt.Sprintf("completion [%s]", strings.Join(shells, "|")),
		Short: "Print a shell completion script",
		Long: `Print a completion script for albumgrid subcommands and flags.

  bash:        source <(albumgrid completion bash)
  zsh:         albumgrid completion zsh > "${fpath[1]}/_albumgrid"
  fish:        albumgrid completion fish > ~/.config/fish/completions/albumgrid.fish
  powershell:  albumgrid completion powershell | Out-String | Invoke-Expression

Start a new shell afterwards for the completions to load.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

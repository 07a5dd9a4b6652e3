package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script for the given shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for tapegraph to stdout.

  bash:        source <(tapegraph completion bash)
  zsh:         tapegraph completion zsh > "${fpath[1]}/_tapegraph"
  fish:        tapegraph completion fish > ~/.config/fish/completions/tapegraph.fish
  powershell:  tapegraph completion powershell | Out-String | Invoke-Expression

Machine and graph file arguments complete to file names.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}

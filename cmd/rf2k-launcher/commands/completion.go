package commands

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for rf2k-launcher.

To load completions:

Bash:
  $ rf2k-launcher completion bash > /etc/bash_completion.d/rf2k-launcher

Zsh:
  $ rf2k-launcher completion zsh > "${fpath[1]}/_rf2k-launcher"

Fish:
  $ rf2k-launcher completion fish > ~/.config/fish/completions/rf2k-launcher.fish

PowerShell:
  PS> rf2k-launcher completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> rf2k-launcher completion powershell > rf2k-launcher.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(out)
		case "zsh":
			return cmd.Root().GenZshCompletion(out)
		case "fish":
			return cmd.Root().GenFishCompletion(out, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tilescramble.

To load completions:

Bash:
  $ source <(tilescramble completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tilescramble completion bash > /etc/bash_completion.d/tilescramble
  # macOS:
  $ tilescramble completion bash > $(brew --prefix)/etc/bash_completion.d/tilescramble

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tilescramble completion zsh > "${fpath[1]}/_tilescramble"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tilescramble completion fish | source

  # To load completions for each session, execute once:
  $ tilescramble completion fish > ~/.config/fish/completions/tilescramble.fish

PowerShell:
  PS> tilescramble completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tilescramble completion powershell > tilescramble.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

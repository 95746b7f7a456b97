package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/techflow/pkg/render"
	"github.com/matzehuels/techflow/pkg/tech"
)

// completionCommand prints a shell completion script. Besides commands and
// flags, the scripts complete technology IDs for render, render formats and
// sheet modes.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for your shell.

Technology IDs are completed from the configured sheet, so completing them
may download it once; later completions use the cache.

  bash        source <(techflow completion bash)
  zsh         techflow completion zsh > "${fpath[1]}/_techflow"
  fish        techflow completion fish > ~/.config/fish/completions/techflow.fish
  powershell  techflow completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// registerCompletions wires the dynamic completions into root.
func (c *CLI) registerCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("mode", fixedCompletion(string(tech.FormSingle), string(tech.FormAggregated)))

	for _, cmd := range root.Commands() {
		if cmd.Name() != "render" {
			continue
		}
		cmd.ValidArgsFunction = c.completeTechnologyIDs
		formats := make([]string, len(render.Formats))
		for i, f := range render.Formats {
			formats[i] = string(f)
		}
		_ = cmd.RegisterFlagCompletionFunc("format", listCompletion(formats...))
	}
}

// completeTechnologyIDs lists the sheet's technologies starting with
// toComplete. Completion skips the persistent pre-run hook, so the config is
// loaded here.
func (c *CLI) completeTechnologyIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if err := c.loadConfig(cmd, args); err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	runner, err := c.newRunner(cmd.Context(), false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer runner.Close()

	ids, err := runner.IDs("")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return matchPrefix(ids, toComplete, args), cobra.ShellCompDirectiveNoFileComp
}

func fixedCompletion(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return matchPrefix(values, toComplete, nil), cobra.ShellCompDirectiveNoFileComp
	}
}

// listCompletion completes the last entry of a comma-separated list.
func listCompletion(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var head string
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			head, toComplete = toComplete[:i+1], toComplete[i+1:]
		}
		chosen := strings.Split(head, ",")
		var out []string
		for _, v := range matchPrefix(values, toComplete, chosen) {
			out = append(out, head+v)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// matchPrefix returns the values starting with prefix, ignoring case, and
// leaves out the ones already given.
func matchPrefix(values []string, prefix string, given []string) []string {
	seen := make(map[string]bool, len(given))
	for _, g := range given {
		seen[g] = true
	}
	prefix = strings.ToLower(prefix)
	var out []string
	for _, v := range values {
		if !seen[v] && strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}
	return out
}

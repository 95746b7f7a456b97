package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/techflow/pkg/pipeline"
	"github.com/matzehuels/techflow/pkg/tech"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var keyword string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List technologies matching a keyword",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			defer runner.Close()

			ids, err := runner.IDs(keyword)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				say(statusWarn, "No technologies match %q", keyword)
				return nil
			}

			fmt.Fprintln(stdout, technologyTable(runner, ids))
			detail("%d technologies", len(ids))
			nextStep("Render one", appName+" render "+ids[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "case-insensitive filter")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "download the sheet again")

	return cmd
}

// technologyTable renders ids as a lipgloss table. Single-row sheets add the
// type specification and main carriers of each technology.
func technologyTable(runner *pipeline.Runner, ids []string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col == 0 {
				return cellStyle.Foreground(colorProcess)
			}
			return cellStyle.Foreground(colorMuted)
		})

	if runner.Form() != tech.FormSingle {
		t.Headers("Technology")
		for _, id := range ids {
			t.Row(id)
		}
		return t.Render()
	}

	t.Headers("Technology", "Type", "Main input", "Main output")
	for _, id := range ids {
		tc, ok := runner.Technology(id)
		if !ok {
			t.Row(id, "", "", "")
			continue
		}
		t.Row(id, tc.TypeSpec(), tc.MainInput, tc.MainOutput)
	}
	return t.Render()
}

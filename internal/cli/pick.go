package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorProcess)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorCarrier)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	queryStyle        = lipgloss.NewStyle().Foreground(colorProcess)
)

// pickCommand creates the interactive picker command.
func (c *CLI) pickCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a technology interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			popts, err := c.pipelineOptions()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			filter := func(q string) []string {
				ids, _ := runner.IDs(q)
				return ids
			}
			final, err := tea.NewProgram(NewPickModel(filter), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			m := final.(PickModel)
			if m.Selected == "" {
				say(statusInfo, "Nothing selected")
				return nil
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			res, err := runner.Execute(ctx, m.Selected, popts)
			if err != nil {
				return err
			}
			return writeResult(res, output, fileName(res.ID))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")

	return cmd
}

// =============================================================================
// PickModel - Interactive technology selection
// =============================================================================

// PickModel is the bubbletea model for choosing a technology. Typing edits
// the keyword and the list refilters on every keystroke.
type PickModel struct {
	Query    string
	IDs      []string
	Cursor   int
	Offset   int
	Height   int
	Selected string

	filter func(string) []string
}

// NewPickModel creates a picker over the IDs returned by filter.
func NewPickModel(filter func(string) []string) PickModel {
	return PickModel{
		IDs:    filter(""),
		Height: 15,
		filter: filter,
	}
}

func (m PickModel) Init() tea.Cmd {
	return nil
}

func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.IDs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.IDs) == 0 {
				return m, nil
			}
			m.Selected = m.IDs[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Query != "" {
				r := []rune(m.Query)
				m = m.refilter(string(r[:len(r)-1]))
			}
		case tea.KeyRunes, tea.KeySpace:
			m = m.refilter(m.Query + string(msg.Runes))
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m PickModel) refilter(q string) PickModel {
	m.Query = q
	m.IDs = m.filter(q)
	m.Cursor, m.Offset = 0, 0
	return m
}

func (m PickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Technology"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ render  esc quit"))
	b.WriteString("\n\n")
	b.WriteString("  " + listDimStyle.Render("keyword: ") + queryStyle.Render(m.Query) + listDimStyle.Render("▏"))
	b.WriteString("\n\n")

	if len(m.IDs) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.IDs))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.IDs[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.IDs[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.IDs))))

	return b.String()
}

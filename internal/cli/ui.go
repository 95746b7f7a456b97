package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/techflow/pkg/diagram"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/pipeline"
)

// stdout receives all user-facing output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

// The palette follows the diagrams: light blue for processes, grey for
// carriers.
var (
	colorProcess = lipgloss.Color("117")
	colorCarrier = lipgloss.Color("250")
	colorMuted   = lipgloss.Color("242")
	colorFaint   = lipgloss.Color("238")
	colorOK      = lipgloss.Color("114")
	colorWarn    = lipgloss.Color("221")
	colorFail    = lipgloss.Color("203")
	colorLink    = lipgloss.Color("75")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorProcess)
	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	styleProcess = lipgloss.NewStyle().Foreground(colorProcess)
	styleCarrier = lipgloss.NewStyle().Foreground(colorCarrier)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
)

// =============================================================================
// Status Lines
// =============================================================================

type status int

const (
	statusOK status = iota
	statusFail
	statusWarn
	statusInfo
)

var statusMarks = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusOK:   {"✓", lipgloss.NewStyle().Foreground(colorOK)},
	statusFail: {"✗", lipgloss.NewStyle().Foreground(colorFail)},
	statusWarn: {"!", lipgloss.NewStyle().Foreground(colorWarn)},
	statusInfo: {"›", lipgloss.NewStyle().Foreground(colorMuted)},
}

// statusLine formats one message with the icon of st.
func statusLine(st status, format string, args ...any) string {
	m := statusMarks[st]
	msg := fmt.Sprintf(format, args...)
	if st == statusWarn {
		msg = m.style.Render(msg)
	}
	return m.style.Render(m.icon) + " " + msg
}

func say(st status, format string, args ...any) {
	fmt.Fprintln(stdout, statusLine(st, format, args...))
}

// detail prints an indented secondary line.
func detail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// keyValue prints an aligned "key value" line.
func keyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+value)
}

// nextStep suggests a follow-up command.
func nextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Render Results
// =============================================================================

// printResult prints the heading, graph summary and diagnostics of one
// rendered technology.
func printResult(res *pipeline.Result) {
	head := styleProcess.Render(res.ID)
	if spec, ok := res.Graph.Meta()[diagram.MetaTypeSpec].(string); ok && strings.Trim(spec, "-") != "" {
		head += " " + StyleDim.Render(spec)
	}
	say(statusOK, "%s", head)
	fmt.Fprintln(stdout, "  "+resultSummary(res))
	for _, d := range res.Diagnostics() {
		fmt.Fprintln(stdout, "  "+diagnosticLine(d))
	}
}

// resultSummary reads like "3 carriers · 1 process · 3 edges · rendered 12ms".
func resultSummary(res *pipeline.Result) string {
	var processes, carriers int
	for _, n := range res.Graph.Nodes() {
		if n.Kind == flow.NodeKindProcess {
			processes++
		} else {
			carriers++
		}
	}

	parts := []string{
		styleCarrier.Render(plural(carriers, "carrier")),
		styleProcess.Render(plural(processes, "process")),
		plural(res.Stats.EdgeCount, "edge"),
	}
	if res.RenderHit {
		parts = append(parts, statusMarks[statusOK].style.Render("cached"))
	} else {
		parts = append(parts, "rendered "+res.Stats.RenderTime.Round(time.Millisecond).String())
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func diagnosticLine(d flow.Diagnostic) string {
	return statusMarks[statusWarn].style.Render(string(d.Kind)) + " " + StyleDim.Render(d.Message)
}

// printArtifact prints a written file with its size.
func printArtifact(path string, size int) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+path+" "+StyleDim.Render(humanBytes(size)))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	switch {
	case strings.HasSuffix(noun, "s"):
		return fmt.Sprintf("%d %ses", n, noun)
	case strings.HasSuffix(noun, "y"):
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func humanBytes(n int) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}

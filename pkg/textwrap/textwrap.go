// Package textwrap breaks long identifiers into short lines for node labels.
//
// Technology identifiers are usually snake_case strings such as
// "HP_air_water_residential_small". Graphviz draws them on a single line
// unless told otherwise, which makes process boxes very wide. [Wrap] inserts
// line breaks, preferring underscore boundaries over hard cuts:
//
//	textwrap.Wrap("HP_air_water_residential_small", 20)
//	// "HP_air_water_\nresidential_small"
//
// The underscore at a break stays at the end of its line and doubles as a
// continuation marker. [Lines] returns the lines themselves and [Unwrap]
// joins them back into the original text.
package textwrap

import "strings"

// DefaultWidth is the line width used for process node labels.
const DefaultWidth = 20

// Wrap inserts line breaks into s so that no line is longer than width runes.
// It joins [Lines] with newlines; a newline already in s ends its line
// without another being added.
func Wrap(s string, width int) string {
	lines := Lines(s, width)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 && !strings.HasSuffix(lines[i-1], "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

// Lines splits s into the lines [Wrap] draws. Concatenating them gives s
// back, so a line ending at a newline of s keeps that newline.
//
// While the remaining text is longer than width, Lines looks for the last
// underscore among its first width runes. If there is one, the line ends
// with that underscore. Otherwise the line is cut at exactly width runes.
// Widths below 1 are treated as 1.
func Lines(s string, width int) []string {
	width = max(width, 1)
	var out []string
	for _, para := range strings.SplitAfter(s, "\n") {
		rest := []rune(strings.TrimSuffix(para, "\n"))
		for len(rest) > width {
			cut := width
			if i := lastUnderscore(rest[:width]); i >= 0 {
				cut = i + 1
			}
			out = append(out, string(rest[:cut]))
			rest = rest[cut:]
		}
		if strings.HasSuffix(para, "\n") {
			out = append(out, string(rest)+"\n")
		} else if len(rest) > 0 || len(out) == 0 {
			out = append(out, string(rest))
		}
	}
	return out
}

// Unwrap joins lines from [Lines] back into the original text.
func Unwrap(lines []string) string {
	return strings.Join(lines, "")
}

func lastUnderscore(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == '_' {
			return i
		}
	}
	return -1
}

package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines so panes line up when joined.
func normalizePane(s string, width, height int) string {
	width, height = max(width, 0), max(height, 0)
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitWidth truncates or pads one line to width columns.
func fitWidth(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(ln) > width {
		ln = xansi.Truncate(ln, width, glyphEllipsis())
	}
	if w := xansi.StringWidth(ln); w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

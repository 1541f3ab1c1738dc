package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type rendererKey struct {
	dark  bool
	width int
}

// glamour.WithAutoStyle queries the terminal, which stalls inside a running
// program, so the style follows lipgloss' background detection instead.
var markdownRenderers sync.Map // rendererKey -> *glamour.TermRenderer

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	k := rendererKey{dark: lipgloss.HasDarkBackground(), width: width}
	if r, ok := markdownRenderers.Load(k); ok {
		return r.(*glamour.TermRenderer), nil
	}
	style := "light"
	if k.dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	actual, _ := markdownRenderers.LoadOrStore(k, r)
	return actual.(*glamour.TermRenderer), nil
}

// renderMarkdown renders md for the help popup. On failure the source text
// is shown as is.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := markdownRenderer(max(width, 10))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

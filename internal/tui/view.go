package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"fern-cli/internal/filetree"
)

func (m appModel) View() string {
	treeH, logH := m.layout()

	parts := []string{m.viewHeader(), normalizePane(m.viewTree(treeH), m.width, treeH)}
	if logH > 0 {
		title := stylePaneTitle().Render("Log") + " " + styleMuted().Render(strings.Repeat(glyphHRule(), max(m.width-4, 0)))
		parts = append(parts, fitWidth(title, m.width), normalizePane(m.logView.View(), m.width, logH))
	}
	parts = append(parts, m.viewStatus())
	base := strings.Join(parts, "\n")

	if m.modal == modalNone {
		return base
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewModal())
}

func (m appModel) viewHeader() string {
	head := stylePaneTitle().Render(m.tree.RootPath())
	info := fmt.Sprintf("%d entries", m.tree.Tree().Count())
	if m.tree.Tree().Filtered() {
		info += ", filtered (esc to clear)"
	}
	return fitWidth(head+"  "+styleMuted().Render(info), m.width)
}

func (m appModel) viewTree(height int) string {
	rows := m.tree.Rows()
	if len(rows) == 0 {
		if m.tree.Tree().Filtered() {
			return styleMuted().Render("  (no matches)")
		}
		return styleMuted().Render("  (empty)")
	}
	end := min(m.offset+height, len(rows))
	lines := make([]string, 0, end-m.offset)
	for _, r := range rows[m.offset:end] {
		lines = append(lines, m.renderRow(r))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderRow(r filetree.Row) string {
	var twisty string
	switch {
	case !r.Dir:
		twisty = glyphFile()
	case !r.HasChildren:
		twisty = glyphEmptyDir()
	case r.Expanded:
		twisty = glyphTwistyExpanded()
	default:
		twisty = glyphTwistyCollapsed()
	}
	label := r.Label
	if r.Dir {
		label += "/"
	}
	mark := ""
	if m.marked[r.Path] {
		mark = " " + glyphMark()
	}
	line := strings.Repeat("  ", r.Depth) + twisty + " " + label

	if r.Selected && m.tree.Focused() {
		return styleSelected().Render(fitWidth(line+mark, m.width))
	}
	if r.Dir {
		line = strings.Repeat("  ", r.Depth) + twisty + " " + styleDir().Render(label)
	}
	if mark != "" {
		line += styleMark().Render(mark)
	}
	if r.Selected {
		line = lipgloss.NewStyle().Underline(true).Render(line)
	}
	return line
}

func (m appModel) viewStatus() string {
	if m.minibufferText != "" {
		st := lipgloss.NewStyle()
		if m.minibufferErr {
			st = styleError()
		}
		return fitWidth(st.Render(m.minibufferText), m.width)
	}
	hint := "? help  / search  a new  d delete  q quit"
	if it, ok := m.tree.Current(); ok {
		hint = m.rel(it.Path()) + "  " + styleMuted().Render(hint)
	}
	return fitWidth(hint, m.width)
}

func (m appModel) viewModal() string {
	switch m.modal {
	case modalConfirmDelete:
		body := fmt.Sprintf("Delete %s?", m.rel(m.inputTarget))
		if it, ok := m.tree.Tree().Lookup(m.inputTarget); ok && it.Kind() == filetree.KindDir {
			body += "\n" + styleError().Render("The directory and everything in it will be removed.")
		}
		return renderConfirmModal(m.width, "Delete", body, "Delete", "Cancel", m.confirmFocus)

	case modalMarks:
		lines := make([]string, 0, len(m.markList)+2)
		for i, mk := range m.markList {
			ln := glyphMark() + " " + m.rel(mk.Path)
			ln = xansi.Truncate(ln, modalBodyWidth(m.width), glyphEllipsis())
			if i == m.markIdx {
				ln = styleSelected().Render(ln)
			}
			lines = append(lines, ln)
		}
		lines = append(lines, "", styleMuted().Render("enter: go to   d: remove   esc: close"))
		return renderModalBox(m.width, "Marks", strings.Join(lines, "\n"))

	case modalHelp:
		return renderModalBox(m.width, "Help", m.help.View()+"\n"+styleMuted().Render("esc: close   j/k: scroll"))

	default:
		body := m.input.View() + "\n\n" + styleMuted().Render("enter: ok   esc: cancel")
		return renderModalBox(m.width, capitalize(m.modal.String()), body)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func modalBodyWidth(width int) int {
	w := width - 10
	return max(20, min(w, 64))
}

// renderModalBox draws a bordered popup with a title line.
func renderModalBox(width int, title, body string) string {
	bodyW := modalBodyWidth(width)
	head := stylePaneTitle().Render(xansi.Truncate(title, bodyW, glyphEllipsis()))
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), bodyW))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Width(bodyW + 2).
		Render(head + "\n" + rule + "\n" + body)
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No borders on buttons: nested borders inside a popup render poorly on
	// some terminals.
	btn := lipgloss.NewStyle().Padding(0, 1).Background(colorControlBg)
	active := btn.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	confirm, cancel := btn.Render(confirmLabel), btn.Render(cancelLabel)
	switch focus {
	case confirmFocusConfirm:
		confirm = active.Render(confirmLabel)
	case confirmFocusCancel:
		cancel = active.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Render("tab: focus   enter: select   y/n   esc: cancel")

	return renderModalBox(width, title, strings.Join([]string{body, "", controls, "", help}, "\n"))
}

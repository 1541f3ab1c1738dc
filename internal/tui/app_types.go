package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewFile
	modalNewDir
	modalRename
	modalMove
	modalGoto
	modalSearch
	modalConfirmDelete
	modalMarks
	modalHelp
)

func (k modalKind) String() string {
	switch k {
	case modalNone:
		return "none"
	case modalNewFile:
		return "new file"
	case modalNewDir:
		return "new directory"
	case modalRename:
		return "rename"
	case modalMove:
		return "move"
	case modalGoto:
		return "go to"
	case modalSearch:
		return "search"
	case modalConfirmDelete:
		return "delete"
	case modalMarks:
		return "marks"
	case modalHelp:
		return "help"
	default:
		return "unknown"
	}
}

// isInput reports whether the modal is a single-line input box.
func (k modalKind) isInput() bool {
	switch k {
	case modalNewFile, modalNewDir, modalRename, modalMove, modalGoto, modalSearch:
		return true
	}
	return false
}

type logTickMsg struct{}

const (
	logTickEvery             = 500 * time.Millisecond
	minibufferAutoClearAfter = 4 * time.Second
)

func tickLog() tea.Cmd {
	return tea.Tick(logTickEvery, func(time.Time) tea.Msg { return logTickMsg{} })
}

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fern-cli/internal/docs"
	"fern-cli/internal/filetree"
	"fern-cli/internal/fuzzy"
)

var errNothingSelected = errors.New("nothing selected")

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case logTickMsg:
		m.refreshLog()
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
			m.minibufferErr = false
		}
		cmd = tickLog()

	case externalEditorDoneMsg:
		if msg.err != nil {
			m.showError(fmt.Errorf("editor: %w", msg.err))
		} else {
			m.showMinibuffer("Closed " + m.rel(msg.path))
		}

	case tea.KeyMsg:
		if m.modal != modalNone {
			cmd = m.updateModal(msg)
		} else {
			cmd = m.updateTree(msg)
		}
	}
	m.clampScroll()
	return m, cmd
}

func (m *appModel) updateTree(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Up):
		m.tree.Up()
	case key.Matches(msg, k.Down):
		m.tree.Down()
	case key.Matches(msg, k.First):
		m.tree.First()
	case key.Matches(msg, k.Last):
		m.tree.Last()
	case key.Matches(msg, k.Toggle):
		m.tree.Toggle()
	case key.Matches(msg, k.Expand):
		m.tree.Expand()
	case key.Matches(msg, k.Collapse):
		m.tree.Collapse()

	case key.Matches(msg, k.Open):
		it, ok := m.tree.Current()
		if !ok {
			return nil
		}
		if it.Kind() == filetree.KindDir {
			m.tree.Toggle()
			return nil
		}
		m.log.Info("opening file", zap.String("path", it.Path()))
		return openInEditor(it.Path())

	case key.Matches(msg, k.NewFile):
		dir := m.targetDir()
		return m.openInput(modalNewFile, "New file in "+m.displayDir(dir)+": ", "", dir)
	case key.Matches(msg, k.NewDir):
		dir := m.targetDir()
		return m.openInput(modalNewDir, "New directory in "+m.displayDir(dir)+": ", "", dir)
	case key.Matches(msg, k.Rename):
		it, ok := m.tree.Current()
		if !ok {
			m.showError(errNothingSelected)
			return nil
		}
		return m.openInput(modalRename, "Rename to: ", it.Name(), it.Path())
	case key.Matches(msg, k.Move):
		it, ok := m.tree.Current()
		if !ok {
			m.showError(errNothingSelected)
			return nil
		}
		return m.openInput(modalMove, "Move to: ", m.rel(it.Path()), it.Path())
	case key.Matches(msg, k.Delete):
		it, ok := m.tree.Current()
		if !ok {
			m.showError(errNothingSelected)
			return nil
		}
		m.setModal(modalConfirmDelete)
		m.inputTarget = it.Path()
		m.confirmFocus = confirmFocusCancel

	case key.Matches(msg, k.Goto):
		return m.openInput(modalGoto, "Go to: ", "", "")
	case key.Matches(msg, k.Search):
		return m.openInput(modalSearch, "/", "", "")
	case key.Matches(msg, k.ClearFilter):
		if m.tree.Tree().Filtered() {
			m.apply(filetree.FilterFor{})
		}

	case key.Matches(msg, k.Mark):
		m.toggleMark()
	case key.Matches(msg, k.Marks):
		m.loadMarks()
		if len(m.markList) == 0 {
			m.showMinibuffer("No marks")
			return nil
		}
		m.markIdx = 0
		m.setModal(modalMarks)
	case key.Matches(msg, k.CopyPath):
		it, ok := m.tree.Current()
		if !ok {
			return nil
		}
		if err := copyToClipboard(it.Path()); err != nil {
			m.showError(fmt.Errorf("copy: %w", err))
			return nil
		}
		m.showMinibuffer("Copied " + it.Path())
	case key.Matches(msg, k.ToggleLog):
		m.showLog = !m.showLog && m.ring != nil
		m.resize()
	case key.Matches(msg, k.Help):
		md := m.keys.helpMarkdown()
		if guide, ok := docs.Get("navigation"); ok {
			md += "\n" + guide
		}
		m.help.SetContent(renderMarkdown(md, m.help.Width))
		m.help.GotoTop()
		m.setModal(modalHelp)
	}
	return nil
}

func (m appModel) displayDir(dir string) string {
	if dir == m.tree.RootPath() {
		return "/"
	}
	return m.rel(dir) + "/"
}

func (m *appModel) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.modal.isInput():
		switch msg.String() {
		case "esc", "ctrl+g":
			m.setModal(modalNone)
			return nil
		case "enter":
			kind, value, target := m.modal, m.input.Value(), m.inputTarget
			m.setModal(modalNone)
			if err := m.submitInput(kind, value, target); err != nil {
				m.showError(err)
			}
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd

	case m.modal == modalConfirmDelete:
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
		case "y":
			m.confirmDelete()
		case "n", "esc", "ctrl+g", "q":
			m.setModal(modalNone)
		case "enter":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmDelete()
			} else {
				m.setModal(modalNone)
			}
		}

	case m.modal == modalMarks:
		switch msg.String() {
		case "j", "down":
			m.markIdx = min(m.markIdx+1, len(m.markList)-1)
		case "k", "up":
			m.markIdx = max(m.markIdx-1, 0)
		case "d", "x":
			m.removeMark()
		case "enter":
			path := m.markList[m.markIdx].Path
			m.setModal(modalNone)
			m.apply(filetree.GotoFile{Path: path})
		case "esc", "ctrl+g", "q", "'":
			m.setModal(modalNone)
		}

	case m.modal == modalHelp:
		switch msg.String() {
		case "esc", "ctrl+g", "q", "?":
			m.setModal(modalNone)
			return nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}
	return nil
}

func (m *appModel) submitInput(kind modalKind, value, target string) error {
	value = strings.TrimSpace(value)
	switch kind {
	case modalNewFile:
		if value == "" {
			return nil
		}
		loc, err := m.dirLocation(target)
		if err != nil {
			return err
		}
		path, err := m.exec.NewFileAt(loc, value)
		if err != nil {
			return err
		}
		m.showMinibuffer("Created " + m.rel(path))
		return m.exec.Apply(filetree.GotoFile{Path: path})
	case modalNewDir:
		if value == "" {
			return nil
		}
		loc, err := m.dirLocation(target)
		if err != nil {
			return err
		}
		path, err := m.exec.NewDirAt(loc, value)
		if err != nil {
			return err
		}
		m.showMinibuffer("Created " + m.rel(path) + "/")
		return m.exec.Apply(filetree.GotoFile{Path: path})
	case modalRename:
		if value == "" {
			return nil
		}
		to, err := m.exec.Rename(m.ctx, target, value)
		if err != nil {
			return err
		}
		m.loadMarks()
		m.showMinibuffer("Renamed to " + m.rel(to))
	case modalMove:
		if value == "" {
			return nil
		}
		to, err := m.exec.Move(m.ctx, target, m.resolve(value))
		if err != nil {
			return err
		}
		m.loadMarks()
		m.showMinibuffer("Moved to " + m.rel(to))
	case modalGoto:
		if value == "" {
			return nil
		}
		return m.exec.Apply(filetree.GotoFile{Path: m.resolve(value)})
	case modalSearch:
		return m.search(value)
	}
	return nil
}

// search narrows the tree to the fuzzy matches of query and selects the
// best one. An empty query clears the filter.
func (m *appModel) search(query string) error {
	if query == "" {
		return m.exec.Apply(filetree.FilterFor{})
	}
	paths := m.tree.Tree().Paths()
	rels := make([]string, len(paths))
	for i, p := range paths {
		rels[i] = m.rel(p)
	}
	matches := fuzzy.Find(query, rels, 0)
	if len(matches) == 0 {
		m.showMinibuffer(fmt.Sprintf("No matches for %q", query))
		return nil
	}
	abs := make([]string, len(matches))
	for i, mt := range matches {
		abs[i] = filepath.Join(m.tree.RootPath(), mt.Path)
	}
	if err := m.exec.Apply(filetree.FilterFor{Paths: abs}); err != nil {
		return err
	}
	m.showMinibuffer(fmt.Sprintf("%d matches for %q", len(matches), query))
	return m.exec.Apply(filetree.GotoFile{Path: abs[0]})
}

func (m *appModel) apply(cmd filetree.Command) {
	if err := m.exec.Apply(cmd); err != nil {
		m.showError(err)
	}
}

func (m *appModel) confirmDelete() {
	path := m.inputTarget
	m.setModal(modalNone)
	selected, ok := m.tree.Current()
	var err error
	if ok && selected.Path() == path {
		_, err = m.exec.DeleteSelected(m.ctx)
	} else {
		err = m.exec.Delete(m.ctx, path)
	}
	if err != nil {
		m.showError(err)
		return
	}
	m.loadMarks()
	m.showMinibuffer("Deleted " + m.rel(path))
}

func (m *appModel) toggleMark() {
	it, ok := m.tree.Current()
	if !ok {
		return
	}
	if m.marks == nil {
		m.showError(errors.New("marks are unavailable"))
		return
	}
	on, err := m.marks.Toggle(m.ctx, m.tree.RootPath(), it.Path())
	if err != nil {
		m.showError(err)
		return
	}
	m.loadMarks()
	if on {
		m.log.Info("marked", zap.String("path", it.Path()))
		m.showMinibuffer("Marked " + m.rel(it.Path()))
	} else {
		m.showMinibuffer("Unmarked " + m.rel(it.Path()))
	}
}

func (m *appModel) removeMark() {
	if len(m.markList) == 0 {
		return
	}
	mk := m.markList[m.markIdx]
	if err := m.marks.Remove(m.ctx, mk.Root, mk.Path); err != nil {
		m.showError(err)
		return
	}
	m.loadMarks()
	if len(m.markList) == 0 {
		m.setModal(modalNone)
		return
	}
	m.markIdx = min(m.markIdx, len(m.markList)-1)
}

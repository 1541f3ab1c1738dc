package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fern-cli/internal/config"
	"fern-cli/internal/filetree"
	"fern-cli/internal/fsops"
	"fern-cli/internal/logging"
	"fern-cli/internal/marks"
)

// MarkStore is the subset of the marks database the TUI needs.
type MarkStore interface {
	Toggle(ctx context.Context, root, path string) (bool, error)
	List(ctx context.Context, root string) ([]marks.Mark, error)
	Remove(ctx context.Context, root, path string) error
}

type Options struct {
	Executor *fsops.Executor
	Marks    MarkStore
	Logger   *zap.Logger
	LogRing  *logging.Ring
	Config   config.Config
}

type appModel struct {
	ctx   context.Context
	exec  *fsops.Executor
	tree  *filetree.Filetree
	marks MarkStore
	log   *zap.Logger
	ring  *logging.Ring
	keys  keyMap

	width  int
	height int
	offset int

	modal        modalKind
	input        textinput.Model
	inputTarget  string
	confirmFocus confirmModalFocus
	markList     []marks.Mark
	markIdx      int
	marked       map[string]bool
	help         viewport.Model

	showLog bool
	logView viewport.Model
	logSeq  uint64

	minibufferText  string
	minibufferErr   bool
	minibufferSetAt time.Time
}

func newAppModel(opts Options) (appModel, error) {
	keys := defaultKeyMap()
	if err := keys.applyOverrides(opts.Config.Keys); err != nil {
		return appModel{}, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ti := textinput.New()
	ti.CharLimit = 4096

	m := appModel{
		ctx:     context.Background(),
		exec:    opts.Executor,
		tree:    opts.Executor.Tree(),
		marks:   opts.Marks,
		log:     log,
		ring:    opts.LogRing,
		keys:    keys,
		width:   80,
		height:  24,
		input:   ti,
		marked:  map[string]bool{},
		help:    viewport.New(60, 16),
		showLog: opts.Config.UI.ShowLog && opts.LogRing != nil,
		logView: viewport.New(80, 6),
	}
	m.loadMarks()
	return m, nil
}

func (m appModel) Init() tea.Cmd {
	return tickLog()
}

func (m *appModel) loadMarks() {
	if m.marks == nil {
		return
	}
	list, err := m.marks.List(m.ctx, m.tree.RootPath())
	if err != nil {
		m.log.Warn("load marks", zap.Error(err))
		return
	}
	m.markList = list
	m.marked = make(map[string]bool, len(list))
	for _, mk := range list {
		m.marked[mk.Path] = true
	}
}

// setModal opens (or with modalNone closes) a popup. The tree only has focus
// while no popup is open.
func (m *appModel) setModal(k modalKind) {
	m.modal = k
	m.tree.Focus(k == modalNone)
	if k == modalNone {
		m.input.Blur()
		m.input.SetValue("")
		m.inputTarget = ""
	}
}

func (m *appModel) openInput(k modalKind, prompt, value, target string) tea.Cmd {
	m.setModal(k)
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.inputTarget = target
	return m.input.Focus()
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferErr = false
	m.minibufferSetAt = time.Now()
}

func (m *appModel) showError(err error) {
	m.minibufferText = err.Error()
	m.minibufferErr = true
	m.minibufferSetAt = time.Now()
	m.log.Error("command failed", zap.Error(err))
}

// rel renders path relative to the root for display and input.
func (m appModel) rel(path string) string {
	r, err := filepath.Rel(m.tree.RootPath(), path)
	if err != nil {
		return path
	}
	return r
}

// resolve turns user input into an absolute path; relative input is taken
// from the root.
func (m appModel) resolve(input string) string {
	input = strings.TrimSpace(input)
	if rest, ok := strings.CutPrefix(input, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(input) {
		return filepath.Clean(input)
	}
	return filepath.Join(m.tree.RootPath(), input)
}

// targetDir is where new entries go: the selected directory, the parent of
// the selected file, or the root.
func (m appModel) targetDir() string {
	it, ok := m.tree.Current()
	if !ok {
		return m.tree.RootPath()
	}
	if it.Kind() == filetree.KindDir {
		return it.Path()
	}
	return filepath.Dir(it.Path())
}

// dirLocation re-derives the location of dir, which may have moved since the
// prompt opened. The root is the empty location.
func (m appModel) dirLocation(dir string) (filetree.Location, error) {
	if filepath.Clean(dir) == m.tree.RootPath() {
		return filetree.Location{}, nil
	}
	loc, ok := m.tree.Tree().Locate(dir)
	if !ok {
		return nil, filetree.PathError{Op: "create in", Path: dir, Err: filetree.ErrNotFound}
	}
	return loc, nil
}

func (m *appModel) refreshLog() {
	if m.ring == nil {
		return
	}
	seq := m.ring.Seq()
	if seq == m.logSeq {
		return
	}
	m.logSeq = seq
	m.logView.SetContent(strings.Join(m.ring.Tail(200), "\n"))
	m.logView.GotoBottom()
}

// layout returns the heights of the tree and log panes.
func (m appModel) layout() (treeH, logH int) {
	body := max(m.height-2, 1)
	if !m.showLog {
		return body, 0
	}
	logH = max(body*2/5, 3)
	treeH = max(body-logH-1, 1)
	return treeH, logH
}

func (m *appModel) resize() {
	_, logH := m.layout()
	m.logView.Width = max(m.width, 1)
	m.logView.Height = max(logH, 1)
	m.help.Width = modalBodyWidth(m.width)
	m.help.Height = max(min(m.height-8, 30), 3)
}

// clampScroll keeps the selected row inside the tree pane.
func (m *appModel) clampScroll() {
	treeH, _ := m.layout()
	idx := 0
	for i, r := range m.tree.Rows() {
		if r.Selected {
			idx = i
			break
		}
	}
	if idx < m.offset {
		m.offset = idx
	}
	if idx >= m.offset+treeH {
		m.offset = idx - treeH + 1
	}
	m.offset = max(m.offset, 0)
}

package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	First       key.Binding
	Last        key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	Collapse    key.Binding
	Open        key.Binding
	NewFile     key.Binding
	NewDir      key.Binding
	Rename      key.Binding
	Move        key.Binding
	Delete      key.Binding
	Goto        key.Binding
	Search      key.Binding
	ClearFilter key.Binding
	Mark        key.Binding
	Marks       key.Binding
	CopyPath    key.Binding
	ToggleLog   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		First:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Last:        key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		Toggle:      key.NewBinding(key.WithKeys("tab", " "), key.WithHelp("tab", "toggle directory")),
		Expand:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
		Collapse:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse / parent")),
		Open:        key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "open file in $EDITOR")),
		NewFile:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "new file")),
		NewDir:      key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "new directory")),
		Rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Move:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Goto:        key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to path")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "fuzzy filter")),
		ClearFilter: key.NewBinding(key.WithKeys("esc", "ctrl+l"), key.WithHelp("esc", "clear filter")),
		Mark:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle mark")),
		Marks:       key.NewBinding(key.WithKeys("'"), key.WithHelp("'", "marks")),
		CopyPath:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		ToggleLog:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "toggle log")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindings maps config action names to the bindings they override.
func (k *keyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"up":           &k.Up,
		"down":         &k.Down,
		"first":        &k.First,
		"last":         &k.Last,
		"toggle":       &k.Toggle,
		"expand":       &k.Expand,
		"collapse":     &k.Collapse,
		"open":         &k.Open,
		"new_file":     &k.NewFile,
		"new_dir":      &k.NewDir,
		"rename":       &k.Rename,
		"move":         &k.Move,
		"delete":       &k.Delete,
		"goto":         &k.Goto,
		"search":       &k.Search,
		"clear_filter": &k.ClearFilter,
		"mark":         &k.Mark,
		"marks":        &k.Marks,
		"copy_path":    &k.CopyPath,
		"toggle_log":   &k.ToggleLog,
		"help":         &k.Help,
		"quit":         &k.Quit,
	}
}

// applyOverrides replaces the keys of the named actions. The help text keeps
// its description and shows the first new key.
func (k *keyMap) applyOverrides(overrides map[string][]string) error {
	table := k.bindings()
	actions := make([]string, 0, len(overrides))
	for a := range overrides {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	for _, action := range actions {
		keys := overrides[action]
		b, ok := table[strings.ToLower(strings.TrimSpace(action))]
		if !ok {
			return fmt.Errorf("keys: unknown action %q", action)
		}
		if len(keys) == 0 {
			return fmt.Errorf("keys: %s: no keys given", action)
		}
		desc := b.Help().Desc
		*b = key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
	}
	return nil
}

// helpMarkdown renders the key reference shown by the help popup.
func (k keyMap) helpMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Keys\n\n| Key | Action |\n|---|---|\n")
	order := []key.Binding{
		k.Up, k.Down, k.First, k.Last, k.Toggle, k.Expand, k.Collapse, k.Open,
		k.NewFile, k.NewDir, k.Rename, k.Move, k.Delete,
		k.Goto, k.Search, k.ClearFilter, k.Mark, k.Marks, k.CopyPath,
		k.ToggleLog, k.Help, k.Quit,
	}
	for _, b := range order {
		h := b.Help()
		fmt.Fprintf(&sb, "| `%s` | %s |\n", strings.ReplaceAll(h.Key, "|", "\\|"), h.Desc)
	}
	return sb.String()
}

package filetree

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Filetree is the navigation state over a Tree: one selected location, the
// set of expanded directory paths and a focus flag.
//
// While focused and non-empty the selection always addresses a visible node.
// Selection is re-derived from the selected path after every mutation.
type Filetree struct {
	tree     *Tree
	selected Location
	expanded map[string]bool
	focused  bool
}

// Row is one visible line of the tree in depth-first order.
type Row struct {
	Label       string
	Path        string
	Dir         bool
	Expanded    bool
	HasChildren bool
	Selected    bool
	Depth       int
	Loc         Location
}

// Open scans the directory configured on b and selects the first entry.
func Open(b *Builder, opts ...Option) (*Filetree, error) {
	root, err := b.Build()
	if err != nil {
		return nil, err
	}
	return New(NewTree(root, opts...)), nil
}

func New(t *Tree) *Filetree {
	f := &Filetree{
		tree:     t,
		expanded: map[string]bool{},
		focused:  true,
	}
	f.First()
	return f
}

func (f *Filetree) Tree() *Tree        { return f.tree }
func (f *Filetree) RootPath() string   { return f.tree.root.path }
func (f *Filetree) Items() []TreeItem  { return f.tree.Items() }
func (f *Filetree) Focus(focused bool) { f.focused = focused }
func (f *Filetree) Focused() bool      { return f.focused }

// Selected returns a copy of the selected location.
func (f *Filetree) Selected() Location { return f.selected.Clone() }

func (f *Filetree) Expanded(path string) bool { return f.expanded[filepath.Clean(path)] }

func (f *Filetree) ExpandedPaths() []string {
	out := make([]string, 0, len(f.expanded))
	for p := range f.expanded {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Rows flattens the projection into visible order: a directory's children
// are visible only while it is expanded.
func (f *Filetree) Rows() []Row {
	var rows []Row
	var walk func(items []TreeItem, depth int)
	walk = func(items []TreeItem, depth int) {
		for _, ti := range items {
			it, ok := f.tree.GetNode(ti.Loc)
			if !ok {
				panic(fmt.Sprintf("filetree: projection location %s does not resolve", ti.Loc))
			}
			open := ti.Dir && f.expanded[it.Path()]
			rows = append(rows, Row{
				Label:       ti.Label,
				Path:        it.Path(),
				Dir:         ti.Dir,
				Expanded:    open,
				HasChildren: len(ti.Children) > 0,
				Selected:    ti.Loc.Equal(f.selected),
				Depth:       depth,
				Loc:         ti.Loc,
			})
			if open {
				walk(ti.Children, depth+1)
			}
		}
	}
	walk(f.tree.Items(), 0)
	return rows
}

func selectedIndex(rows []Row) int {
	for i, r := range rows {
		if r.Selected {
			return i
		}
	}
	return -1
}

func (f *Filetree) First() {
	rows := f.Rows()
	if len(rows) == 0 {
		f.selected = nil
		return
	}
	f.selected = rows[0].Loc.Clone()
}

func (f *Filetree) Last() {
	rows := f.Rows()
	if len(rows) == 0 {
		f.selected = nil
		return
	}
	f.selected = rows[len(rows)-1].Loc.Clone()
}

func (f *Filetree) Down() {
	rows := f.Rows()
	idx := selectedIndex(rows)
	if idx < 0 {
		f.First()
		return
	}
	if idx+1 < len(rows) {
		f.selected = rows[idx+1].Loc.Clone()
	}
}

func (f *Filetree) Up() {
	rows := f.Rows()
	idx := selectedIndex(rows)
	if idx < 0 {
		f.First()
		return
	}
	if idx > 0 {
		f.selected = rows[idx-1].Loc.Clone()
	}
}

// Toggle flips the expand state of the selected directory. Files are left
// alone.
func (f *Filetree) Toggle() {
	it, ok := f.Current()
	if !ok {
		return
	}
	switch n := it.(type) {
	case *Dir:
		if f.expanded[n.path] {
			delete(f.expanded, n.path)
		} else {
			f.expanded[n.path] = true
		}
	case *File:
	default:
		panic(fmt.Sprintf("filetree: unexpected item %T", it))
	}
}

// Expand opens the selected directory.
func (f *Filetree) Expand() {
	if d, ok := f.currentDir(); ok {
		f.expanded[d.path] = true
	}
}

// Collapse closes the selected directory, or moves the selection to the
// parent when there is nothing to close.
func (f *Filetree) Collapse() {
	if d, ok := f.currentDir(); ok && f.expanded[d.path] {
		delete(f.expanded, d.path)
		return
	}
	if len(f.selected) > 1 {
		f.selected = f.selected.Parent()
	}
}

func (f *Filetree) currentDir() (*Dir, bool) {
	it, ok := f.Current()
	if !ok {
		return nil, false
	}
	d, ok := it.(*Dir)
	return d, ok
}

func (f *Filetree) GetNode(loc Location) (Item, bool) {
	return f.tree.GetNode(loc)
}

// Current returns the selected item, or false when the tree is empty.
func (f *Filetree) Current() (Item, bool) {
	if len(f.selected) == 0 {
		return nil, false
	}
	return f.tree.GetNode(f.selected)
}

// GetSelected returns the selected item. An unresolvable selection is a
// programming error.
func (f *Filetree) GetSelected() Item {
	it, ok := f.Current()
	if !ok {
		panic(fmt.Sprintf("filetree: selection %s is not in the tree", f.selected))
	}
	return it
}

// Select selects the node at loc, expanding its ancestors.
func (f *Filetree) Select(loc Location) error {
	if _, ok := f.tree.GetNode(loc); !ok {
		return LocationError{Op: "select", Loc: loc}
	}
	f.expandAncestors(loc)
	f.selected = loc.Clone()
	return nil
}

func (f *Filetree) expandAncestors(loc Location) {
	for i := 1; i < len(loc); i++ {
		if it, ok := f.tree.GetNode(loc[:i]); ok {
			f.expanded[it.Path()] = true
		}
	}
}

// OpenPath expands every ancestor of path and selects it. The root path
// selects the first row. An active filter that hides path is cleared.
func (f *Filetree) OpenPath(path string) error {
	path = filepath.Clean(path)
	if path == f.tree.root.path {
		f.First()
		return nil
	}
	loc, ok := f.tree.Locate(path)
	if !ok {
		return notFound("open path", path)
	}
	f.expandAncestors(loc)
	f.selected = loc
	if f.tree.Filtered() && selectedIndex(f.Rows()) < 0 {
		f.tree.ClearFilter()
	}
	return nil
}

// RemoveAt removes the node at loc. The caller must already have removed it
// from disk.
func (f *Filetree) RemoveAt(loc Location) (Item, error) {
	prev := f.selectedPath()
	it, err := f.tree.RemoveAt(loc)
	if err != nil {
		return nil, err
	}
	f.afterRemoval(it, loc, prev, true)
	return it, nil
}

// RemoveSelected removes the selected node. The node that slides into the
// vacated location is collapsed so it does not inherit an open state.
func (f *Filetree) RemoveSelected() (Item, error) {
	loc := f.Selected()
	if len(loc) == 0 {
		return nil, LocationError{Op: "remove file", Loc: loc}
	}
	return f.RemoveAt(loc)
}

func (f *Filetree) afterRemoval(removed Item, loc Location, prevSelected string, collapseOccupant bool) {
	f.forget(removed.Path())
	if occupant, ok := f.tree.GetNode(loc); ok && collapseOccupant {
		delete(f.expanded, occupant.Path())
	}
	if prevSelected != "" && prevSelected != removed.Path() && !within(prevSelected, removed.Path()) {
		f.restore(prevSelected, -1)
		return
	}
	f.reselectNear(loc)
}

// reselectNear picks the first visible candidate among: loc itself, its
// previous sibling, its parent. It falls back to the first row.
func (f *Filetree) reselectNear(loc Location) {
	candidates := []Location{loc}
	if last := loc.Last(); last > 0 {
		candidates = append(candidates, loc.Parent().Child(last-1))
	}
	if len(loc) > 1 {
		candidates = append(candidates, loc.Parent())
	}
	rows := f.Rows()
	for _, c := range candidates {
		for _, r := range rows {
			if r.Loc.Equal(c) {
				f.selected = c.Clone()
				return
			}
		}
	}
	f.First()
}

// forget drops path and everything below it from the expand set.
func (f *Filetree) forget(path string) {
	for p := range f.expanded {
		if p == path || within(p, path) {
			delete(f.expanded, p)
		}
	}
}

func (f *Filetree) rebaseExpanded(oldPath, newPath string) {
	moved := map[string]bool{}
	for p := range f.expanded {
		if p == oldPath || within(p, oldPath) {
			delete(f.expanded, p)
			moved[rebase(p, oldPath, newPath)] = true
		}
	}
	for p := range moved {
		f.expanded[p] = true
	}
}

func (f *Filetree) selectedPath() string {
	if it, ok := f.Current(); ok {
		return it.Path()
	}
	return ""
}

// restore selects path if it is visible, otherwise the row at idx clamped to
// the visible range.
func (f *Filetree) restore(path string, idx int) {
	rows := f.Rows()
	if len(rows) == 0 {
		f.selected = nil
		return
	}
	if path != "" {
		for _, r := range rows {
			if r.Path == path {
				f.selected = r.Loc.Clone()
				return
			}
		}
	}
	idx = max(0, min(idx, len(rows)-1))
	f.selected = rows[idx].Loc.Clone()
}

// AddFile creates a file entry under the directory at loc. The file must
// already exist on disk.
func (f *Filetree) AddFile(loc Location, name string) (*File, error) {
	prev, idx := f.selectedPath(), selectedIndex(f.Rows())
	file, err := f.tree.AddAt(loc, name)
	if err != nil {
		return nil, err
	}
	f.restore(prev, idx)
	return file, nil
}

func (f *Filetree) AddDir(loc Location, name string) (*Dir, error) {
	prev, idx := f.selectedPath(), selectedIndex(f.Rows())
	dir, err := f.tree.AddDirAt(loc, name)
	if err != nil {
		return nil, err
	}
	f.restore(prev, idx)
	return dir, nil
}

// Add mirrors a create on disk.
func (f *Filetree) Add(path string, kind Kind) (Item, error) {
	prev, idx := f.selectedPath(), selectedIndex(f.Rows())
	it, err := f.tree.Insert(path, kind)
	if err != nil {
		return nil, err
	}
	f.restore(prev, idx)
	return it, nil
}

// Delete mirrors a removal on disk.
func (f *Filetree) Delete(path string) (Item, error) {
	loc, ok := f.tree.Locate(path)
	if !ok {
		return nil, notFound("delete", path)
	}
	prev := f.selectedPath()
	it, err := f.tree.Delete(path)
	if err != nil {
		return nil, err
	}
	f.afterRemoval(it, loc, prev, false)
	return it, nil
}

// Rename mirrors a rename on disk. Selection and expand state follow the
// renamed node.
func (f *Filetree) Rename(oldPath, newPath string) error {
	return f.relocate(oldPath, newPath, f.tree.Rename)
}

// Move mirrors a move on disk. Selection and expand state follow the moved
// node when it stays inside the tree.
func (f *Filetree) Move(from, to string) error {
	return f.relocate(from, to, f.tree.Move)
}

func (f *Filetree) relocate(oldPath, newPath string, apply func(string, string) error) error {
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	prev, idx := f.selectedPath(), selectedIndex(f.Rows())
	if err := apply(oldPath, newPath); err != nil {
		return err
	}
	if _, ok := f.tree.Lookup(newPath); !ok {
		f.forget(oldPath)
		if prev == oldPath || within(prev, oldPath) {
			prev = ""
		}
		f.restore(prev, idx)
		return nil
	}
	f.rebaseExpanded(oldPath, newPath)
	if prev == oldPath || within(prev, oldPath) {
		target := rebase(prev, oldPath, newPath)
		if loc, ok := f.tree.Locate(target); ok {
			f.expandAncestors(loc)
		}
		prev = target
	}
	f.restore(prev, idx)
	return nil
}

// FilterFor narrows the projection to paths and opens their ancestors.
func (f *Filetree) FilterFor(paths []string) {
	prev, idx := f.selectedPath(), selectedIndex(f.Rows())
	f.tree.FilterInclude(paths)
	for _, p := range paths {
		if loc, ok := f.tree.Locate(p); ok {
			f.expandAncestors(loc)
		}
	}
	f.restore(prev, idx)
}

func (f *Filetree) ClearFilter() {
	prev, idx := f.selectedPath(), selectedIndex(f.Rows())
	f.tree.ClearFilter()
	f.restore(prev, idx)
}

// Apply dispatches a command.
func (f *Filetree) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case Delete:
		_, err := f.Delete(c.Path)
		return err
	case Add:
		kind := KindFile
		if c.Dir {
			kind = KindDir
		}
		_, err := f.Add(c.Path, kind)
		return err
	case Rename:
		return f.Rename(c.Old, c.New)
	case Move:
		return f.Move(c.From, c.To)
	case FilterFor:
		if len(c.Paths) == 0 {
			f.ClearFilter()
			return nil
		}
		f.FilterFor(c.Paths)
		return nil
	case GotoFile:
		return f.OpenPath(c.Path)
	case RemoveSelected:
		_, err := f.RemoveSelected()
		return err
	case AddFile:
		_, err := f.AddFile(c.Loc, c.File)
		return err
	case AddDir:
		_, err := f.AddDir(c.Loc, c.Dir)
		return err
	default:
		panic(fmt.Sprintf("filetree: unknown command %T", cmd))
	}
}

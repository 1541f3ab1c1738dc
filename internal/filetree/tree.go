package filetree

import (
	"path/filepath"
	"slices"
	"time"
)

// Tree pairs a root directory with its current projection. Every exported
// mutating method rebuilds the projection before returning, so Items never
// observes a stale shape.
type Tree struct {
	root      *Dir
	items     []TreeItem
	filter    []string
	onRebuild func(elapsed time.Duration, nodes int)
}

type Option func(*Tree)

// WithRebuildHook registers fn to be called after every projection rebuild
// with the time it took and the number of nodes in the tree.
func WithRebuildHook(fn func(elapsed time.Duration, nodes int)) Option {
	return func(t *Tree) { t.onRebuild = fn }
}

func NewTree(root *Dir, opts ...Option) *Tree {
	t := &Tree{root: root}
	for _, opt := range opts {
		opt(t)
	}
	t.rebuild()
	return t
}

func (t *Tree) Root() *Dir { return t.root }

// Items returns the current projection.
func (t *Tree) Items() []TreeItem { return t.items }

func (t *Tree) Filtered() bool { return t.filter != nil }

// FilterPaths returns the active filter targets, or nil when unfiltered.
func (t *Tree) FilterPaths() []string { return slices.Clone(t.filter) }

func (t *Tree) GetNode(loc Location) (Item, bool) {
	return t.root.NestedChild(loc)
}

// Count returns the number of nodes below the root.
func (t *Tree) Count() int {
	n := 0
	t.root.Walk(func(Location, Item) bool {
		n++
		return true
	})
	return n
}

// Paths returns every path below the root in depth-first order.
func (t *Tree) Paths() []string {
	var out []string
	t.root.Walk(func(_ Location, it Item) bool {
		out = append(out, it.Path())
		return true
	})
	return out
}

// dirAt resolves loc to a directory. The empty location is the root.
func (t *Tree) dirAt(loc Location) (*Dir, bool) {
	if len(loc) == 0 {
		return t.root, true
	}
	it, ok := t.root.NestedChild(loc)
	if !ok {
		return nil, false
	}
	d, ok := it.(*Dir)
	return d, ok
}

func (t *Tree) RemoveAt(loc Location) (Item, error) {
	if len(loc) == 0 {
		return nil, LocationError{Op: "remove file", Loc: loc}
	}
	parent, ok := t.dirAt(loc[:len(loc)-1])
	if !ok {
		return nil, LocationError{Op: "remove file", Loc: loc}
	}
	it, err := parent.RemoveChild(loc.Last())
	if err != nil {
		return nil, LocationError{Op: "remove file", Loc: loc}
	}
	t.rebuild()
	return it, nil
}

// AddAt appends a new file named name to the directory at loc and returns
// it. Names are unique per directory, so the returned file is always the
// one just inserted.
func (t *Tree) AddAt(loc Location, name string) (*File, error) {
	d, ok := t.dirAt(loc)
	if !ok {
		return nil, LocationError{Op: "add file", Loc: loc}
	}
	f, err := d.NewFile(name)
	if err != nil {
		return nil, err
	}
	t.rebuild()
	return f, nil
}

func (t *Tree) AddDirAt(loc Location, name string) (*Dir, error) {
	d, ok := t.dirAt(loc)
	if !ok {
		return nil, LocationError{Op: "add directory", Loc: loc}
	}
	sub, err := d.NewDir(name)
	if err != nil {
		return nil, err
	}
	t.rebuild()
	return sub, nil
}

// Locate returns the current location of the node at path.
func (t *Tree) Locate(path string) (Location, bool) {
	path = filepath.Clean(path)
	var loc Location
	dir := t.root
	for {
		next := -1
		for i, ch := range dir.children {
			p := ch.Path()
			if p == path {
				return append(loc, i), true
			}
			if _, isDir := ch.(*Dir); isDir && within(path, p) {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		loc = append(loc, next)
		dir = dir.children[next].(*Dir)
	}
}

func (t *Tree) Lookup(path string) (Item, bool) {
	loc, ok := t.Locate(path)
	if !ok {
		return nil, false
	}
	return t.root.NestedChild(loc)
}

// locateDir finds the directory whose path is exactly path, including the
// root itself.
func (t *Tree) locateDir(path string) (*Dir, bool) {
	path = filepath.Clean(path)
	if path == t.root.path {
		return t.root, true
	}
	it, ok := t.Lookup(path)
	if !ok {
		return nil, false
	}
	d, ok := it.(*Dir)
	return d, ok
}

// Insert mirrors a create that already happened on disk by appending a node
// of the given kind to its parent directory.
func (t *Tree) Insert(path string, kind Kind) (Item, error) {
	path = filepath.Clean(path)
	parent, ok := t.locateDir(filepath.Dir(path))
	if !ok || path == t.root.path {
		return nil, notFound("add", path)
	}
	var (
		it  Item
		err error
	)
	switch kind {
	case KindDir:
		it, err = parent.NewDir(lastOfPath(path))
	default:
		it, err = parent.NewFile(lastOfPath(path))
	}
	if err != nil {
		return nil, err
	}
	t.rebuild()
	return it, nil
}

// Delete mirrors a removal that already happened on disk.
func (t *Tree) Delete(path string) (Item, error) {
	path = filepath.Clean(path)
	parent, ok := t.locateDir(filepath.Dir(path))
	if !ok {
		return nil, notFound("delete", path)
	}
	idx := parent.IndexOf(lastOfPath(path))
	if idx < 0 {
		return nil, notFound("delete", path)
	}
	it, err := parent.RemoveChild(idx)
	if err != nil {
		return nil, err
	}
	t.rebuild()
	return it, nil
}

// Rename updates the node at oldPath, and every descendant path for a
// directory, in place. Its position among its siblings does not change.
func (t *Tree) Rename(oldPath, newPath string) error {
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	if oldPath == newPath {
		return nil
	}
	if filepath.Dir(oldPath) != filepath.Dir(newPath) {
		return t.Move(oldPath, newPath)
	}
	parent, ok := t.locateDir(filepath.Dir(oldPath))
	if !ok {
		return notFound("rename", oldPath)
	}
	idx := parent.IndexOf(lastOfPath(oldPath))
	if idx < 0 {
		return notFound("rename", oldPath)
	}
	if err := parent.checkNewName(lastOfPath(newPath)); err != nil {
		return err
	}
	relocate(parent.children[idx], newPath)
	t.rebaseFilter(oldPath, newPath)
	t.rebuild()
	return nil
}

// Move mirrors a move that already happened on disk. Within one parent it is
// a rename; otherwise the node is detached from its old parent and appended
// to the destination with its subtree intact. A destination outside the tree
// leaves only the removal.
func (t *Tree) Move(from, to string) error {
	from, to = filepath.Clean(from), filepath.Clean(to)
	if from == to {
		return nil
	}
	if filepath.Dir(from) == filepath.Dir(to) {
		return t.Rename(from, to)
	}
	if within(to, from) {
		return PathError{Op: "move", Path: to, Err: ErrInvalidLocation}
	}
	src, ok := t.locateDir(filepath.Dir(from))
	if !ok {
		return notFound("move", from)
	}
	idx := src.IndexOf(lastOfPath(from))
	if idx < 0 {
		return notFound("move", from)
	}
	dst, dstOK := t.locateDir(filepath.Dir(to))
	if dstOK {
		if err := dst.checkNewName(lastOfPath(to)); err != nil {
			return err
		}
	}

	it, err := src.RemoveChild(idx)
	if err != nil {
		return err
	}
	if dstOK {
		relocate(it, to)
		dst.children = append(dst.children, it)
		t.rebaseFilter(from, to)
	}
	t.rebuild()
	return nil
}

// FilterInclude restricts the projection to the ancestor chains of paths.
// Target directories keep their whole subtree. Paths not in the tree are
// ignored. The directory itself is not modified.
func (t *Tree) FilterInclude(paths []string) {
	t.filter = make([]string, 0, len(paths))
	for _, p := range paths {
		t.filter = append(t.filter, filepath.Clean(p))
	}
	t.rebuild()
}

// ClearFilter restores the full projection.
func (t *Tree) ClearFilter() {
	t.filter = nil
	t.rebuild()
}

func (t *Tree) rebaseFilter(oldPath, newPath string) {
	for i, p := range t.filter {
		t.filter[i] = rebase(p, oldPath, newPath)
	}
}

func (t *Tree) rebuild() {
	start := time.Now()
	if t.filter == nil {
		t.items = BuildProjection(t.root)
	} else {
		t.items = t.filteredItems()
	}
	if t.onRebuild != nil {
		t.onRebuild(time.Since(start), t.Count())
	}
}

func (t *Tree) filteredItems() []TreeItem {
	keep := map[string]bool{}
	whole := map[string]bool{}
	for _, p := range t.filter {
		it, ok := t.Lookup(p)
		if !ok {
			continue
		}
		if it.Kind() == KindDir {
			whole[p] = true
		} else {
			keep[p] = true
		}
		for anc := filepath.Dir(p); within(anc, t.root.path); anc = filepath.Dir(anc) {
			keep[anc] = true
		}
	}
	items := projectFiltered(t.root, nil, keep, whole)
	if items == nil {
		items = []TreeItem{}
	}
	return items
}

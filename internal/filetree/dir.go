package filetree

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Dir is an ordered container of child items. Child order is the order the
// children were scanned or inserted in, and is exactly the order exposed to
// indices.
type Dir struct {
	path     string
	children []Item
}

// NewDirItem returns a directory node for path holding children in order.
// Children paths are taken as given.
func NewDirItem(path string, children ...Item) *Dir {
	return &Dir{path: filepath.Clean(path), children: children}
}

func (d *Dir) Path() string        { return d.path }
func (d *Dir) Name() string        { return lastOfPath(d.path) }
func (d *Dir) Kind() Kind          { return KindDir }
func (d *Dir) setPath(path string) { d.path = path }

func (d *Dir) Len() int { return len(d.children) }

// Children returns the direct children in order. The slice is a copy; the
// items are live.
func (d *Dir) Children() []Item {
	return slices.Clone(d.children)
}

func (d *Dir) Child(idx int) (Item, bool) {
	if idx < 0 || idx >= len(d.children) {
		return nil, false
	}
	return d.children[idx], true
}

// NestedChild descends through loc. It fails as soon as an index is out of
// range or a step would descend through a file.
func (d *Dir) NestedChild(loc Location) (Item, bool) {
	if len(loc) == 0 {
		return nil, false
	}
	node, ok := d.Child(loc[0])
	if !ok {
		return nil, false
	}
	for _, idx := range loc[1:] {
		switch n := node.(type) {
		case *Dir:
			node, ok = n.Child(idx)
			if !ok {
				return nil, false
			}
		case *File:
			return nil, false
		default:
			panic(fmt.Sprintf("filetree: unexpected item %T", node))
		}
	}
	return node, true
}

// IndexOf returns the index of the direct child named name, or -1.
func (d *Dir) IndexOf(name string) int {
	for i, ch := range d.children {
		if ch.Name() == name {
			return i
		}
	}
	return -1
}

func (d *Dir) RemoveChild(idx int) (Item, error) {
	if idx < 0 || idx >= len(d.children) {
		return nil, LocationError{Op: "remove child", Loc: Location{idx}}
	}
	it := d.children[idx]
	d.children = slices.Delete(d.children, idx, idx+1)
	return it, nil
}

// NewFile appends an empty file entry named name. Duplicate names are
// rejected with ErrNameConflict.
func (d *Dir) NewFile(name string) (*File, error) {
	if err := d.checkNewName(name); err != nil {
		return nil, err
	}
	f := &File{path: filepath.Join(d.path, name)}
	d.children = append(d.children, f)
	return f, nil
}

// NewDir appends an empty directory entry named name.
func (d *Dir) NewDir(name string) (*Dir, error) {
	if err := d.checkNewName(name); err != nil {
		return nil, err
	}
	sub := &Dir{path: filepath.Join(d.path, name)}
	d.children = append(d.children, sub)
	return sub, nil
}

func (d *Dir) checkNewName(name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if d.IndexOf(name) >= 0 {
		return NameConflictError{Dir: d.path, Name: name}
	}
	return nil
}

// Walk visits every descendant depth-first in child order. Returning false
// from fn skips the children of the visited item.
func (d *Dir) Walk(fn func(loc Location, it Item) bool) {
	d.walk(nil, fn)
}

func (d *Dir) walk(prefix Location, fn func(Location, Item) bool) {
	for i, ch := range d.children {
		loc := prefix.Child(i)
		if !fn(loc, ch) {
			continue
		}
		if sub, ok := ch.(*Dir); ok {
			sub.walk(loc, fn)
		}
	}
}

// ValidName reports whether name can be used as a single directory entry.
func ValidName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

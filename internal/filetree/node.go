package filetree

import (
	"path/filepath"
	"strings"
)

type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	default:
		return "file"
	}
}

// Item is one entry in the tree. It is either a *File or a *Dir; no other
// implementations exist outside this package.
type Item interface {
	Path() string
	Name() string
	Kind() Kind

	setPath(path string)
}

type File struct {
	path string
}

// NewFileItem returns a detached file node for path.
func NewFileItem(path string) *File {
	return &File{path: filepath.Clean(path)}
}

func (f *File) Path() string        { return f.path }
func (f *File) Name() string        { return lastOfPath(f.path) }
func (f *File) Kind() Kind          { return KindFile }
func (f *File) setPath(path string) { f.path = path }

func lastOfPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// within reports whether path is strictly below dir.
func within(path, dir string) bool {
	if path == dir {
		return false
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// rebase rewrites path from the old prefix to the new one. Paths outside old
// are returned unchanged.
func rebase(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	if !within(path, oldPrefix) {
		return path
	}
	return filepath.Join(newPrefix, strings.TrimPrefix(path, oldPrefix))
}

// relocate moves it (and, for a directory, every descendant) to newPath.
func relocate(it Item, newPath string) {
	oldPath := it.Path()
	it.setPath(newPath)
	d, ok := it.(*Dir)
	if !ok {
		return
	}
	d.Walk(func(_ Location, child Item) bool {
		child.setPath(rebase(child.Path(), oldPath, newPath))
		return true
	})
}

package filetree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Builder scans a directory on disk into a *Dir. Symlinks are recorded as
// files and never followed.
type Builder struct {
	root       string
	showHidden bool
	dirsFirst  bool
}

func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// ShowHidden includes dot-entries in the scan.
func (b *Builder) ShowHidden(v bool) *Builder {
	b.showHidden = v
	return b
}

// DirsFirst orders directories before files within each directory.
func (b *Builder) DirsFirst(v bool) *Builder {
	b.dirsFirst = v
	return b
}

func (b *Builder) Build() (*Dir, error) {
	abs, err := filepath.Abs(b.root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}
	return b.scan(abs)
}

func (b *Builder) scan(path string) (*Dir, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	if b.dirsFirst {
		slices.SortStableFunc(entries, func(x, y fs.DirEntry) int {
			switch {
			case x.IsDir() == y.IsDir():
				return 0
			case x.IsDir():
				return -1
			default:
				return 1
			}
		})
	}

	d := &Dir{path: path}
	for _, e := range entries {
		if !b.showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		child := filepath.Join(path, e.Name())
		if !e.IsDir() {
			d.children = append(d.children, &File{path: child})
			continue
		}
		sub, err := b.scan(child)
		if errors.Is(err, fs.ErrPermission) {
			// Keep unreadable directories visible, just empty.
			sub, err = &Dir{path: child}, nil
		}
		if err != nil {
			return nil, err
		}
		d.children = append(d.children, sub)
	}
	return d, nil
}

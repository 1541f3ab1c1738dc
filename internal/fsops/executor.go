// Package fsops performs filesystem changes and then reconciles the in-memory
// tree. The tree is touched only after the disk operation succeeded.
package fsops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"fern-cli/internal/filetree"
	"fern-cli/internal/metrics"
)

// MarkTracker keeps persisted marks in step with renames and deletes.
type MarkTracker interface {
	Rebase(ctx context.Context, root, oldPath, newPath string) error
	Forget(ctx context.Context, root, path string) error
}

type Executor struct {
	tree  *filetree.Filetree
	log   *zap.Logger
	marks MarkTracker
}

type Option func(*Executor)

func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.log = l
		}
	}
}

func WithMarks(m MarkTracker) Option {
	return func(e *Executor) { e.marks = m }
}

func New(tree *filetree.Filetree, opts ...Option) *Executor {
	e := &Executor{tree: tree, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) Tree() *filetree.Filetree { return e.tree }

// Apply reconciles the tree with cmd, recording the outcome.
func (e *Executor) Apply(cmd filetree.Command) error {
	err := e.tree.Apply(cmd)
	metrics.RecordCommand(cmd.Name(), err)
	if err != nil {
		e.log.Error("reconcile failed", zap.String("command", cmd.Name()), zap.Error(err))
		return err
	}
	e.log.Debug("reconciled", zap.String("command", cmd.Name()))
	return nil
}

func (e *Executor) disk(op, path string, err error) error {
	metrics.RecordDiskOp(op, err)
	if err != nil {
		e.log.Error(op+" failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
	return nil
}

// dirAt resolves loc to the directory new entries go in. The empty location
// is the root.
func (e *Executor) dirAt(op string, loc filetree.Location) (string, error) {
	if len(loc) == 0 {
		return e.tree.RootPath(), nil
	}
	it, ok := e.tree.GetNode(loc)
	if !ok || it.Kind() != filetree.KindDir {
		return "", filetree.LocationError{Op: op, Loc: loc}
	}
	return it.Path(), nil
}

// NewFileAt creates an empty file named name inside the directory at loc.
func (e *Executor) NewFileAt(loc filetree.Location, name string) (string, error) {
	dir, err := e.dirAt("add file", loc)
	if err != nil {
		return "", err
	}
	if err := filetree.ValidName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err == nil {
		err = f.Close()
	}
	if err := e.disk("create file", path, err); err != nil {
		return "", err
	}
	e.log.Info("created file", zap.String("path", path))
	return path, e.Apply(filetree.AddFile{Loc: loc, File: name})
}

// NewDirAt creates a directory named name inside the directory at loc.
func (e *Executor) NewDirAt(loc filetree.Location, name string) (string, error) {
	dir, err := e.dirAt("add directory", loc)
	if err != nil {
		return "", err
	}
	if err := filetree.ValidName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := e.disk("create directory", path, os.Mkdir(path, 0o755)); err != nil {
		return "", err
	}
	e.log.Info("created directory", zap.String("path", path))
	return path, e.Apply(filetree.AddDir{Loc: loc, Dir: name})
}

// Delete removes path (recursively for directories).
func (e *Executor) Delete(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	if _, ok := e.tree.Tree().Lookup(path); !ok {
		return filetree.PathError{Op: "delete", Path: path, Err: filetree.ErrNotFound}
	}
	if err := e.disk("delete", path, os.RemoveAll(path)); err != nil {
		return err
	}
	e.log.Info("deleted", zap.String("path", path))
	if err := e.Apply(filetree.Delete{Path: path}); err != nil {
		return err
	}
	e.forgetMarks(ctx, path)
	return nil
}

// DeleteSelected removes the selected entry from disk and then from the tree
// by location.
func (e *Executor) DeleteSelected(ctx context.Context) (string, error) {
	it, ok := e.tree.Current()
	if !ok {
		return "", filetree.LocationError{Op: "remove file", Loc: e.tree.Selected()}
	}
	path := it.Path()
	if err := e.disk("delete", path, os.RemoveAll(path)); err != nil {
		return "", err
	}
	e.log.Info("deleted", zap.String("path", path))
	if err := e.Apply(filetree.RemoveSelected{}); err != nil {
		return "", err
	}
	e.forgetMarks(ctx, path)
	return path, nil
}

// Rename gives path a new name in the same directory.
func (e *Executor) Rename(ctx context.Context, path, newName string) (string, error) {
	path = filepath.Clean(path)
	if err := filetree.ValidName(newName); err != nil {
		return "", err
	}
	to := filepath.Join(filepath.Dir(path), newName)
	if to == path {
		return path, nil
	}
	if err := e.checkRelocate("rename", path, to); err != nil {
		return "", err
	}
	if err := e.disk("rename", path, os.Rename(path, to)); err != nil {
		return "", err
	}
	e.log.Info("renamed", zap.String("from", path), zap.String("to", to))
	if err := e.Apply(filetree.Rename{Old: path, New: to}); err != nil {
		return "", err
	}
	e.rebaseMarks(ctx, path, to)
	return to, nil
}

// Move relocates from to to. When to names an existing directory the entry
// is moved into it, keeping its name.
func (e *Executor) Move(ctx context.Context, from, to string) (string, error) {
	from = filepath.Clean(from)
	if !filepath.IsAbs(to) {
		to = filepath.Join(filepath.Dir(from), to)
	}
	to = filepath.Clean(to)
	if st, err := os.Stat(to); err == nil && st.IsDir() {
		to = filepath.Join(to, filepath.Base(from))
	}
	if to == from {
		return from, nil
	}
	if err := e.checkRelocate("move", from, to); err != nil {
		return "", err
	}
	if err := e.disk("move", from, os.Rename(from, to)); err != nil {
		return "", err
	}
	e.log.Info("moved", zap.String("from", from), zap.String("to", to))
	if err := e.Apply(filetree.Move{From: from, To: to}); err != nil {
		return "", err
	}
	if _, ok := e.tree.Tree().Lookup(to); ok {
		e.rebaseMarks(ctx, from, to)
	} else {
		e.forgetMarks(ctx, from)
	}
	return to, nil
}

// checkRelocate rejects moves the tree could not mirror, before touching disk.
func (e *Executor) checkRelocate(op, from, to string) error {
	if _, ok := e.tree.Tree().Lookup(from); !ok {
		return filetree.PathError{Op: op, Path: from, Err: filetree.ErrNotFound}
	}
	if rel, err := filepath.Rel(from, to); err == nil && rel != ".." && !startsWithParent(rel) {
		return filetree.PathError{Op: op, Path: to, Err: filetree.ErrInvalidLocation}
	}
	if _, err := os.Lstat(to); err == nil {
		return filetree.NameConflictError{Dir: filepath.Dir(to), Name: filepath.Base(to)}
	} else if !errors.Is(err, os.ErrNotExist) {
		return e.disk("stat", to, err)
	}
	return nil
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && os.IsPathSeparator(rel[2])
}

func (e *Executor) rebaseMarks(ctx context.Context, from, to string) {
	if e.marks == nil {
		return
	}
	if err := e.marks.Rebase(ctx, e.tree.RootPath(), from, to); err != nil {
		e.log.Warn("rebase marks", zap.String("from", from), zap.Error(err))
	}
}

func (e *Executor) forgetMarks(ctx context.Context, path string) {
	if e.marks == nil {
		return
	}
	if err := e.marks.Forget(ctx, e.tree.RootPath(), path); err != nil {
		e.log.Warn("forget marks", zap.String("path", path), zap.Error(err))
	}
}

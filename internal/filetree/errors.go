package filetree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLocation is returned when an index is out of range or a
	// location descends through a file.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrNotFound is returned when a path-addressed target is not in the tree.
	ErrNotFound = errors.New("not found")
	// ErrNameConflict is returned when a directory already holds an entry with
	// the requested name.
	ErrNameConflict = errors.New("name conflict")
	// ErrInvalidName is returned for names that are not a single path component.
	ErrInvalidName = errors.New("invalid name")
)

type LocationError struct {
	Op  string
	Loc Location
}

func (e LocationError) Error() string {
	return fmt.Sprintf("could not %s: invalid location %s", e.Op, e.Loc)
}

func (e LocationError) Unwrap() error { return ErrInvalidLocation }

type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e PathError) Error() string {
	return fmt.Sprintf("could not %s %q: %v", e.Op, e.Path, e.Err)
}

func (e PathError) Unwrap() error { return e.Err }

type NameConflictError struct {
	Dir  string
	Name string
}

func (e NameConflictError) Error() string {
	return fmt.Sprintf("%q already exists in %q", e.Name, e.Dir)
}

func (e NameConflictError) Unwrap() error { return ErrNameConflict }

func notFound(op, path string) error {
	return PathError{Op: op, Path: path, Err: ErrNotFound}
}

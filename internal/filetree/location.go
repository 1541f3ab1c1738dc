package filetree

import (
	"strconv"
	"strings"
)

// Location is an index path from the root directory: loc[0] selects a direct
// child of the root, loc[1] a child of that child, and so on.
//
// Locations are only meaningful against the sibling order they were taken
// from. Re-derive them from a path after any mutation.
type Location []int

func (l Location) String() string {
	parts := make([]string, len(l))
	for i, idx := range l {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (l Location) Clone() Location {
	if l == nil {
		return nil
	}
	out := make(Location, len(l))
	copy(out, l)
	return out
}

// Parent returns the location of the containing directory. The parent of a
// top-level location is the empty location (the root).
func (l Location) Parent() Location {
	if len(l) == 0 {
		return nil
	}
	return l[:len(l)-1].Clone()
}

// Last returns the final index, or -1 for the empty location.
func (l Location) Last() int {
	if len(l) == 0 {
		return -1
	}
	return l[len(l)-1]
}

// Child returns a new location one level deeper.
func (l Location) Child(idx int) Location {
	out := make(Location, len(l), len(l)+1)
	copy(out, l)
	return append(out, idx)
}

func (l Location) Equal(o Location) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if l[i] != o[i] {
			return false
		}
	}
	return true
}

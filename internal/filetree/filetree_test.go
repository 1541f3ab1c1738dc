package filetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNavTree() *Filetree {
	return New(NewTree(NewDirItem("/r",
		NewFileItem("/r/a"),
		NewDirItem("/r/c",
			NewDirItem("/r/c/sub", NewFileItem("/r/c/sub/f")),
			NewFileItem("/r/c/d"),
		),
		NewFileItem("/r/z"),
	)))
}

func rowPaths(f *Filetree) []string {
	var out []string
	for _, r := range f.Rows() {
		out = append(out, r.Path)
	}
	return out
}

func TestFiletree_StartsOnFirstRowCollapsed(t *testing.T) {
	t.Parallel()
	f := newNavTree()

	assert.True(t, f.Focused())
	assert.Equal(t, Location{0}, f.Selected())
	assert.Equal(t, []string{"/r/a", "/r/c", "/r/z"}, rowPaths(f))
}

func TestFiletree_UpAtFirstIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	f.First()
	for range 3 {
		f.Up()
		assert.Equal(t, Location{0}, f.Selected())
	}
}

func TestFiletree_DownAtLastIsIdempotent(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	require.NoError(t, f.OpenPath("/r/c/sub/f"))
	f.Last()
	want := f.Selected()
	assert.Equal(t, "/r/z", f.GetSelected().Path())
	for range 3 {
		f.Down()
		assert.Equal(t, want, f.Selected())
	}
}

func TestFiletree_DownWalksVisibleDepthFirst(t *testing.T) {
	t.Parallel()
	f := newNavTree()

	f.Down()
	assert.Equal(t, "/r/c", f.GetSelected().Path())
	f.Toggle()
	assert.True(t, f.Expanded("/r/c"))

	var seen []string
	for range 4 {
		f.Down()
		seen = append(seen, f.GetSelected().Path())
	}
	assert.Equal(t, []string{"/r/c/sub", "/r/c/d", "/r/z", "/r/z"}, seen)

	f.Up()
	f.Up()
	assert.Equal(t, "/r/c/sub", f.GetSelected().Path())
}

func TestFiletree_ToggleIsNoopOnFiles(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	f.Toggle()
	assert.Empty(t, f.ExpandedPaths())

	f.Down()
	f.Toggle()
	f.Toggle()
	assert.Empty(t, f.ExpandedPaths())
}

func TestFiletree_ExpandCollapse(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	f.Down()
	f.Expand()
	f.Down()
	assert.Equal(t, "/r/c/sub", f.GetSelected().Path())

	// Collapsed directory: jump to parent.
	f.Collapse()
	assert.Equal(t, "/r/c", f.GetSelected().Path())
	f.Collapse()
	assert.False(t, f.Expanded("/r/c"))
}

func TestFiletree_OpenPathExpandsAncestors(t *testing.T) {
	t.Parallel()
	f := newNavTree()

	require.NoError(t, f.OpenPath("/r/c/sub/f"))
	assert.Equal(t, "/r/c/sub/f", f.GetSelected().Path())
	assert.Equal(t, []string{"/r/c", "/r/c/sub"}, f.ExpandedPaths())
	assert.Equal(t, Location{1, 0, 0}, f.Selected())

	require.NoError(t, f.OpenPath("/r"))
	assert.Equal(t, Location{0}, f.Selected())

	err := f.OpenPath("/r/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFiletree_OpenPathClearsHidingFilter(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	f.FilterFor([]string{"/r/z"})
	assert.Equal(t, []string{"/r/z"}, rowPaths(f))

	require.NoError(t, f.OpenPath("/r/c/d"))
	assert.False(t, f.Tree().Filtered())
	assert.Equal(t, "/r/c/d", f.GetSelected().Path())
}

func TestFiletree_GetSelectedPanicsOnEmptyTree(t *testing.T) {
	t.Parallel()
	f := New(NewTree(NewDirItem("/empty")))

	_, ok := f.Current()
	assert.False(t, ok)
	assert.Panics(t, func() { f.GetSelected() })
	assert.Empty(t, f.Rows())
}

func TestFiletree_RemoveSelectedCollapsesOccupant(t *testing.T) {
	t.Parallel()
	f := New(NewTree(NewDirItem("/r",
		NewDirItem("/r/x", NewFileItem("/r/x/1")),
		NewDirItem("/r/y", NewFileItem("/r/y/1")),
	)))
	require.NoError(t, f.OpenPath("/r/x/1"))
	require.NoError(t, f.OpenPath("/r/y/1"))
	require.NoError(t, f.Select(Location{0}))

	removed, err := f.RemoveSelected()
	require.NoError(t, err)
	assert.Equal(t, "/r/x", removed.Path())

	assert.Equal(t, Location{0}, f.Selected())
	assert.Equal(t, "/r/y", f.GetSelected().Path())
	assert.False(t, f.Expanded("/r/y"))
	assert.Empty(t, f.ExpandedPaths())
	assert.Equal(t, []string{"/r/y"}, rowPaths(f))
}

func TestFiletree_RemoveSelectedLastChildSelectsPreviousSibling(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	require.NoError(t, f.OpenPath("/r/c/d"))

	_, err := f.RemoveSelected()
	require.NoError(t, err)
	assert.Equal(t, "/r/c/sub", f.GetSelected().Path())

	_, err = f.RemoveSelected()
	require.NoError(t, err)
	assert.Equal(t, "/r/c", f.GetSelected().Path())
}

func TestFiletree_RemoveSelectedOnEmptyTree(t *testing.T) {
	t.Parallel()
	f := New(NewTree(NewDirItem("/empty")))
	_, err := f.RemoveSelected()
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestFiletree_SelectionFollowsRenameAndMove(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	require.NoError(t, f.OpenPath("/r/c/sub/f"))

	require.NoError(t, f.Apply(Rename{Old: "/r/c", New: "/r/k"}))
	assert.Equal(t, "/r/k/sub/f", f.GetSelected().Path())
	assert.Equal(t, []string{"/r/k", "/r/k/sub"}, f.ExpandedPaths())

	require.NoError(t, f.Apply(Move{From: "/r/k/sub", To: "/r/sub"}))
	assert.Equal(t, "/r/sub/f", f.GetSelected().Path())
	assert.True(t, f.Expanded("/r/sub"))
	assert.Equal(t, []string{"/r/a", "/r/k", "/r/k/d", "/r/z", "/r/sub", "/r/sub/f"}, rowPaths(f))
}

func TestFiletree_SelectionSurvivesUnrelatedMutations(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	require.NoError(t, f.OpenPath("/r/z"))

	require.NoError(t, f.Apply(Delete{Path: "/r/a"}))
	assert.Equal(t, "/r/z", f.GetSelected().Path())
	assert.Equal(t, Location{1}, f.Selected())

	require.NoError(t, f.Apply(Add{Path: "/r/c/new", Dir: true}))
	require.NoError(t, f.Apply(AddFile{Loc: Location{0, 2}, File: "inner"}))
	require.NoError(t, f.Apply(AddDir{Loc: Location{0, 2}, Dir: "deeper"}))
	assert.Equal(t, "/r/z", f.GetSelected().Path())

	d, ok := f.Tree().Lookup("/r/c/new/deeper")
	require.True(t, ok)
	assert.Equal(t, KindDir, d.Kind())

	it, ok := f.Tree().Lookup("/r/c/new/inner")
	require.True(t, ok)
	assert.Equal(t, KindFile, it.Kind())
}

func TestFiletree_DeletingSelectedByPath(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	require.NoError(t, f.OpenPath("/r/c/sub/f"))

	require.NoError(t, f.Apply(Delete{Path: "/r/c/sub"}))
	assert.Equal(t, "/r/c/d", f.GetSelected().Path())
	assert.Equal(t, []string{"/r/c"}, f.ExpandedPaths())
}

func TestFiletree_ApplyFilterAndGoto(t *testing.T) {
	t.Parallel()
	f := newNavTree()

	require.NoError(t, f.Apply(FilterFor{Paths: []string{"/r/c/sub/f"}}))
	assert.Equal(t, []string{"/r/c", "/r/c/sub", "/r/c/sub/f"}, rowPaths(f))

	require.NoError(t, f.Apply(FilterFor{}))
	assert.False(t, f.Tree().Filtered())

	require.NoError(t, f.Apply(GotoFile{Path: "/r/c/d"}))
	assert.Equal(t, "/r/c/d", f.GetSelected().Path())

	require.NoError(t, f.Apply(RemoveSelected{}))
	_, ok := f.Tree().Lookup("/r/c/d")
	assert.False(t, ok)

	assert.ErrorIs(t, f.Apply(GotoFile{Path: "/r/c/d"}), ErrNotFound)
}

func TestFiletree_FocusFlag(t *testing.T) {
	t.Parallel()
	f := newNavTree()
	f.Focus(false)
	assert.False(t, f.Focused())
	f.Focus(true)
	assert.True(t, f.Focused())
}

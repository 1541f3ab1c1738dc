package filetree

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Tree {
	return NewTree(sampleDir())
}

// flatLabels renders a projection as slash-joined label paths in order.
func flatLabels(items []TreeItem) []string {
	var out []string
	var walk func(items []TreeItem, prefix []string)
	walk = func(items []TreeItem, prefix []string) {
		for _, it := range items {
			p := append(append([]string{}, prefix...), it.Label)
			out = append(out, strings.Join(p, "/"))
			walk(it.Children, p)
		}
	}
	walk(items, nil)
	return out
}

func TestBuildProjection_MirrorsShapeAndOrder(t *testing.T) {
	t.Parallel()
	items := BuildProjection(sampleDir())

	assert.Equal(t, []string{"a", "b", "c", "c/d"}, flatLabels(items))
	require.Len(t, items, 3)
	assert.False(t, items[0].Dir)
	assert.True(t, items[2].Dir)
	assert.Equal(t, Location{2, 0}, items[2].Children[0].Loc)
	assert.Equal(t, 4, CountItems(items))
}

func TestTree_RemoveAtRoundTrip(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	it, err := tr.RemoveAt(Location{0})
	require.NoError(t, err)
	assert.Equal(t, "/r/a", it.Path())

	assert.Equal(t, []string{"b", "c", "c/d"}, flatLabels(tr.Items()))
	c := tr.Items()[1]
	assert.True(t, c.Dir)
	assert.NotEmpty(t, c.Children)

	// No stale reads: index 0 now resolves to b.
	got, ok := tr.GetNode(Location{0})
	require.True(t, ok)
	assert.Equal(t, "/r/b", got.Path())
}

func TestTree_RemoveAtNested(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	it, err := tr.RemoveAt(Location{2, 0})
	require.NoError(t, err)
	assert.Equal(t, "/r/c/d", it.Path())
	assert.Equal(t, []string{"a", "b", "c"}, flatLabels(tr.Items()))
}

func TestTree_RemoveAtInvalidLeavesTreeUnchanged(t *testing.T) {
	t.Parallel()
	for _, loc := range []Location{{}, {3}, {0, 0}, {2, 5}, {9, 0}} {
		tr := sampleTree()
		_, err := tr.RemoveAt(loc)
		assert.ErrorIs(t, err, ErrInvalidLocation, "loc %s", loc)
		assert.Equal(t, []string{"a", "b", "c", "c/d"}, flatLabels(tr.Items()))
	}
}

func TestTree_AddAtReturnsInsertedFile(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	f, err := tr.AddAt(Location{2}, "e")
	require.NoError(t, err)
	assert.Equal(t, "/r/c/e", f.Path())
	assert.Equal(t, []string{"a", "b", "c", "c/d", "c/e"}, flatLabels(tr.Items()))

	f, err = tr.AddAt(nil, "z")
	require.NoError(t, err)
	assert.Equal(t, "/r/z", f.Path())

	_, err = tr.AddAt(Location{0}, "x")
	assert.ErrorIs(t, err, ErrInvalidLocation)
	_, err = tr.AddAt(Location{2}, "d")
	assert.ErrorIs(t, err, ErrNameConflict)
}

func TestTree_AddDirAtAppendsDirectory(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	d, err := tr.AddDirAt(Location{2}, "sub")
	require.NoError(t, err)
	assert.Equal(t, "/r/c/sub", d.Path())
	assert.Equal(t, []string{"a", "b", "c", "c/d", "c/sub"}, flatLabels(tr.Items()))
	assert.True(t, tr.Items()[2].Children[1].Dir)

	_, err = tr.AddAt(Location{2, 1}, "f")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "c/d", "c/sub", "c/sub/f"}, flatLabels(tr.Items()))

	_, err = tr.AddDirAt(Location{0}, "x")
	assert.ErrorIs(t, err, ErrInvalidLocation)
	_, err = tr.AddDirAt(nil, "c")
	assert.ErrorIs(t, err, ErrNameConflict)
	_, err = tr.AddDirAt(nil, "..")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestTree_RemoveThenReAddAppendsAtEnd(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	_, err := tr.RemoveAt(Location{0})
	require.NoError(t, err)
	_, err = tr.AddAt(nil, "a")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c", "a"}, names(tr.Root().Children()))
}

func TestTree_LocateAndLookup(t *testing.T) {
	t.Parallel()
	tr := NewTree(NewDirItem("/r",
		NewDirItem("/r/ab", NewFileItem("/r/ab/x")),
		NewDirItem("/r/a", NewFileItem("/r/a/x")),
	))

	loc, ok := tr.Locate("/r/a/x")
	require.True(t, ok)
	assert.Equal(t, Location{1, 0}, loc)

	_, ok = tr.Locate("/r/a/y")
	assert.False(t, ok)
	_, ok = tr.Locate("/elsewhere")
	assert.False(t, ok)
	_, ok = tr.Lookup("/r")
	assert.False(t, ok)
}

func TestTree_InsertAndDelete(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	it, err := tr.Insert("/r/c/new", KindDir)
	require.NoError(t, err)
	assert.Equal(t, KindDir, it.Kind())
	_, err = tr.Insert("/r/c/new/f", KindFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "c/d", "c/new", "c/new/f"}, flatLabels(tr.Items()))

	_, err = tr.Insert("/r/missing/f", KindFile)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tr.Insert("/r/a", KindFile)
	assert.ErrorIs(t, err, ErrNameConflict)

	removed, err := tr.Delete("/r/c")
	require.NoError(t, err)
	assert.Equal(t, "/r/c", removed.Path())
	assert.Equal(t, []string{"a", "b"}, flatLabels(tr.Items()))

	_, err = tr.Delete("/r/c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTree_RenameKeepsPositionAndRewritesDescendants(t *testing.T) {
	t.Parallel()
	tr := NewTree(NewDirItem("/r",
		NewDirItem("/r/c", NewDirItem("/r/c/sub", NewFileItem("/r/c/sub/f"))),
		NewFileItem("/r/z"),
	))

	require.NoError(t, tr.Rename("/r/c", "/r/x"))
	assert.Equal(t, []string{"x", "x/sub", "x/sub/f", "z"}, flatLabels(tr.Items()))
	it, ok := tr.Lookup("/r/x/sub/f")
	require.True(t, ok)
	assert.Equal(t, "/r/x/sub/f", it.Path())

	assert.ErrorIs(t, tr.Rename("/r/x", "/r/z"), ErrNameConflict)
	assert.ErrorIs(t, tr.Rename("/r/nope", "/r/q"), ErrNotFound)
}

func TestTree_MoveAcrossDirectories(t *testing.T) {
	t.Parallel()
	tr := NewTree(NewDirItem("/r",
		NewFileItem("/r/a"),
		NewDirItem("/r/c", NewFileItem("/r/c/d")),
		NewDirItem("/r/e"),
	))

	require.NoError(t, tr.Move("/r/a", "/r/c/a"))
	assert.Equal(t, []string{"c", "c/d", "c/a", "e"}, flatLabels(tr.Items()))

	require.NoError(t, tr.Move("/r/c", "/r/e/c2"))
	assert.Equal(t, []string{"e", "e/c2", "e/c2/d", "e/c2/a"}, flatLabels(tr.Items()))
	_, ok := tr.Lookup("/r/e/c2/a")
	assert.True(t, ok)

	assert.ErrorIs(t, tr.Move("/r/e", "/r/e/c2/e"), ErrInvalidLocation)
	assert.ErrorIs(t, tr.Move("/r/missing", "/r/e/m"), ErrNotFound)
}

func TestTree_MoveNameConflictLeavesTreeUnmodified(t *testing.T) {
	t.Parallel()
	tr := NewTree(NewDirItem("/r",
		NewFileItem("/r/d"),
		NewDirItem("/r/c", NewFileItem("/r/c/d")),
	))
	before := flatLabels(tr.Items())

	assert.ErrorIs(t, tr.Move("/r/d", "/r/c/d"), ErrNameConflict)
	assert.Equal(t, before, flatLabels(tr.Items()))
	it, ok := tr.Lookup("/r/d")
	require.True(t, ok)
	assert.Equal(t, "/r/d", it.Path())
}

func TestTree_MoveIntoOwnDescendantIsRejected(t *testing.T) {
	t.Parallel()
	tr := NewTree(NewDirItem("/r",
		NewDirItem("/r/c", NewDirItem("/r/c/sub", NewFileItem("/r/c/sub/f"))),
	))
	before := flatLabels(tr.Items())

	assert.ErrorIs(t, tr.Move("/r/c", "/r/c/sub/c"), ErrInvalidLocation)
	assert.ErrorIs(t, tr.Move("/r/c", "/r/c/sub/x/c"), ErrInvalidLocation)
	assert.Equal(t, before, flatLabels(tr.Items()))
	_, ok := tr.Lookup("/r/c/sub/f")
	assert.True(t, ok)
}

func TestTree_MoveOutOfTreeDegradesToDelete(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	require.NoError(t, tr.Move("/r/a", "/tmp/elsewhere/a"))
	assert.Equal(t, []string{"b", "c", "c/d"}, flatLabels(tr.Items()))
}

func TestTree_MoveWithinParentIsRename(t *testing.T) {
	t.Parallel()
	tr := sampleTree()

	require.NoError(t, tr.Move("/r/a", "/r/aa"))
	assert.Equal(t, []string{"aa", "b", "c", "c/d"}, flatLabels(tr.Items()))
}

func TestTree_FilterIncludeThenClearRestoresProjection(t *testing.T) {
	t.Parallel()
	tr := NewTree(NewDirItem("/r",
		NewFileItem("/r/a"),
		NewDirItem("/r/c", NewFileItem("/r/c/d"), NewFileItem("/r/c/e")),
		NewDirItem("/r/f", NewFileItem("/r/f/g")),
	))
	before := tr.Items()

	tr.FilterInclude([]string{"/r/c/e"})
	assert.True(t, tr.Filtered())
	assert.Equal(t, []string{"c", "c/e"}, flatLabels(tr.Items()))
	// Filtered items keep their real locations.
	assert.Equal(t, Location{1, 1}, tr.Items()[0].Children[0].Loc)

	tr.FilterInclude([]string{"/r/f", "/r/missing"})
	assert.Equal(t, []string{"f", "f/g"}, flatLabels(tr.Items()))

	tr.ClearFilter()
	assert.False(t, tr.Filtered())
	assert.Equal(t, before, tr.Items())
}

func TestTree_FilterSurvivesMutation(t *testing.T) {
	t.Parallel()
	tr := sampleTree()
	tr.FilterInclude([]string{"/r/c/d"})

	require.NoError(t, tr.Rename("/r/c", "/r/k"))
	assert.Equal(t, []string{"k", "k/d"}, flatLabels(tr.Items()))
	assert.Equal(t, []string{"/r/k/d"}, tr.FilterPaths())

	_, err := tr.Delete("/r/k/d")
	require.NoError(t, err)
	assert.Empty(t, tr.Items())
	assert.True(t, tr.Filtered())
}

func TestTree_RebuildHookRunsAfterEveryMutation(t *testing.T) {
	t.Parallel()
	var calls []int
	tr := NewTree(sampleDir(), WithRebuildHook(func(_ time.Duration, nodes int) {
		calls = append(calls, nodes)
	}))
	_, err := tr.RemoveAt(Location{0})
	require.NoError(t, err)
	_, err = tr.AddAt(Location{1}, "x")
	require.NoError(t, err)

	assert.Equal(t, []int{4, 3, 4}, calls)
	assert.Equal(t, 4, tr.Count())
	assert.Equal(t, []string{"/r/b", "/r/c", "/r/c/d", "/r/c/x"}, tr.Paths())
}

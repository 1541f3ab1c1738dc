package marks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "marks.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestStore_AddListRemove(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.Add(ctx, "/r", "/r/b"))
	require.NoError(t, s.Add(ctx, "/r", "/r/a"))
	require.NoError(t, s.Add(ctx, "/r", "/r/b"))
	require.NoError(t, s.Add(ctx, "/other", "/other/x"))

	got, err := s.List(ctx, "/r")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "/r/b", got[0].Path)
	assert.Equal(t, "/r/a", got[1].Path)
	assert.True(t, got[0].CreatedAt.Before(got[1].CreatedAt))

	require.NoError(t, s.Remove(ctx, "/r", "/r/b"))
	err = s.Remove(ctx, "/r", "/r/b")
	assert.True(t, errors.Is(err, ErrNotMarked))

	got, err = s.List(ctx, "/r")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/r/a", got[0].Path)
}

func TestStore_Toggle(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	on, err := s.Toggle(ctx, "/r", "/r/a")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle(ctx, "/r", "/r/a")
	require.NoError(t, err)
	assert.False(t, on)

	has, err := s.Has(ctx, "/r", "/r/a")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_RebaseAndForget(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	for _, p := range []string{"/r/c", "/r/c/d", "/r/cc", "/r/e"} {
		require.NoError(t, s.Add(ctx, "/r", p))
	}
	require.NoError(t, s.Rebase(ctx, "/r", "/r/c", "/r/z"))

	got, err := s.List(ctx, "/r")
	require.NoError(t, err)
	var paths []string
	for _, m := range got {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"/r/z", "/r/z/d", "/r/cc", "/r/e"}, paths)

	require.NoError(t, s.Forget(ctx, "/r", "/r/z"))
	got, err = s.List(ctx, "/r")
	require.NoError(t, err)
	paths = paths[:0]
	for _, m := range got {
		paths = append(paths, m.Path)
	}
	assert.Equal(t, []string{"/r/cc", "/r/e"}, paths)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "marks.sqlite")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, "/r", "/r/a"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	has, err := s.Has(ctx, "/r", "/r/a")
	require.NoError(t, err)
	assert.True(t, has)
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "terms.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStoreSetGetRemove(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "searchTerm")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "searchTerm", "alien"))
	require.NoError(t, s.Set(ctx, "searchTerm", "aliens"))

	v, ok, err := s.Get(ctx, "searchTerm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "aliens", v)

	require.NoError(t, s.Remove(ctx, "searchTerm"))
	require.NoError(t, s.Remove(ctx, "searchTerm"))
	_, ok, err = s.Get(ctx, "searchTerm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreEmptyValueIsPresent(t *testing.T) {
	s, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "searchTerm", ""))
	v, ok, err := s.Get(ctx, "searchTerm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestStoreSurvivesReopen(t *testing.T) {
	s, path := openTemp(t)
	ctx := context.Background()

	scoped := termstore.Scope(s, "local")
	require.NoError(t, scoped.Set(ctx, termstore.DefaultKey, "heat"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	v, ok, err := termstore.Scope(reopened, "local").Get(ctx, termstore.DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "heat", v)

	keys, err := reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"local:searchTerm"}, keys)
	assert.NoError(t, reopened.Ping(ctx))
}

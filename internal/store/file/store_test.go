package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreMissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "terms.toml"))
	require.NoError(t, err)

	_, ok, err := s.Get(context.Background(), "searchTerm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "terms.toml")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "local:searchTerm", "blade runner"))
	require.NoError(t, s.Set(ctx, "other:searchTerm", ""))

	reopened, err := Open(path)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "local:searchTerm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "blade runner", v)

	v, ok, err = reopened.Get(ctx, "other:searchTerm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)

	keys, err := reopened.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"local:searchTerm", "other:searchTerm"}, keys)
}

func TestStoreRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "missing"))

	reopened, err := Open(path)
	require.NoError(t, err)
	_, ok, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, reopened.Ping(ctx))
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestStoreRejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "sid:searchTerm", "alien"))

	err = s.Set(ctx, "sid:searchTerm", "bad\xffutf8")
	require.ErrorIs(t, err, ErrInvalidUTF8)

	v, ok, err := s.Get(ctx, "sid:searchTerm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alien", v, "previous value must survive")

	reopened, err := Open(path)
	require.NoError(t, err, "file must stay readable")
	v, _, err = reopened.Get(ctx, "sid:searchTerm")
	require.NoError(t, err)
	assert.Equal(t, "alien", v)
}

func TestStoreRoundTripsControlCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	for _, term := range []string{"line\nbreak", "tab\there", `quote " and \ slash`, "héllo wörld"} {
		require.NoError(t, s.Set(ctx, "k", term))

		reopened, err := Open(path)
		require.NoError(t, err)
		v, ok, err := reopened.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, term, v)
	}
}

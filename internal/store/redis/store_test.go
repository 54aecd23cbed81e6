package redis

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, 0)

	_, ok, err := s.Get(ctx, termstore.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, termstore.DefaultKey, "batman"))
	v, ok, err := s.Get(ctx, termstore.DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "batman", v)

	raw, err := mr.Get("marquee:term:searchTerm")
	require.NoError(t, err)
	assert.Equal(t, "batman", raw)

	require.NoError(t, s.Remove(ctx, termstore.DefaultKey))
	_, ok, err = s.Get(ctx, termstore.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("marquee:term:searchTerm"))
}

func TestStore_EmptyTermIsStored(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	require.NoError(t, s.Set(ctx, termstore.DefaultKey, ""))
	v, ok, err := s.Get(ctx, termstore.DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	require.NoError(t, s.Set(ctx, "k", "v"))
	assert.Equal(t, time.Hour, mr.TTL("marquee:term:k"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ScopedKeysAndListing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, 0)

	require.NoError(t, termstore.Scope(s, "sess-a").Set(ctx, termstore.DefaultKey, "heat"))
	require.NoError(t, termstore.Scope(s, "sess-b").Set(ctx, termstore.DefaultKey, "ronin"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"sess-a:searchTerm", "sess-b:searchTerm"}, keys)
}

func TestStore_PingFailsWhenServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, 0)

	require.NoError(t, s.Ping(ctx))
	mr.Close()
	assert.Error(t, s.Ping(ctx))
}

func TestExtractTermKey(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "marquee:term:searchTerm", want: "searchTerm", wantOK: true},
		{in: "marquee:term:", wantOK: false},
		{in: "other:searchTerm", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ExtractTermKey(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractTermKey(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

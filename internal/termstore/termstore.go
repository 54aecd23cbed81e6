// Package termstore defines the persistent term store port: a small
// key/value store remembering the last search term across reloads.
package termstore

import (
	"context"
	"strings"
)

// DefaultKey is the fixed key under which the last search term is kept.
const DefaultKey = "searchTerm"

// Store is a last-write-wins key/value store.
//
// Get reports ok=false when the key is absent. Remove on an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// scoped prefixes every key with a scope (a browser session, the local terminal).
type scoped struct {
	store Store
	scope string
}

// Scope returns a view of s whose keys live under scope.
// An empty scope returns s unchanged.
func Scope(s Store, scope string) Store {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return s
	}
	return &scoped{store: s, scope: scope}
}

// ScopedKey is the key a scoped store uses for key.
func ScopedKey(scope, key string) string {
	return scope + ":" + key
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, ScopedKey(s.scope, key))
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, ScopedKey(s.scope, key), value)
}

func (s *scoped) Remove(ctx context.Context, key string) error {
	return s.store.Remove(ctx, ScopedKey(s.scope, key))
}

// Package file persists search terms in a TOML file, one key per line.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

// ErrInvalidUTF8 is returned for keys or values TOML cannot hold.
var ErrInvalidUTF8 = errors.New("term is not valid UTF-8")

var (
	_ termstore.Store  = (*Store)(nil)
	_ termstore.Pinger = (*Store)(nil)
	_ termstore.Lister = (*Store)(nil)
)

// Store keeps the whole file in memory and rewrites it on every change.
type Store struct {
	mu    sync.Mutex
	path  string
	terms map[string]string
}

// Open loads path if it exists. A missing file is an empty store.
func Open(path string) (*Store, error) {
	resolved, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand term file path: %w", err)
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return nil, fmt.Errorf("resolve term file path: %w", err)
	}

	s := &Store{path: resolved, terms: make(map[string]string)}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read term file: %w", err)
	}
	if err := toml.Unmarshal(data, &s.terms); err != nil {
		return nil, fmt.Errorf("parse term file: %w", err)
	}
	if s.terms == nil {
		s.terms = make(map[string]string)
	}
	return s, nil
}

// Path returns the resolved file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.terms[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if !utf8.ValidString(key) || !utf8.ValidString(value) {
		return fmt.Errorf("set %q: %w", key, ErrInvalidUTF8)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.terms[key]
	s.terms[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.terms[key] = prev
		} else {
			delete(s.terms, key)
		}
		return err
	}
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.terms[key]
	if !had {
		return nil
	}
	delete(s.terms, key)
	if err := s.flush(); err != nil {
		s.terms[key] = prev
		return err
	}
	return nil
}

// Ping checks that the directory holding the file is reachable.
func (s *Store) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.terms))
	for k := range s.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// flush writes to a temp file then renames it over the target. Callers hold mu.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create term dir: %w", err)
	}
	data, err := toml.Marshal(s.terms)
	if err != nil {
		return fmt.Errorf("marshal terms: %w", err)
	}
	// The file must parse back, or the next Open fails.
	var check map[string]string
	if err := toml.Unmarshal(data, &check); err != nil {
		return fmt.Errorf("verify term file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write term file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace term file: %w", err)
	}
	return nil
}

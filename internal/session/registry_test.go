package session

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/screen"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

type stubCatalog struct{}

func (stubCatalog) SearchTitles(context.Context, string) (domain.SearchResult, error) {
	return domain.SearchResult{Movies: []domain.MovieSummary{{ID: "tt1", Title: "One"}}}, nil
}

func (stubCatalog) LookupByID(context.Context, string) (domain.MovieDetail, error) {
	return domain.MovieDetail{}, nil
}

func newScreen() *screen.Search {
	return screen.NewSearch(context.Background(), stubCatalog{}, termstore.NewMemory(), termstore.DefaultKey, logger.Nop())
}

// isUnmounted reports whether s ignores input, which only an unmounted screen does.
func isUnmounted(s *screen.Search) bool {
	s.InputChange("probe")
	return s.Snapshot().Term != "probe"
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.Count() != 0 {
		t.Errorf("NewRegistry() should start empty, got %v", r.Count())
	}
}

func TestReplaceUnmountsPrevious(t *testing.T) {
	r := NewRegistry()
	first := newScreen()
	second := newScreen()

	r.Replace("sid", first)
	r.Replace("sid", second)

	got, ok := r.Get("sid")
	if !ok || got != second {
		t.Errorf("Get() = %p, want %p", got, second)
	}
	if !isUnmounted(first) {
		t.Error("Replace() should unmount the previous screen")
	}
	if isUnmounted(second) {
		t.Error("Replace() should not unmount the new screen")
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %v, want 1", r.Count())
	}
}

func TestGetOrCreate(t *testing.T) {
	r := NewRegistry()
	calls := 0
	create := func() *screen.Search {
		calls++
		return newScreen()
	}

	a, created := r.GetOrCreate("sid", create)
	if !created {
		t.Error("GetOrCreate() first call should create")
	}
	b, created := r.GetOrCreate("sid", create)
	if created {
		t.Error("GetOrCreate() second call should reuse")
	}
	if a != b {
		t.Error("GetOrCreate() should return the same screen")
	}
	if calls != 1 {
		t.Errorf("create called %v times, want 1", calls)
	}
}

func TestSweep(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	old := newScreen()
	fresh := newScreen()
	r.Replace("old", old)
	now = now.Add(20 * time.Minute)
	r.Replace("fresh", fresh)
	now = now.Add(15 * time.Minute)

	dropped := r.Sweep(30 * time.Minute)

	if len(dropped) != 1 || dropped[0] != "old" {
		t.Errorf("Sweep() dropped %v, want [old]", dropped)
	}
	if !isUnmounted(old) {
		t.Error("Sweep() should unmount idle screens")
	}
	if _, ok := r.Get("fresh"); !ok {
		t.Error("Sweep() removed a live session")
	}
	if !r.GetLastSweep().Equal(now) {
		t.Errorf("GetLastSweep() = %v, want %v", r.GetLastSweep(), now)
	}
}

func TestGetRefreshesLastSeen(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	r.Replace("sid", newScreen())
	now = now.Add(25 * time.Minute)
	r.Get("sid")
	now = now.Add(25 * time.Minute)

	if dropped := r.Sweep(30 * time.Minute); len(dropped) != 0 {
		t.Errorf("Sweep() dropped %v, want none", dropped)
	}
}

func TestClose(t *testing.T) {
	r := NewRegistry()
	screens := []*screen.Search{newScreen(), newScreen()}
	r.Replace("a", screens[0])
	r.Replace("b", screens[1])

	r.Close()

	if r.Count() != 0 {
		t.Errorf("Count() after Close() = %v, want 0", r.Count())
	}
	for i, s := range screens {
		if !isUnmounted(s) {
			t.Errorf("screen %d not unmounted", i)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	ids := []string{"a", "b", "c", "d"}

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ids[i%len(ids)]
			r.GetOrCreate(id, newScreen)
			r.Get(id)
			r.Count()
		}(i)
	}
	wg.Wait()

	got := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.Get(id); ok {
			got = append(got, id)
		}
	}
	sort.Strings(got)
	if len(got) != len(ids) {
		t.Errorf("sessions = %v, want %v", got, ids)
	}
}

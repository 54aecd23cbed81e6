package routes

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/marquee/internal/httpserver/deps"
	"github.com/MrSnakeDoc/marquee/internal/logger"
)

func mounted(t *testing.T, d deps.Deps) []string {
	t.Helper()
	r := chi.NewRouter()
	RegisterAll(r, d)

	var got []string
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+route)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	sort.Strings(got)
	return got
}

func TestNames(t *testing.T) {
	want := []string{"ops", "pages", "static"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegisterAllMountsEveryGroup(t *testing.T) {
	got := mounted(t, deps.Deps{Logger: logger.Nop(), BasePath: "/movies/"})

	for _, want := range []string{
		"GET /healthz",
		"GET /readyz",
		"GET /infra",
		"GET /movies/",
		"GET /movies",
		"GET /movies/{imdbID}",
		"POST /movies/search",
		"POST /movies/clear",
		"GET /favicon.ico",
	} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("route %q not mounted; have %v", want, got)
		}
	}
}

func TestGroupMiddlewareStaysInGroup(t *testing.T) {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{
		Logger:       logger.Nop(),
		BasePath:     "/",
		AllowedCIDRS: []string{"10.0.0.0/8"},
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("ops from outside allow list status = %v, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/favicon.ico", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("favicon status = %v, want 204", rec.Code)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() of an existing name should panic")
		}
	}()
	Register(Group{Name: "ops", Routes: func(chi.Router, deps.Deps) {}})
}

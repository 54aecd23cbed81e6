package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/session"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{host: "movies.example.com", pattern: "movies.example.com", want: true},
		{host: "a.example.com", pattern: "*.example.com", want: true},
		{host: "example.com", pattern: "*.example.com", want: false},
		{host: "evil.com", pattern: "movies.example.com", want: false},
	}

	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"Movies.example.com"}, logger.Nop())(ok)

	tests := []struct {
		host string
		want int
	}{
		{host: "movies.example.com", want: http.StatusOK},
		{host: "movies.example.com:8080", want: http.StatusOK},
		{host: "other.example.com", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.Host = tt.host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		if rec.Code != tt.want {
			t.Errorf("EnforceHost(%q) status = %v, want %v", tt.host, rec.Code, tt.want)
		}
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.Nop())(ok)

	tests := []struct {
		remote string
		want   int
	}{
		{remote: "10.1.1.1:5555", want: http.StatusOK},
		{remote: "192.0.2.1:5555", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/healthz", nil)
		r.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		if rec.Code != tt.want {
			t.Errorf("AllowOnlyCIDRS(%q) status = %v, want %v", tt.remote, rec.Code, tt.want)
		}
	}

	passthrough := AllowOnlyCIDRS(nil, false, logger.Nop())(ok)
	rec := httptest.NewRecorder()
	passthrough.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("empty allow list status = %v, want 200", rec.Code)
	}
}

func TestCatalogQuota(t *testing.T) {
	h := CatalogQuota(QuotaConfig{Burst: 2, PerMinute: 1, Logger: logger.Nop()})(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/search", nil))
		codes = append(codes, rec.Code)
		if i == 2 && rec.Header().Get("Retry-After") != "60" {
			t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %v, want %v", i, codes[i], want[i])
		}
	}

	// Another client has its own allowance.
	r := httptest.NewRequest("POST", "/search", nil)
	r.RemoteAddr = "198.51.100.7:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %v, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "1" {
		t.Errorf("X-RateLimit-Remaining = %q, want 1", got)
	}
}

func TestQuotaRegainsOverTime(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	q := newQuota(QuotaConfig{Burst: 1, PerMinute: 2})
	q.now = func() time.Time { return now }

	if ok, _, _ := q.take("a"); !ok {
		t.Fatal("first query should pass")
	}
	ok, _, wait := q.take("a")
	if ok {
		t.Fatal("second query should be rejected")
	}
	if wait != 30*time.Second {
		t.Errorf("wait = %v, want 30s", wait)
	}

	now = now.Add(30 * time.Second)
	if ok, _, _ := q.take("a"); !ok {
		t.Error("query after refill should pass")
	}
}

func TestQuotaForgetsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	q := newQuota(QuotaConfig{Burst: 1, PerMinute: 1, IdleTTL: time.Minute})
	q.now = func() time.Time { return now }
	q.lastSweep = now

	q.take("a")
	now = now.Add(2 * time.Minute)
	q.take("b")

	if _, found := q.clients["a"]; found {
		t.Error("idle client should have been swept")
	}
	if len(q.clients) != 1 {
		t.Errorf("clients = %d, want 1", len(q.clients))
	}
}

func TestSessionIssuesCookie(t *testing.T) {
	var seen string
	h := Session("sid", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %v, want 1", len(cookies))
	}
	if cookies[0].Value != seen || !session.ValidID(seen) {
		t.Errorf("cookie = %q, context id = %q", cookies[0].Value, seen)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
}

func TestSessionKeepsValidCookie(t *testing.T) {
	id := session.NewID()
	var seen string
	h := Session("sid", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFrom(r.Context())
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if seen != id {
		t.Errorf("session id = %q, want %q", seen, id)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("a valid cookie should not be reissued")
	}
}

func TestSessionReplacesForgedCookie(t *testing.T) {
	var seen string
	h := Session("sid", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.IDFrom(r.Context())
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), r)

	if seen == "../../etc" || !session.ValidID(seen) {
		t.Errorf("session id = %q, want a fresh id", seen)
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: map[string]int64{}}
}

func (f *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.fail {
		return 0, errors.New("redis down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func limitedHandler(store rateLimiterStore, limit int) http.Handler {
	policy := NewCounterRateLimitPolicy("view", time.Minute, limit)
	return CounterRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCounterRateLimitBlocksOverLimit(t *testing.T) {
	handler := limitedHandler(newFakeLimiterStore(), 2)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/art/view/abc", nil)
		req.RemoteAddr = "203.0.113.7:41000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if send() != http.StatusOK || send() != http.StatusOK {
		t.Fatal("requests within the limit should pass")
	}
	if got := send(); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", got)
	}
}

func TestCounterRateLimitKeysByUserWhenPresent(t *testing.T) {
	store := newFakeLimiterStore()
	handler := limitedHandler(store, 1)

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/art/view/abc", nil)
		req.RemoteAddr = "203.0.113.7:41000"
		if user != "" {
			req = req.WithContext(WithUserID(req.Context(), user))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if send("u1") != http.StatusOK {
		t.Fatal("first request for u1 should pass")
	}
	if send("u2") != http.StatusOK {
		t.Fatal("distinct user must have an independent window")
	}
	if send("u1") != http.StatusTooManyRequests {
		t.Fatal("second request for u1 should be blocked")
	}
}

func TestCounterRateLimitFailsOpenOnStoreError(t *testing.T) {
	store := newFakeLimiterStore()
	store.fail = true
	handler := limitedHandler(store, 1)

	req := httptest.NewRequest(http.MethodPost, "/art/view/abc", nil)
	req.RemoteAddr = "203.0.113.7:41000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("store outage should fail open, got %d", rr.Code)
	}
}

func TestCounterRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewCounterRateLimitPolicy("view", 0, 0)
	handler := CounterRateLimit(policy, newFakeLimiterStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/art/view/abc", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("disabled policy must never block, got %d", rr.Code)
		}
	}
}

func TestIdentityMiddlewareLiftsHeader(t *testing.T) {
	var seen string
	handler := Identity(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/art/abc/toggle-like", nil)
	req.Header.Set("X-User-Id", " user-7 ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "user-7" {
		t.Fatalf("expected trimmed user id in context, got %q", seen)
	}

	seen = "sentinel"
	req = httptest.NewRequest(http.MethodPost, "/art/abc/toggle-like", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "" {
		t.Fatalf("missing header should leave context empty, got %q", seen)
	}
}

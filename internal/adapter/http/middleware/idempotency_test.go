package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	claimed map[string][]byte
	updates int
	deletes int
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{claimed: make(map[string][]byte)}
}

func (s *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if cached, ok := s.claimed[key]; ok {
		return true, cached, nil
	}
	s.claimed[key] = nil
	return false, nil, nil
}

func (s *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.claimed[key] = response
	s.updates++
	return nil
}

func (s *fakeIdempotencyStore) Delete(ctx context.Context, key string) error {
	delete(s.claimed, key)
	s.deletes++
	return nil
}

func okHandler(body string, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func TestIdempotencyMiddleware_CachesSuccessfulResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)
	h := mw.Wrap(okHandler(`{"id":"tx-1"}`, http.StatusCreated))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader("{}"))
	first.Header.Set(IdempotencyKeyHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if store.updates != 1 {
		t.Fatalf("expected one cache update, got %d", store.updates)
	}

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader("{}"))
	replay.Header.Set(IdempotencyKeyHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, replay)

	if rec.Body.String() != `{"id":"tx-1"}` {
		t.Fatalf("expected cached body, got %q", rec.Body.String())
	}
	if rec.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected replay header on cached response")
	}
}

func TestIdempotencyMiddleware_InFlightConflicts(t *testing.T) {
	store := newFakeIdempotencyStore()
	store.claimed["busy"] = nil

	mw := NewIdempotencyMiddleware(store, time.Minute)
	h := mw.Wrap(okHandler("ok", http.StatusOK))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	req.Header.Set(IdempotencyKeyHeader, "busy")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for in-flight key, got %d", rec.Code)
	}
}

func TestIdempotencyMiddleware_DoesNotCacheFailures(t *testing.T) {
	store := newFakeIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)
	h := mw.Wrap(okHandler("boom", http.StatusUnprocessableEntity))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	req.Header.Set(IdempotencyKeyHeader, "fail")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if store.updates != 0 {
		t.Fatalf("failed responses must not be cached, got %d updates", store.updates)
	}
	if store.deletes != 1 {
		t.Fatalf("failed attempt must release its claim, got %d deletes", store.deletes)
	}
}

func TestIdempotencyMiddleware_RetryAfterFailureReExecutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	calls := 0
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"tx-2"}`))
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	first.Header.Set(IdempotencyKeyHeader, "retry-me")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected first attempt to fail with 422, got %d", rec.Code)
	}

	retry := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	retry.Header.Set(IdempotencyKeyHeader, "retry-me")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, retry)

	if rec.Code != http.StatusCreated {
		t.Fatalf("retry after failure must re-execute, got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, got %d", calls)
	}
	if store.updates != 1 {
		t.Fatalf("only the successful attempt should be cached, got %d updates", store.updates)
	}
}

func TestIdempotencyMiddleware_SkipsReadsAndMissingKey(t *testing.T) {
	store := newFakeIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute)

	called := 0
	h := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
	}))

	get := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	get.Header.Set(IdempotencyKeyHeader, "ignored")
	h.ServeHTTP(httptest.NewRecorder(), get)

	post := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	h.ServeHTTP(httptest.NewRecorder(), post)

	if called != 2 {
		t.Fatalf("expected both requests to pass through, got %d", called)
	}
	if len(store.claimed) != 0 {
		t.Fatalf("store should not be touched, got %d keys", len(store.claimed))
	}
}

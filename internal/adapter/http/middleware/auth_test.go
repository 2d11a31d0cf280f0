package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAccount_MissingHeader(t *testing.T) {
	h := RequireAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without identity")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAccount_PropagatesAccountID(t *testing.T) {
	var got string
	h := RequireAccount(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = AccountFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	req.Header.Set(AccountIDHeader, "acc-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "acc-42" {
		t.Fatalf("expected acc-42 in context, got %q", got)
	}
}

package middleware

import (
	"context"
	"net/http"
)

// ContextKey is the type for context keys
type ContextKey string

// AccountContextKey is the context key for the calling account ID.
const AccountContextKey ContextKey = "account_id"

// AccountIDHeader carries the caller's account identity. Identity is
// established upstream (gateway or session service); this service trusts
// the header and only requires its presence.
const AccountIDHeader = "X-Account-ID"

// RequireAccount extracts the calling account from the identity header
// and rejects requests without one.
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := r.Header.Get(AccountIDHeader)
		if accountID == "" {
			http.Error(w, "missing account identity", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AccountContextKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountFromContext extracts the calling account ID from context.
func AccountFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountContextKey).(string)
	return accountID, ok && accountID != ""
}

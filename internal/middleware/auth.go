// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"sitefolio/internal/token"
)

// ctxKey is a private type for context keys in this package.
type ctxKey int

const claimsKey ctxKey = iota

// ClaimsFromCtx returns the verified token claims stored by RequireToken,
// or nil if the request was not authenticated.
func ClaimsFromCtx(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsKey).(*token.Claims)
	return claims
}

// BearerToken extracts the raw token from the Authorization header.
// Returns "" when the header is missing or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireToken guards admin routes. Requests without a valid, unrevoked
// bearer token get a 401 envelope; valid claims are stored in the request
// context for handlers.
func RequireToken(manager *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			claims, err := manager.Verify(r.Context(), raw)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Session expired. Please log in again.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeJSONError writes the API error envelope. Middleware cannot import
// the handlers package (it would cycle), so the envelope shape is repeated
// here.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders sets the baseline hardening headers on every response,
// the browser-facing ones included even though the API only serves JSON.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// No MIME-sniffing, no framing from other origins.
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// The legacy XSS filter is off; CSP supersedes it.
		h.Set("X-XSS-Protection", "0")

		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Opt out of FLoC cohort calculations.
		h.Set("Permissions-Policy", "interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}

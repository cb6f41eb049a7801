// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// showcase API. Routes split into a public group, a rate-limited auth
// group, and a token-protected admin group.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sitefolio/internal/handlers"
	"sitefolio/internal/middleware"
	"sitefolio/internal/token"
)

// New creates the configured Chi router with all middleware and route
// groups wired up.
func New(tokens *token.Manager, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	// Public gallery — no auth.
	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", public.ListEntries)
		r.Get("/categories", public.ListCategories)

		// Login is rate-limited per client IP to slow password guessing.
		r.Route("/auth", func(r chi.Router) {
			limiter := middleware.NewRateLimiter(10, time.Minute)
			r.With(limiter.Middleware).Post("/login", auth.Login)
			r.Post("/verify", auth.Verify)
			r.Post("/logout", auth.Logout)
		})

		// Management surface — every route requires a live bearer token.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireToken(tokens))

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", admin.ListEntries)
				r.Post("/", admin.CreateEntry)
				r.Put("/{category}/{serial}", admin.UpdateEntry)
				r.Delete("/{category}/{serial}", admin.DeleteEntry)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CreateCategory)
				r.Put("/", admin.RenameCategory)
				r.Delete("/{id}", admin.DeleteCategory)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

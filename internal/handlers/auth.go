// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"sitefolio/internal/middleware"
	"sitefolio/internal/store"
	"sitefolio/internal/token"
)

// Auth groups the login and logout handlers.
type Auth struct {
	users  *store.UserStore
	tokens *token.Manager
}

// NewAuth creates the auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Manager) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string `json:"token"`
	ExpiresAt   int64  `json:"expiresAt"`
	DisplayName string `json:"displayName"`
}

// Login verifies credentials and issues a bearer token. The response for a
// bad username and a bad password is identical, so the endpoint does not
// leak which accounts exist.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, err := a.users.FindByUsername(req.Username)
	if err != nil {
		slog.Error("find user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not log in. Please try again.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	session, err := a.tokens.Issue(r.Context(), user)
	if err != nil {
		slog.Error("issue token failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not log in. Please try again.")
		return
	}

	slog.Info("user logged in", "username", user.Username)
	respondMessage(w, "Logged in.", loginResponse{
		Token:       session.Token,
		ExpiresAt:   session.ExpiresAt.Unix(),
		DisplayName: user.DisplayName,
	})
}

// Verify reports whether the presented token is still live, so a surface
// can re-check its session on regaining visibility.
func (a *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	raw := middleware.BearerToken(r)
	if raw == "" {
		respondError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	claims, err := a.tokens.Verify(r.Context(), raw)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Session expired. Please log in again.")
		return
	}
	respondOK(w, map[string]string{"username": claims.Username})
}

// Logout revokes the presented token. Always succeeds: a missing or
// already-revoked token leaves the client in the same logged-out state.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := middleware.BearerToken(r); raw != "" {
		if err := a.tokens.Revoke(r.Context(), raw); err != nil {
			slog.Warn("token revoke failed", "error", err)
		}
	}
	respondMessage(w, "Logged out.", nil)
}

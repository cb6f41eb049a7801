// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: public and admin entry listing,
// entry and category CRUD with image upload, and bearer-token auth. Every
// response uses the {success, message, data} envelope.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"sitefolio/internal/forms"
)

// Envelope is the uniform API response structure.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respond writes an envelope with the given status code.
func respond(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondOK writes a success envelope with data.
func respondOK(w http.ResponseWriter, data any) {
	respond(w, http.StatusOK, Envelope{Success: true, Message: "success", Data: data})
}

// respondMessage writes a success envelope with a custom message.
func respondMessage(w http.ResponseWriter, message string, data any) {
	respond(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// respondError writes a failure envelope. The message is shown to users
// verbatim, so it must be phrased for them, not for operators.
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, Envelope{Success: false, Message: message})
}

// respondFieldErrors writes a failure envelope carrying per-field
// validation messages, so forms can mark every failing input at once.
func respondFieldErrors(w http.ResponseWriter, errs forms.FieldErrors) {
	respond(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Please correct the highlighted fields.",
		Data:    map[string]forms.FieldErrors{"errors": errs},
	})
}

// decodeJSON parses a JSON request body into dst, limiting body size.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sitefolio/internal/forms"
)

// categoryRequest is the JSON body for category create and rename.
type categoryRequest struct {
	Name    string `json:"name" validate:"required"`
	NewName string `json:"newName,omitempty"`
}

// CreateCategory provisions a new category. The category's identifier
// stays stable across renames, so entries never migrate on a rename.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if msg := forms.ValidateCategoryName(name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.categories.FindByName(name)
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not save the category. Please try again.")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "A category with this name already exists.")
		return
	}

	category, err := a.categories.Create(name)
	if err != nil {
		slog.Error("create category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not save the category. Please try again.")
		return
	}

	respond(w, http.StatusCreated, Envelope{Success: true, Message: "Category created.", Data: category})
}

// RenameCategory changes a category's display name in place. Entries keep
// their serials and listing positions.
func (a *Admin) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	original := strings.TrimSpace(req.Name)
	newName := strings.TrimSpace(req.NewName)
	if original == "" {
		respondError(w, http.StatusBadRequest, "Category name is required.")
		return
	}
	if msg := forms.ValidateCategoryName(newName); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if newName == original {
		respondMessage(w, "Category unchanged.", nil)
		return
	}

	taken, err := a.categories.FindByName(newName)
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not rename the category. Please try again.")
		return
	}
	if taken != nil {
		respondError(w, http.StatusConflict, "A category with this name already exists.")
		return
	}

	if err := a.categories.Rename(original, newName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Category not found.")
			return
		}
		slog.Error("rename category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not rename the category. Please try again.")
		return
	}

	a.invalidateLists(r)
	respondMessage(w, "Category renamed.", nil)
}

// DeleteCategory removes a category plus every entry in it, including
// their stored images. Image cleanup runs before the cascading delete so
// the keys are still known, and is best-effort either way.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category reference.")
		return
	}

	category, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("find category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not delete the category. Please try again.")
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found.")
		return
	}

	keys, err := a.categories.ImageKeys(id)
	if err != nil {
		slog.Error("collect image keys failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not delete the category. Please try again.")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not delete the category. Please try again.")
		return
	}

	if a.storage != nil {
		for _, key := range keys {
			if err := a.storage.Delete(r.Context(), key); err != nil {
				slog.Warn("image cleanup failed", "key", key, "error", err)
			}
		}
	}

	a.invalidateLists(r)
	respondMessage(w, "Category and its entries deleted.", nil)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sitefolio/internal/cache"
	"sitefolio/internal/models"
	"sitefolio/internal/storage"
	"sitefolio/internal/store"
)

// PageSize is the fixed page size for both surfaces.
const PageSize = models.PageSize

// Public groups the unauthenticated gallery handlers.
type Public struct {
	entries    *store.EntryStore
	categories *store.CategoryStore
	listCache  *cache.ListCache
	storage    *storage.Client
}

// NewPublic creates the public handler group.
func NewPublic(entries *store.EntryStore, categories *store.CategoryStore, listCache *cache.ListCache, storageClient *storage.Client) *Public {
	return &Public{
		entries:    entries,
		categories: categories,
		listCache:  listCache,
		storage:    storageClient,
	}
}

// listParams parses the shared list query parameters. The page size is
// fixed; a client-supplied size is accepted but clamped to the fixed value
// so pagination math stays consistent across surfaces.
func listParams(r *http.Request) (models.EntryFilter, int, map[string]string, string) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	f := models.EntryFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}

	// Dates must be well-formed to participate in filtering.
	if s := q.Get("startDate"); s != "" {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return f, page, nil, "Invalid start date."
		}
		f.StartDate = s
	}
	if s := q.Get("endDate"); s != "" {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return f, page, nil, "Invalid end date."
		}
		f.EndDate = s
	}

	cacheParams := map[string]string{
		"page":      strconv.Itoa(page),
		"size":      strconv.Itoa(PageSize),
		"search":    f.Search,
		"startDate": f.StartDate,
		"endDate":   f.EndDate,
		"category":  f.Category,
	}
	return f, page, cacheParams, ""
}

// serveEntryList serves one page of entries for a surface, consulting the
// list cache first. The public surface strips storage keys from each entry.
func serveEntryList(w http.ResponseWriter, r *http.Request, surface string, entries *store.EntryStore, listCache *cache.ListCache, storageClient *storage.Client) {
	f, page, cacheParams, errMsg := listParams(r)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	key := cache.Key(surface, cacheParams)
	if payload, ok := listCache.Get(r.Context(), key); ok {
		respondOK(w, json.RawMessage(payload))
		return
	}

	result, err := entries.List(f, page, PageSize)
	if err != nil {
		slog.Error("list entries failed", "surface", surface, "error", err)
		respondError(w, http.StatusInternalServerError, "Could not load entries. Please try again.")
		return
	}

	for i := range result.Entries {
		e := &result.Entries[i]
		if storageClient != nil {
			e.ImageURL = storageClient.FileURL(e.ImageKey)
			e.ThumbURL = storageClient.FileURL(e.ThumbKey)
		}
		if surface == "public" {
			*e = e.PublicView()
		}
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Error("list entries encode failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not load entries. Please try again.")
		return
	}
	listCache.Set(r.Context(), key, payload)

	respondOK(w, json.RawMessage(payload))
}

// ListEntries serves the public gallery list.
func (p *Public) ListEntries(w http.ResponseWriter, r *http.Request) {
	serveEntryList(w, r, "public", p.entries, p.listCache, p.storage)
}

// ListCategories returns all categories with entry counts.
func (p *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Could not load categories. Please try again.")
		return
	}
	respondOK(w, items)
}

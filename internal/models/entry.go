// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain records shared between stores, handlers,
// and the API client: showcased entries, their categories, and admin users.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Field limits for entry validation.
const (
	EntryNameMin        = 2
	EntryNameMax        = 100
	EntryDescriptionMin = 10
	EntryDescriptionMax = 1000

	// MaxImageSize is the largest accepted entry image (5 MB).
	MaxImageSize = 5 << 20

	// PageSize is the fixed page size for both listing surfaces.
	PageSize = 12
)

// AllowedImageTypes defines MIME types accepted for entry images.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Entry is one showcased website. Entries live inside a category partition
// and are addressed by (partition, serial); the serial is unique within its
// partition and stable across edits.
type Entry struct {
	PartitionID uuid.UUID `json:"partitionId"`
	Serial      int       `json:"serial"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	ThumbURL    string    `json:"thumbUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Admin-only fields, omitted from the public surface.
	ImageKey string `json:"imageKey,omitempty"`
	ThumbKey string `json:"thumbKey,omitempty"`
}

// PublicView returns a copy of the entry with admin-only fields stripped.
func (e Entry) PublicView() Entry {
	e.ImageKey = ""
	e.ThumbKey = ""
	return e
}

// EntryFilter holds the active list filters. Zero values mean "not filtered".
// StartDate and EndDate bound CreatedAt inclusively; for a single-day filter
// both carry the same date.
type EntryFilter struct {
	Search    string
	StartDate string // "2006-01-02"
	EndDate   string // "2006-01-02"
	Category  string
}

// Active reports whether any filter is set.
func (f EntryFilter) Active() bool {
	return f.Search != "" || f.StartDate != "" || f.EndDate != "" || f.Category != ""
}

// EntryPage is one page of list results along with the totals the
// pagination controller needs.
type EntryPage struct {
	Entries    []Entry `json:"entries"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Size       int     `json:"size"`
	TotalPages int     `json:"totalPages"`
}

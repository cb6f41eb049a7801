// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Field limits for category validation.
const (
	CategoryNameMin = 2
	CategoryNameMax = 50
)

// categoryNamePattern restricts category names to letters, digits, spaces,
// hyphens, and underscores. The name doubles as a partition label.
var categoryNamePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// ValidCategoryName reports whether a name satisfies the length and
// character-set rules.
func ValidCategoryName(name string) bool {
	n := len([]rune(name))
	return n >= CategoryNameMin && n <= CategoryNameMax && categoryNamePattern.MatchString(name)
}

// Category is a named partition of entries. The ID is the partition
// identifier entries reference; it survives renames. Deleting a category
// removes its partition and every entry in it.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Serial    int       `json:"serial"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// EntryCount is populated by list queries.
	EntryCount int `json:"entryCount"`
}

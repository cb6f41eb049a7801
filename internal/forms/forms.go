// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package forms holds the field validation rules for entry and category
// input. The same rules run on the client before any request is sent and
// on the server before anything is persisted.
package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"sitefolio/internal/models"
)

// tldPattern requires the hostname to end in a dot-delimited extension of
// at least two letters.
var tldPattern = regexp.MustCompile(`\.[A-Za-z]{2,}$`)

// NormalizeURL applies the address rule for user-entered URLs: a missing
// http/https scheme gets an https:// prefix, and the result must parse
// with a hostname carrying a valid top-level extension. Returns the
// normalized URL or an error describing the rejection.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("address is required")
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid URL")
	}
	if !tldPattern.MatchString(u.Hostname()) {
		return "", fmt.Errorf("invalid URL")
	}

	return raw, nil
}

// FieldErrors maps field names to user-facing validation messages.
type FieldErrors map[string]string

// ValidateEntryFields checks entry form inputs and collects every failing
// field, so the form can show all problems at once. Returns the normalized
// URL on success.
func ValidateEntryFields(name, category, rawURL, description string) (string, FieldErrors) {
	errs := FieldErrors{}

	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs["name"] = "Name is required."
	case n < models.EntryNameMin:
		errs["name"] = fmt.Sprintf("Name must be at least %d characters.", models.EntryNameMin)
	case n > models.EntryNameMax:
		errs["name"] = fmt.Sprintf("Name is too long (max %d characters).", models.EntryNameMax)
	}

	if strings.TrimSpace(category) == "" {
		errs["category"] = "Category is required."
	}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		errs["url"] = "Please enter a valid website address."
	}

	description = strings.TrimSpace(description)
	switch n := utf8.RuneCountInString(description); {
	case n == 0:
		errs["description"] = "Description is required."
	case n < models.EntryDescriptionMin:
		errs["description"] = fmt.Sprintf("Description must be at least %d characters.", models.EntryDescriptionMin)
	case n > models.EntryDescriptionMax:
		errs["description"] = fmt.Sprintf("Description is too long (max %d characters).", models.EntryDescriptionMax)
	}

	if len(errs) > 0 {
		return "", errs
	}
	return normalized, nil
}

// ValidateCategoryName returns a user-facing message for an unacceptable
// category name, or "" if the name is fine.
func ValidateCategoryName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Category name is required."
	}
	if !models.ValidCategoryName(name) {
		return fmt.Sprintf("Category name must be %d-%d characters using only letters, digits, spaces, hyphens, and underscores.",
			models.CategoryNameMin, models.CategoryNameMax)
	}
	return ""
}

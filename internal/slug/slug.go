// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides storage-key-safe labels derived from user-entered
// names. Slugs are used as the human-readable part of S3 object keys and as
// partition labels in logs.
package slug

import (
	"regexp"
	"strings"
)

// maxLen caps slug length so object keys stay manageable.
const maxLen = 60

var (
	// nonAlphanumeric matches anything that isn't a lowercase letter, digit,
	// space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a key-safe slug from the given string.
// Example: "My Portfolio Site!" → "my-portfolio-site"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = strings.ReplaceAll(result, "_", "-")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > maxLen {
		result = strings.Trim(result[:maxLen], "-")
	}
	if result == "" {
		result = "item"
	}
	return result
}

package util

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify maps a category name to the URL form used by the catalog filter,
// e.g. "Water Sports" -> "water-sports".
func Slugify(name string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	if s = strings.Trim(s, "-"); s == "" {
		return "uncategorized"
	}
	return s
}

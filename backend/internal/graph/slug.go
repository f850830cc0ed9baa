package graph

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses every run of characters outside
// [a-z0-9] into a single hyphen, with no leading or trailing hyphen. The
// collapsing is ASCII-only: accented characters are dropped, not transliterated.
func Slugify(name string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

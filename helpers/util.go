package helpers

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^\w\-]`)

// LastPathSegment returns the last non-empty "/"-separated part of url.
func LastPathSegment(url string) string {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	return parts[len(parts)-1]
}

// SnapshotFileName builds a file name for a saved article page from the
// last segment of its URL and a unique suffix.
func SnapshotFileName(url string, suffix int) string {
	slug := unsafeFileChars.ReplaceAllString(LastPathSegment(url), "_")
	return fmt.Sprintf("%s_%d.html", slug, suffix)
}

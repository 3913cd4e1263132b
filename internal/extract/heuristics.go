package extract

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// UnknownRegion is used when no tag names a region.
const UnknownRegion = "Unknown"

// Heuristics are the fixed classification tables used during extraction.
type Heuristics struct {
	Regions            []string
	AssetTypeKeywords  []string
	MetadataKeywords   []string
	MinParagraphLength int
}

// DefaultHeuristics returns the tables used for all built-in sites.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Regions:           []string{"Northeast", "West", "Southwest", "Southeast", "Midwest", "Mid-Atlantic"},
		AssetTypeKeywords: []string{"Office", "Industrial", "Retail", "Medical Office", "Coworking", "Data Centers"},
		// "by" is matched as a substring, so body text such as "acquired by"
		// or "nearby" is rejected too. Kept for output compatibility.
		MetadataKeywords:   []string{"by", "posted on", "updated", "author", "date", "category", "tags"},
		MinParagraphLength: 20,
	}
}

// IsContentParagraph reports whether text looks like article body rather
// than byline or metadata. text is expected to be trimmed.
func (h Heuristics) IsContentParagraph(text string) bool {
	if utf8.RuneCountInString(text) < h.MinParagraphLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, keyword := range h.MetadataKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return false
		}
	}
	return true
}

// Region returns the first tag that is exactly one of the known regions.
func (h Heuristics) Region(tags []string) string {
	for _, tag := range tags {
		if slices.Contains(h.Regions, tag) {
			return tag
		}
	}
	return UnknownRegion
}

// AssetType scans tags in order and returns the first keyword contained,
// case-insensitively, in a tag.
func (h Heuristics) AssetType(tags []string) string {
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, keyword := range h.AssetTypeKeywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return keyword
			}
		}
	}
	return ""
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// moreLabel is the tag-cloud expansion control, not a real tag.
const moreLabel = "More"

// ExtractFields applies the selector set to doc. A selector that is empty,
// unparsable or unmatched leaves its field empty.
func ExtractFields(doc *goquery.Document, selectors SelectorSet) Fields {
	return Fields{
		Title:     firstText(doc.Selection, selectors.Title),
		Date:      firstText(doc.Selection, selectors.Date),
		Tags:      extractTags(doc.Selection, selectors.Tags),
		Companies: allText(doc.Selection, selectors.Companies),
	}
}

func find(s *goquery.Selection, selector string) *goquery.Selection {
	if strings.TrimSpace(selector) == "" {
		return s.FilterFunction(func(int, *goquery.Selection) bool { return false })
	}
	// goquery turns a selector it cannot compile into a matcher that
	// matches nothing, so bad site config degrades to empty fields.
	return s.Find(selector)
}

func firstText(s *goquery.Selection, selector string) string {
	sel := find(s, selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

func allText(s *goquery.Selection, selector string) []string {
	var values []string
	find(s, selector).Each(func(_ int, sel *goquery.Selection) {
		values = append(values, strings.TrimSpace(sel.Text()))
	})
	return values
}

// extractTags reads the links inside the first tags container.
func extractTags(s *goquery.Selection, selector string) []string {
	container := find(s, selector).First()
	if container.Length() == 0 {
		return nil
	}

	var tags []string
	container.Find("a").Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		if text == moreLabel {
			return
		}
		tags = append(tags, text)
	})
	return tags
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindContentParagraphs returns the first two <p> elements of doc that pass
// h.IsContentParagraph, in document order. Missing paragraphs are "".
func FindContentParagraphs(doc *goquery.Document, h Heuristics) (first, second string) {
	var found []string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if h.IsContentParagraph(text) {
			found = append(found, text)
		}
		return len(found) < 2
	})

	if len(found) > 0 {
		first = found[0]
	}
	if len(found) > 1 {
		second = found[1]
	}
	return first, second
}

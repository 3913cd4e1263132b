package crawler

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"inceptiv/crenewsworker/internal/extract"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// SiteCrawler crawls the listing pages of one site category, driven by the
// site's selectors.
type SiteCrawler struct {
	BaseCrawler
	Site     SiteConfig
	Category string
	Pages    int
	startURL string
}

// NewSiteCrawler creates a crawler for pages listing pages of category.
func NewSiteCrawler(site SiteConfig, category string, pages int, deps Deps) (*SiteCrawler, error) {
	startURL, err := site.CategoryURL(category)
	if err != nil {
		return nil, err
	}
	if pages < 1 {
		pages = 1
	}
	return &SiteCrawler{
		BaseCrawler: newBaseCrawler(site.ID, deps),
		Site:        site,
		Category:    category,
		Pages:       pages,
		startURL:    startURL,
	}, nil
}

// GetName returns "<site>/<category>", or the site ID for sites without
// categories.
func (c *SiteCrawler) GetName() string {
	if c.Category == "" {
		return c.Site.ID
	}
	return c.Site.ID + "/" + c.Category
}

// FetchArticles walks the listing pages in order. A page or article that
// cannot be fetched is logged and skipped. Cancellation stops the crawl and
// returns the records gathered so far together with the context error.
func (c *SiteCrawler) FetchArticles(ctx context.Context) ([]extract.ArticleRecord, error) {
	var records []extract.ArticleRecord
	seen := make(map[string]struct{})

	for _, pageURL := range PageURLs(c.startURL, c.Pages) {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		c.log.Info().Str("url", pageURL).Msg("Fetching listing page")
		body, err := c.fetch(ctx, pageURL, false)
		if err != nil {
			if c.stop(err) {
				return records, err
			}
			continue
		}

		doc, err := c.createDocument(body)
		if err != nil {
			c.skip(err)
			continue
		}

		switch c.Site.Mode {
		case ModeListing:
			c.snapshot(pageURL, body)
			for _, teaser := range ParseListing(doc, pageURL, c.Site.Listing) {
				records = append(records, extract.AssembleTeaser(teaser, c.Heuristics))
			}
		default:
			links := ArticleLinks(doc, pageURL, c.Site.ArticleLinks)
			c.log.Info().Int("links", len(links)).Str("url", pageURL).Msg("Found article links")

			for _, link := range links {
				if _, dup := seen[link]; dup {
					continue
				}
				seen[link] = struct{}{}

				record, err := c.fetchArticle(ctx, link)
				if err != nil {
					if c.stop(err) {
						return records, err
					}
					continue
				}
				records = append(records, record)
			}
		}
	}

	c.log.Info().Int("records", len(records)).Str("crawler", c.GetName()).Msg("Crawl finished")
	return records, nil
}

func (c *SiteCrawler) fetchArticle(ctx context.Context, link string) (extract.ArticleRecord, error) {
	body, err := c.fetch(ctx, link, true)
	if err != nil {
		return extract.ArticleRecord{}, err
	}
	c.snapshot(link, body)

	doc, err := c.createDocument(body)
	if err != nil {
		c.evict(link)
		return extract.ArticleRecord{}, err
	}

	record := extract.Assemble(doc, link, c.Site.Selectors, c.Heuristics)
	// A page without a title is usually an interstitial or a partial
	// response; keep the record but do not serve the page from cache.
	if record.Title == "" {
		c.log.Debug().Str("url", link).Msg("No title found, evicting cached page")
		c.evict(link)
	}
	return record, nil
}

// stop reports whether err ends the crawl. Failures confined to one page or
// article are logged and skipped.
func (c *SiteCrawler) stop(err error) bool {
	var scrapeErr *apperrors.ScrapeError
	if errors.As(err, &scrapeErr) && scrapeErr.IsSkippable() {
		c.skip(scrapeErr)
		return false
	}
	return true
}

func (c *SiteCrawler) skip(err error) {
	var scrapeErr *apperrors.ScrapeError
	if errors.As(err, &scrapeErr) && scrapeErr.Type == apperrors.ErrorTypeRobots {
		c.log.Warn().Msg(scrapeErr.Message)
		return
	}
	c.log.Warn().Err(err).Msg("Skipping page")
}

// ArticleLinks returns the resolved href of every node matching selector,
// in document order and without duplicates.
func ArticleLinks(doc *goquery.Document, pageURL, selector string) []string {
	if selector == "" {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		link := resolveURL(pageURL, href)
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

// ParseListing reads the article cards of a listing page. Cards without a
// title and without a link are skipped.
func ParseListing(doc *goquery.Document, pageURL string, sel ListingSelectors) []extract.Teaser {
	if sel.Item == "" {
		return nil
	}

	var teasers []extract.Teaser
	doc.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		t := extract.Teaser{
			Title: firstText(item, sel.Title),
			Intro: firstText(item, sel.Intro),
		}

		if sel.Link != "" {
			if href, ok := item.Find(sel.Link).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
				t.URL = resolveURL(pageURL, href)
			}
		}

		if sel.DateAttr != "" && sel.Date != "" {
			t.Date, _ = item.Find(sel.Date).First().Attr(sel.DateAttr)
			t.Date = strings.TrimSpace(t.Date)
		} else {
			t.Date = firstText(item, sel.Date)
		}

		if t.Title == "" && t.URL == "" {
			return
		}
		teasers = append(teasers, t)
	})
	return teasers
}

func firstText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(s.Find(selector).First().Text())
}

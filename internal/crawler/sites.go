package crawler

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"inceptiv/crenewsworker/internal/extract"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// DefaultSites returns the built-in site table keyed by site ID.
func DefaultSites() map[string]SiteConfig {
	return map[string]SiteConfig{
		"commercialsearch": {
			ID:           "commercialsearch",
			Provider:     "Commercial Search",
			BaseURL:      "https://www.commercialsearch.com/news/",
			Mode:         ModeArticle,
			ArticleLinks: ".cpe-posts-category-page .fl-post-title a",
			Selectors: extract.SelectorSet{
				Title:     ".fl-node-r05xkta16lp9 .fl-heading-text",
				Date:      ".fl-post-info-date",
				Tags:      ".post_categories",
				Companies: ".fl-post-info-terms a",
			},
			Categories: categoryPaths(
				"office", "industrial", "retail", "medical-office", "coworking", "data-centers",
			),
		},
		"multihousingnews": {
			ID:       "multihousingnews",
			Provider: "Multi-Housing News",
			BaseURL:  "https://www.multihousingnews.com/tag/",
			Mode:     ModeListing,
			Listing: ListingSelectors{
				Item:     "article",
				Title:    "h2.entry-title",
				Link:     "a",
				Date:     "time[datetime]",
				DateAttr: "datetime",
				Intro:    "div.entry-excerpt",
			},
			Categories: categoryPaths(
				"market-rate", "luxury", "affordable-housing", "student-housing", "senior-housing",
				"manufactured-housing", "condo", "military-housing", "self-storage", "single-family-rental",
			),
		},
		"traded": {
			ID:       "traded",
			Provider: "Traded",
			BaseURL:  "https://traded.co/",
			Mode:     ModeListing,
			Listing: ListingSelectors{
				Item:  "div.content-card",
				Title: "h2",
				Link:  "a",
				Date:  "span.date",
				Intro: "p",
			},
		},
	}
}

func categoryPaths(names ...string) map[string]string {
	paths := make(map[string]string, len(names))
	for _, name := range names {
		paths[name] = name + "/"
	}
	return paths
}

type sitesFile struct {
	Sites map[string]SiteConfig `yaml:"sites"`
}

// LoadSites returns the built-in table with the sites of the YAML file at
// path added or replaced by ID. An empty path returns the built-in table.
func LoadSites(path string) (map[string]SiteConfig, error) {
	sites := DefaultSites()
	if path == "" {
		return sites, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfiguration("read sites file "+path, err)
	}

	var file sitesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewConfiguration("parse sites file "+path, err)
	}

	for id, site := range file.Sites {
		site.ID = id
		if site.Mode == "" {
			site.Mode = ModeArticle
		}
		if err := site.Validate(); err != nil {
			return nil, apperrors.NewConfiguration(fmt.Sprintf("site %q in %s", id, path), err)
		}
		sites[id] = site
	}
	return sites, nil
}

// Validate checks that the site can be crawled in its mode. Selector syntax
// is checked as well, although a bad selector would only match nothing.
func (s SiteConfig) Validate() error {
	if s.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	switch s.Mode {
	case ModeArticle:
		if s.ArticleLinks == "" {
			return fmt.Errorf("article mode needs article_links")
		}
		return s.Selectors.Validate()
	case ModeListing:
		if s.Listing.Item == "" {
			return fmt.Errorf("listing mode needs listing.item")
		}
		return nil
	default:
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
}

// CategoryNames returns the site's categories in sorted order.
func (s SiteConfig) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryURL returns the first listing page of category. Sites without
// categories accept only the empty category and list from the base URL.
func (s SiteConfig) CategoryURL(category string) (string, error) {
	if len(s.Categories) == 0 {
		if category != "" {
			return "", apperrors.NewConfiguration(fmt.Sprintf("site %q has no categories, got %q", s.ID, category), nil)
		}
		return s.BaseURL, nil
	}

	path, ok := s.Categories[category]
	if !ok {
		return "", apperrors.NewConfiguration(fmt.Sprintf("unknown category %q for site %q, choose one of %s",
			category, s.ID, strings.Join(s.CategoryNames(), ", ")), nil)
	}
	return s.BaseURL + path, nil
}

// PageURLs returns the listing page URLs for the first pages pages.
// Page 1 is categoryURL itself and page N is <categoryURL>page/N/.
func PageURLs(categoryURL string, pages int) []string {
	if pages < 1 {
		return nil
	}
	if !strings.HasSuffix(categoryURL, "/") {
		categoryURL += "/"
	}

	urls := make([]string, 0, pages)
	urls = append(urls, categoryURL)
	for page := 2; page <= pages; page++ {
		urls = append(urls, fmt.Sprintf("%spage/%d/", categoryURL, page))
	}
	return urls
}

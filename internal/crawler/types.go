package crawler

import (
	"context"

	"inceptiv/crenewsworker/internal/extract"
)

// Crawler interface defines the contract for all crawler implementations
type Crawler interface {
	// FetchArticles crawls the configured pages and returns one record per article
	FetchArticles(ctx context.Context) ([]extract.ArticleRecord, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetProvider returns the site ID, used as the publish key
	GetProvider() string
}

// Mode tells how a site's records are produced.
type Mode string

const (
	// ModeArticle follows every article link on a listing page and extracts
	// the record from the article page.
	ModeArticle Mode = "article"
	// ModeListing builds records from the cards on the listing page alone.
	ModeListing Mode = "listing"
)

// ListingSelectors locate the parts of an article card on a listing page.
type ListingSelectors struct {
	Item     string `yaml:"item" json:"item"`
	Title    string `yaml:"title" json:"title"`
	Link     string `yaml:"link" json:"link"`
	Date     string `yaml:"date" json:"date"`
	DateAttr string `yaml:"date_attr,omitempty" json:"date_attr,omitempty"`
	Intro    string `yaml:"intro" json:"intro"`
}

// SiteConfig contains the configuration of one news site
type SiteConfig struct {
	ID           string              `yaml:"id" json:"id"`
	Provider     string              `yaml:"provider" json:"provider"`
	BaseURL      string              `yaml:"base_url" json:"base_url"`
	Mode         Mode                `yaml:"mode" json:"mode"`
	ArticleLinks string              `yaml:"article_links,omitempty" json:"article_links,omitempty"`
	Listing      ListingSelectors    `yaml:"listing,omitempty" json:"listing,omitempty"`
	Selectors    extract.SelectorSet `yaml:"selectors,omitempty" json:"selectors,omitempty"`
	Categories   map[string]string   `yaml:"categories,omitempty" json:"categories,omitempty"`
}

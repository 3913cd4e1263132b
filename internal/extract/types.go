package extract

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// ArticleRecord is one extracted article, written as a single export row.
// Optional text fields are empty when the source had no value.
type ArticleRecord struct {
	Title             string   `json:"title,omitempty"`
	URL               string   `json:"url"`
	PublishedDate     string   `json:"published_date,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Region            string   `json:"region"`
	AssetType         string   `json:"asset_type,omitempty"`
	IntroParagraph    string   `json:"intro_paragraph,omitempty"`
	Company           string   `json:"company,omitempty"`
	RelatedCompanies  []string `json:"related_companies,omitempty"`
	TransactionAmount string   `json:"transaction_amount,omitempty"`
	SquareFootage     string   `json:"square_footage,omitempty"`
	AssetDescriptors  []string `json:"asset_descriptors,omitempty"`
}

// Columns is the fixed export column order.
var Columns = []string{
	"Article Title",
	"Article URL",
	"Date Published",
	"Tags",
	"Region",
	"Asset Type",
	"Intro Paragraph",
	"Company",
	"Related Companies",
	"Transaction Amount",
	"Square Footage",
	"Asset Descriptor",
}

// Row returns the record's cells in Columns order.
func (r ArticleRecord) Row() []string {
	return []string{
		r.Title,
		r.URL,
		r.PublishedDate,
		strings.Join(r.Tags, ", "),
		r.Region,
		r.AssetType,
		r.IntroParagraph,
		r.Company,
		strings.Join(r.RelatedCompanies, ", "),
		r.TransactionAmount,
		r.SquareFootage,
		strings.Join(r.AssetDescriptors, ", "),
	}
}

// SelectorSet maps the logical fields of an article page to CSS selectors.
type SelectorSet struct {
	Title     string `yaml:"title" json:"title"`
	Date      string `yaml:"date" json:"date"`
	Tags      string `yaml:"tags" json:"tags"`
	Companies string `yaml:"companies" json:"companies"`
}

// Validate reports selectors that cascadia cannot parse. Extraction itself
// never needs this: an unparsable selector simply matches nothing.
func (s SelectorSet) Validate() error {
	var bad []string
	for name, sel := range map[string]string{
		"title":     s.Title,
		"date":      s.Date,
		"tags":      s.Tags,
		"companies": s.Companies,
	} {
		if sel == "" {
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			bad = append(bad, fmt.Sprintf("%s (%q): %v", name, sel, err))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid selectors: %s", strings.Join(bad, "; "))
	}
	return nil
}

// Fields holds the selector-derived values of an article page.
type Fields struct {
	Title     string
	Date      string
	Tags      []string
	Companies []string
}

// TransactionInfo holds the values mined from free text.
type TransactionInfo struct {
	Amount        string
	SquareFootage string
	Descriptors   []string
}

// Teaser is a single article card on a listing page.
type Teaser struct {
	Title string
	URL   string
	Date  string
	Intro string
}

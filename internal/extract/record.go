package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// Assemble builds the ArticleRecord for one article page. It never fails:
// every field falls back to its empty value independently.
//
// The second content paragraph is used as the intro; the first is treated
// as a lead-in and only feeds the transaction miner. This matches the
// spreadsheets produced so far and is pending confirmation.
func Assemble(doc *goquery.Document, url string, selectors SelectorSet, h Heuristics) ArticleRecord {
	fields := ExtractFields(doc, selectors)
	first, second := FindContentParagraphs(doc, h)
	info := ExtractTransactionInfo(first + " " + second)

	return ArticleRecord{
		Title:             fields.Title,
		URL:               url,
		PublishedDate:     fields.Date,
		Tags:              fields.Tags,
		Region:            h.Region(fields.Tags),
		AssetType:         h.AssetType(fields.Tags),
		IntroParagraph:    second,
		RelatedCompanies:  fields.Companies,
		TransactionAmount: info.Amount,
		SquareFootage:     info.SquareFootage,
		AssetDescriptors:  info.Descriptors,
	}
}

// AssembleTeaser builds a record from a listing-page card. Listing pages
// carry no tags, so region is always unknown and asset type is empty.
func AssembleTeaser(t Teaser, h Heuristics) ArticleRecord {
	info := ExtractTransactionInfo(t.Intro)

	return ArticleRecord{
		Title:             t.Title,
		URL:               t.URL,
		PublishedDate:     t.Date,
		Region:            h.Region(nil),
		IntroParagraph:    t.Intro,
		TransactionAmount: info.Amount,
		SquareFootage:     info.SquareFootage,
		AssetDescriptors:  info.Descriptors,
	}
}

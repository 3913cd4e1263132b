package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inceptiv/crenewsworker/helpers"
	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/services/limiter"
)

const warehouseArticle = `<html><body>
	<div class="fl-node-r05xkta16lp9"><h1 class="fl-heading-text">Warehouse Trades Hands</h1></div>
	<span class="fl-post-info-date">May 1, 2024</span>
	<div class="post_categories"><a href="#">Industrial</a><a href="#">Midwest</a><a href="#">More</a></div>
	<span class="fl-post-info-terms"><a href="#">Link Logistics</a></span>
	<p>Link Logistics acquired a 210,500-square-foot warehouse in Columbus, Ohio.</p>
	<p>The price was $27.5 million, according to public records.</p>
</body></html>`

const officeArticle = `<html><body>
	<div class="fl-node-r05xkta16lp9"><h1 class="fl-heading-text">Office Tower Refinanced</h1></div>
	<div class="post_categories"><a href="#">Office</a></div>
	<p>The owners refinanced the tower with a new loan last week.</p>
</body></html>`

// newsServer serves a two-page category with three articles, one of which
// is missing.
type newsServer struct {
	*httptest.Server
	articleHits atomic.Int32
	robots      string
}

func newNewsServer(t *testing.T) *newsServer {
	t.Helper()
	ns := &newsServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if ns.robots == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, ns.robots)
	})
	mux.HandleFunc("/news/industrial/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><div class="cpe-posts-category-page">
			<h2 class="fl-post-title"><a href="/news/warehouse-trades/">Warehouse</a></h2>
			<h2 class="fl-post-title"><a href="%s/news/office-refi/">Office</a></h2>
			<h2 class="fl-post-title"><a href="/news/warehouse-trades/">Warehouse again</a></h2>
		</div></body></html>`, ns.URL)
	})
	mux.HandleFunc("/news/industrial/page/2/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="cpe-posts-category-page">
			<h2 class="fl-post-title"><a href="/news/missing/">Missing</a></h2>
			<h2 class="fl-post-title"><a href="/news/warehouse-trades/">Warehouse</a></h2>
		</div></body></html>`)
	})
	mux.HandleFunc("/news/warehouse-trades/", func(w http.ResponseWriter, r *http.Request) {
		ns.articleHits.Add(1)
		fmt.Fprint(w, warehouseArticle)
	})
	mux.HandleFunc("/news/office-refi/", func(w http.ResponseWriter, r *http.Request) {
		ns.articleHits.Add(1)
		fmt.Fprint(w, officeArticle)
	})
	mux.HandleFunc("/news/missing/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/listing/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="content-card">
				<a href="/deal/1"><h2>Investor Buys Retail Center</h2></a>
				<span class="date">Jan 5, 2024</span>
				<p>The 85,000-square-foot center in Tampa, Florida traded for $21 million.</p>
			</div>
			<div class="content-card"><span class="date">Jan 6, 2024</span></div>
			<div class="content-card">
				<a href="https://elsewhere.example/deal/2"><h2>Lender Provides Construction Loan</h2></a>
			</div>
		</body></html>`)
	})

	ns.Server = httptest.NewServer(mux)
	t.Cleanup(ns.Close)
	return ns
}

func (ns *newsServer) articleSite() SiteConfig {
	site := DefaultSites()["commercialsearch"]
	site.BaseURL = ns.URL + "/news/"
	return site
}

func testDeps() Deps {
	return Deps{
		Fetcher:    helpers.NewFetcher(5*time.Second, "test-agent/1.0"),
		Heuristics: extract.DefaultHeuristics(),
	}
}

func TestSiteCrawler_ArticleMode(t *testing.T) {
	ns := newNewsServer(t)
	mockCache := NewMockCacheService()
	deps := testDeps()
	deps.Cache = mockCache
	deps.CacheTTL = time.Minute

	c, err := NewSiteCrawler(ns.articleSite(), "industrial", 2, deps)
	require.NoError(t, err)
	assert.Equal(t, "commercialsearch/industrial", c.GetName())
	assert.Equal(t, "commercialsearch", c.GetProvider())

	records, err := c.FetchArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	expected := extract.ArticleRecord{
		Title:             "Warehouse Trades Hands",
		URL:               ns.URL + "/news/warehouse-trades/",
		PublishedDate:     "May 1, 2024",
		Tags:              []string{"Industrial", "Midwest"},
		Region:            "Midwest",
		AssetType:         "Industrial",
		IntroParagraph:    "The price was $27.5 million, according to public records.",
		RelatedCompanies:  []string{"Link Logistics"},
		TransactionAmount: "$27.5 million",
		SquareFootage:     "210500",
		AssetDescriptors:  []string{"Columbus, Ohio"},
	}
	if diff := cmp.Diff(expected, records[0]); diff != "" {
		t.Errorf("first record mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Office Tower Refinanced", records[1].Title)
	assert.Equal(t, "Office", records[1].AssetType)
	assert.Equal(t, "Unknown", records[1].Region)
	assert.Equal(t, "", records[1].IntroParagraph)

	assert.Equal(t, int32(2), ns.articleHits.Load())
	assert.Equal(t, 2, mockCache.sets)
}

func TestSiteCrawler_UsesPageCache(t *testing.T) {
	ns := newNewsServer(t)
	deps := testDeps()
	deps.Cache = NewMockCacheService()

	for i := 0; i < 2; i++ {
		c, err := NewSiteCrawler(ns.articleSite(), "industrial", 1, deps)
		require.NoError(t, err)
		records, err := c.FetchArticles(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	}

	assert.Equal(t, int32(2), ns.articleHits.Load())
}

func TestSiteCrawler_EvictsUntitledPages(t *testing.T) {
	var consentHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/news/industrial/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="cpe-posts-category-page">
			<h2 class="fl-post-title"><a href="/news/consent/">Consent</a></h2>
			<h2 class="fl-post-title"><a href="/news/warehouse-trades/">Warehouse</a></h2>
		</div>`)
	})
	mux.HandleFunc("/news/consent/", func(w http.ResponseWriter, r *http.Request) {
		consentHits.Add(1)
		fmt.Fprint(w, `<html><body><p>Please enable cookies to continue reading this article.</p></body></html>`)
	})
	mux.HandleFunc("/news/warehouse-trades/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, warehouseArticle)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	site := DefaultSites()["commercialsearch"]
	site.BaseURL = server.URL + "/news/"
	mockCache := NewMockCacheService()
	deps := testDeps()
	deps.Cache = mockCache

	for i := 0; i < 2; i++ {
		c, err := NewSiteCrawler(site, "industrial", 1, deps)
		require.NoError(t, err)
		records, err := c.FetchArticles(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "", records[0].Title)
		assert.Equal(t, "Warehouse Trades Hands", records[1].Title)
	}

	assert.Equal(t, int32(2), consentHits.Load())
	assert.Equal(t, 2, mockCache.deletes)
	_, err := mockCache.Get(server.URL + "/news/consent/")
	assert.Error(t, err)
	_, err = mockCache.Get(server.URL + "/news/warehouse-trades/")
	assert.NoError(t, err)
}

func TestSiteCrawler_RespectsRobots(t *testing.T) {
	ns := newNewsServer(t)
	ns.robots = "User-agent: *\nDisallow: /news/office-refi/\n"

	deps := testDeps()
	deps.Robots = limiter.NewRobotsChecker(deps.Fetcher.UserAgent(), 5*time.Second)

	c, err := NewSiteCrawler(ns.articleSite(), "industrial", 1, deps)
	require.NoError(t, err)

	records, err := c.FetchArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Warehouse Trades Hands", records[0].Title)
	assert.Equal(t, int32(1), ns.articleHits.Load())
}

func TestSiteCrawler_ListingMode(t *testing.T) {
	ns := newNewsServer(t)
	site := DefaultSites()["traded"]
	site.BaseURL = ns.URL + "/listing/"

	c, err := NewSiteCrawler(site, "", 1, testDeps())
	require.NoError(t, err)
	assert.Equal(t, "traded", c.GetName())

	records, err := c.FetchArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Investor Buys Retail Center", records[0].Title)
	assert.Equal(t, ns.URL+"/deal/1", records[0].URL)
	assert.Equal(t, "Jan 5, 2024", records[0].PublishedDate)
	assert.Equal(t, "$21 million", records[0].TransactionAmount)
	assert.Equal(t, "85000", records[0].SquareFootage)
	assert.Equal(t, []string{"Tampa, Florida traded for"}, records[0].AssetDescriptors)
	assert.Equal(t, "Unknown", records[0].Region)

	assert.Equal(t, "https://elsewhere.example/deal/2", records[1].URL)
	assert.Equal(t, "", records[1].PublishedDate)
}

func TestSiteCrawler_Canceled(t *testing.T) {
	ns := newNewsServer(t)
	c, err := NewSiteCrawler(ns.articleSite(), "industrial", 2, testDeps())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := c.FetchArticles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
	assert.Equal(t, int32(0), ns.articleHits.Load())
}

func TestNewSiteCrawler_UnknownCategory(t *testing.T) {
	_, err := NewSiteCrawler(DefaultSites()["commercialsearch"], "hotels", 1, testDeps())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestArticleLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div class="list">
		<a href="/a/">A</a>
		<a>no href</a>
		<a href="  ">blank</a>
		<a href="https://other.example/b">B</a>
		<a href="/a/">A again</a>
	</div>`))
	require.NoError(t, err)

	links := ArticleLinks(doc, "https://news.example/cat/page/2/", ".list a")
	assert.Equal(t, []string{"https://news.example/a/", "https://other.example/b"}, links)
	assert.Nil(t, ArticleLinks(doc, "https://news.example/", ""))
}

func TestParseListing_DateAttribute(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<article>
			<h2 class="entry-title"><a href="https://mhn.example/a/">Lofts Sold</a></h2>
			<time datetime="2024-02-10T08:00:00+00:00">February 10, 2024</time>
			<div class="entry-excerpt"> A 300-unit community changed hands. </div>
		</article>
	</body></html>`))
	require.NoError(t, err)

	teasers := ParseListing(doc, "https://mhn.example/tag/luxury/", DefaultSites()["multihousingnews"].Listing)
	require.Len(t, teasers, 1)
	assert.Equal(t, extract.Teaser{
		Title: "Lofts Sold",
		URL:   "https://mhn.example/a/",
		Date:  "2024-02-10T08:00:00+00:00",
		Intro: "A 300-unit community changed hands.",
	}, teasers[0])
}

package crawler

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"inceptiv/crenewsworker/helpers"
	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/logger"
	apperrors "inceptiv/crenewsworker/pkg/errors"
	"inceptiv/crenewsworker/services/cache"
	"inceptiv/crenewsworker/services/limiter"
)

// Deps holds the collaborators shared by all crawlers of a run.
type Deps struct {
	Fetcher    *helpers.Fetcher
	Pacer      *limiter.Pacer
	Robots     *limiter.RobotsChecker // nil skips robots.txt checks
	Cache      cache.CacheService     // nil disables the page cache
	CacheTTL   time.Duration
	Snapshots  *SnapshotWriter // nil disables snapshots
	Heuristics extract.Heuristics
}

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	Deps
	SiteID string
	log    *logger.Logger
}

func newBaseCrawler(siteID string, deps Deps) BaseCrawler {
	if deps.Pacer == nil {
		deps.Pacer = limiter.NewPacer(0)
	}
	return BaseCrawler{
		Deps:   deps,
		SiteID: siteID,
		log:    logger.ForSite(siteID),
	}
}

// fetch retrieves url after the robots check and the fixed pause. When
// cached is set the body is looked up in and stored to the page cache.
func (c *BaseCrawler) fetch(ctx context.Context, pageURL string, cached bool) ([]byte, error) {
	if cached && c.Cache != nil {
		body, err := c.Cache.Get(pageURL)
		if err == nil {
			c.log.Debug().Str("url", pageURL).Msg("Page cache hit")
			return body, nil
		}
		if !cache.IsMiss(err) {
			c.log.Warn().Err(err).Str("url", pageURL).Msg("Page cache lookup failed")
		}
	}

	if c.Robots != nil {
		allowed, err := c.Robots.Allowed(ctx, pageURL)
		if err != nil {
			return nil, apperrors.NewNetwork(c.SiteID, "robots check "+pageURL, err)
		}
		if !allowed {
			return nil, apperrors.NewRobots(c.SiteID, pageURL)
		}
	}

	if err := c.Pacer.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewNetwork(c.SiteID, "fetch "+pageURL, err)
	}

	if cached && c.Cache != nil {
		if err := c.Cache.Set(pageURL, body, c.CacheTTL); err != nil {
			c.log.Warn().Err(err).Str("url", pageURL).Msg("Page cache store failed")
		}
	}
	return body, nil
}

// evict drops pageURL from the page cache so the next crawl fetches it
// again.
func (c *BaseCrawler) evict(pageURL string) {
	if c.Cache == nil {
		return
	}
	if err := c.Cache.Delete(pageURL); err != nil {
		c.log.Warn().Err(err).Str("url", pageURL).Msg("Page cache eviction failed")
	}
}

// createDocument parses an HTML body
func (c *BaseCrawler) createDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewParsing(c.SiteID, "parse HTML", err)
	}
	return doc, nil
}

// snapshot saves body when snapshots are enabled. Failures are logged only.
func (c *BaseCrawler) snapshot(pageURL string, body []byte) {
	if c.Snapshots == nil {
		return
	}
	name, err := c.Snapshots.Save(pageURL, body)
	if err != nil {
		logger.LogError(c.SiteID, err, "saving snapshot of %s", pageURL)
		return
	}
	c.log.Debug().Str("url", pageURL).Str("file", name).Msg("Snapshot saved")
}

// GetProvider returns the site ID
func (c *BaseCrawler) GetProvider() string {
	return c.SiteID
}

// resolveURL resolves href against the page it was found on. Unparsable
// hrefs are returned trimmed and unchanged.
func resolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

package crawler

import (
	"fmt"
	"strings"

	"inceptiv/crenewsworker/config"
	"inceptiv/crenewsworker/helpers"
	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/logger"
	apperrors "inceptiv/crenewsworker/pkg/errors"
	"inceptiv/crenewsworker/services/cache"
	"inceptiv/crenewsworker/services/limiter"
)

// NewDeps builds the shared crawler collaborators from the configuration.
func NewDeps(cfg *config.Config, cacheSvc cache.CacheService) (Deps, error) {
	fetcher := helpers.NewFetcher(cfg.RequestTimeout, cfg.UserAgent)

	deps := Deps{
		Fetcher:    fetcher,
		Pacer:      limiter.NewPacer(cfg.RequestDelay),
		Cache:      cacheSvc,
		CacheTTL:   cfg.PageCacheTTL,
		Heuristics: extract.DefaultHeuristics(),
	}

	if cfg.RespectRobots {
		deps.Robots = limiter.NewRobotsChecker(fetcher.UserAgent(), cfg.RequestTimeout)
	}

	if cfg.SnapshotDir != "" {
		snapshots, err := NewSnapshotWriter(cfg.SnapshotDir)
		if err != nil {
			return Deps{}, apperrors.NewConfiguration("snapshot_dir", err)
		}
		deps.Snapshots = snapshots
	}

	return deps, nil
}

// CreateCrawlers creates one crawler per "site/category" target. A target
// without a category covers every category of the site.
func CreateCrawlers(targets []string, sites map[string]SiteConfig, pages int, deps Deps) ([]Crawler, error) {
	var crawlers []Crawler

	for _, target := range targets {
		siteID, category, _ := strings.Cut(target, "/")
		site, ok := sites[siteID]
		if !ok {
			return nil, apperrors.NewConfiguration(fmt.Sprintf("unknown site %q in target %q", siteID, target), nil)
		}

		categories := []string{category}
		if category == "" && len(site.Categories) > 0 {
			categories = site.CategoryNames()
		}

		for _, cat := range categories {
			c, err := NewSiteCrawler(site, cat, pages, deps)
			if err != nil {
				return nil, err
			}
			crawlers = append(crawlers, c)
		}
	}

	log := logger.ForWorker()
	log.Info().Int("crawlers", len(crawlers)).Msg("Created crawlers")
	for i, c := range crawlers {
		log.Debug().Int("index", i).Str("crawler", c.GetName()).Msg("Crawler configured")
	}

	return crawlers, nil
}

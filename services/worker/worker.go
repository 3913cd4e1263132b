package worker

import (
	"context"
	"encoding/json"
	"time"

	"inceptiv/crenewsworker/internal/crawler"
	"inceptiv/crenewsworker/internal/extract"
	"inceptiv/crenewsworker/logger"
	"inceptiv/crenewsworker/services/publisher"
)

// CycleStats summarizes one pass over all crawlers.
type CycleStats struct {
	Records   int
	Published int
	Failures  int
	Elapsed   time.Duration
}

// Worker handles the crawling and publishing process
type Worker struct {
	ctx           context.Context
	crawlers      []crawler.Crawler
	publisher     publisher.Publisher
	crawlInterval time.Duration
	production    bool
	log           *logger.Logger
}

// NewWorker creates a new worker. A nil publisher runs the crawlers and
// only logs what would have been published.
func NewWorker(
	ctx context.Context,
	crawlers []crawler.Crawler,
	pub publisher.Publisher,
	crawlInterval time.Duration,
	production bool,
) *Worker {
	return &Worker{
		ctx:           ctx,
		crawlers:      crawlers,
		publisher:     pub,
		crawlInterval: crawlInterval,
		production:    production,
		log:           logger.ForWorker(),
	}
}

// Start runs a cycle, sleeps for the crawl interval and repeats until the
// worker's context is done.
func (w *Worker) Start() {
	for {
		stats := w.RunOnce()
		w.log.Info().
			Int("records", stats.Records).
			Int("published", stats.Published).
			Int("failures", stats.Failures).
			Dur("elapsed", stats.Elapsed).
			Msg("Crawl cycle finished")

		select {
		case <-w.ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-time.After(w.crawlInterval):
		}
	}
}

// RunOnce runs the crawlers one after another and then trims the streams.
func (w *Worker) RunOnce() CycleStats {
	start := time.Now()
	var stats CycleStats

	for _, c := range w.crawlers {
		if w.ctx.Err() != nil {
			break
		}
		w.crawlAndPublish(c, &stats)
	}

	if w.publisher != nil {
		if err := w.publisher.TrimStreams(); err != nil {
			logger.LogError("StreamTrimming", err, "trimming streams")
		}
	}

	stats.Elapsed = time.Since(start)
	return stats
}

// crawlAndPublish crawls records from a crawler and publishes them
func (w *Worker) crawlAndPublish(c crawler.Crawler, stats *CycleStats) {
	name := c.GetName()

	records, err := c.FetchArticles(w.ctx)
	if err != nil {
		logger.LogError(name, err, "crawling %s", name)
		stats.Failures++
	}
	stats.Records += len(records)

	for i, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			logger.LogError(name, err, "encoding record %s", record.URL)
			stats.Failures++
			continue
		}

		if i == 0 {
			w.logSample(name, record)
		}

		if w.publisher == nil {
			continue
		}
		if err := w.publisher.Publish(c.GetProvider(), data); err != nil {
			logger.LogError(name, err, "publishing record %s", record.URL)
			stats.Failures++
			continue
		}
		stats.Published++
	}
}

// logSample logs the first record of each crawler outside production.
func (w *Worker) logSample(name string, record extract.ArticleRecord) {
	if w.production {
		return
	}
	w.log.WithFields(logger.Fields{
		"crawler": name,
		"region":  record.Region,
	}).Debug().
		Str("title", record.Title).
		Str("url", record.URL).
		Str("amount", record.TransactionAmount).
		Msg("Sample record")
}

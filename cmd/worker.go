package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"inceptiv/crenewsworker/config"
	"inceptiv/crenewsworker/internal/crawler"
	"inceptiv/crenewsworker/logger"
	"inceptiv/crenewsworker/services/cache"
	"inceptiv/crenewsworker/services/publisher"
	"inceptiv/crenewsworker/services/worker"
)

var workerOnce bool

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Crawl the configured targets periodically and publish the records",
	Long: `Worker crawls every WORKER_SITES target ("site/category", or "site" for all
of a site's categories) each CRAWL_INTERVAL_SECONDS and publishes one JSON
message per record to the configured PUBLISHER (redis, kafka or none).`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().BoolVar(&workerOnce, "once", false, "run a single cycle and exit")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			logger.LogError("publisher", err, "closing publisher")
		}
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{
		Cache: cache.New(cfg.MemcacheAddr, cfg.PageCacheTTL),
	}
	if cfg.MemcacheAddr != "" {
		logger.Info("Using Memcache at %s for the page cache", cfg.MemcacheAddr)
	}

	pub, err := publisher.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	services.Publisher = pub

	switch cfg.Publisher {
	case config.PublisherRedis:
		logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	case config.PublisherKafka:
		logger.Info("Publishing to Kafka topic %s", cfg.KafkaTopic)
	default:
		logger.Warn("No publisher configured, records are only logged")
	}

	return services, nil
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	log := logger.ForWorker()

	log.Info().
		Str("environment", cfg.Environment).
		Dur("crawl_interval", cfg.CrawlInterval).
		Strs("targets", cfg.WorkerTargets).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Cleanup()

	sites, err := crawler.LoadSites(cfg.SitesFile)
	if err != nil {
		return err
	}
	deps, err := crawler.NewDeps(cfg, services.Cache)
	if err != nil {
		return err
	}
	crawlers, err := crawler.CreateCrawlers(cfg.WorkerTargets, sites, cfg.WorkerPages, deps)
	if err != nil {
		return err
	}

	w := worker.NewWorker(ctx, crawlers, services.Publisher, cfg.CrawlInterval, cfg.IsProduction())

	if workerOnce {
		stats := w.RunOnce()
		log.Info().
			Int("records", stats.Records).
			Int("published", stats.Published).
			Int("failures", stats.Failures).
			Dur("elapsed", stats.Elapsed).
			Msg("Single cycle finished")
		return nil
	}

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	workerDone := make(chan struct{})
	go func() {
		log.Info().Msg("Starting news worker")
		w.Start()
		close(workerDone)
	}()

	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case <-workerDone:
	}

	log.Info().Msg("Shutting down gracefully...")
	return nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// Publisher backends
const (
	PublisherNone  = "none"
	PublisherRedis = "redis"
	PublisherKafka = "kafka"
)

// Config represents the application configuration
type Config struct {
	Environment string `yaml:"scraper_environment"`

	// HTTP
	UserAgent      string        `yaml:"user_agent"`
	RequestDelay   time.Duration `yaml:"request_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RespectRobots  bool          `yaml:"respect_robots"`

	// Sites and snapshots
	SitesFile   string `yaml:"sites_file,omitempty"`
	SnapshotDir string `yaml:"snapshot_dir,omitempty"`

	// Page cache; in-process when MemcacheAddr is empty
	MemcacheAddr string        `yaml:"memcache_addr,omitempty"`
	PageCacheTTL time.Duration `yaml:"page_cache_ttl"`

	// Publishing
	Publisher            string   `yaml:"publisher"`
	RedisAddr            string   `yaml:"redis_addr"`
	RedisDB              int      `yaml:"redis_db"`
	RedisStream          string   `yaml:"redis_stream"`
	RedisStreamCount     int      `yaml:"redis_stream_count"`
	RedisStreamMaxLength int      `yaml:"redis_stream_max_length"`
	KafkaBrokers         []string `yaml:"kafka_brokers,omitempty"`
	KafkaTopic           string   `yaml:"kafka_topic"`

	// Worker
	CrawlIntervalSeconds int           `yaml:"crawl_interval_seconds"`
	CrawlInterval        time.Duration `yaml:"-"`
	WorkerTargets        []string      `yaml:"worker_sites"`
	WorkerPages          int           `yaml:"worker_pages"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("scraper_environment", "development")
	v.SetDefault("user_agent", "")
	v.SetDefault("request_delay", "2s")
	v.SetDefault("request_timeout", "15s")
	v.SetDefault("respect_robots", false)
	v.SetDefault("sites_file", "")
	v.SetDefault("snapshot_dir", "")
	v.SetDefault("memcache_addr", "")
	v.SetDefault("page_cache_ttl", "1h")
	v.SetDefault("publisher", PublisherNone)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_stream", "articles")
	v.SetDefault("redis_stream_count", 1)
	v.SetDefault("redis_stream_max_length", 1000)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "cre-articles")
	v.SetDefault("crawl_interval_seconds", 3600)
	v.SetDefault("worker_sites", "commercialsearch/industrial")
	v.SetDefault("worker_pages", 1)
}

// LoadConfig builds the configuration from v. Environment variables named
// after the upper-cased keys (REDIS_ADDR, REQUEST_DELAY, ...) override file
// values, which override defaults. The keys are the yaml tags of Config, so
// a marshaled Config reads back as the same configuration. List keys take a
// YAML sequence or a comma-separated string.
func LoadConfig(v *viper.Viper) *Config {
	SetDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Environment:          v.GetString("scraper_environment"),
		UserAgent:            v.GetString("user_agent"),
		RequestDelay:         v.GetDuration("request_delay"),
		RequestTimeout:       v.GetDuration("request_timeout"),
		RespectRobots:        v.GetBool("respect_robots"),
		SitesFile:            v.GetString("sites_file"),
		SnapshotDir:          v.GetString("snapshot_dir"),
		MemcacheAddr:         v.GetString("memcache_addr"),
		PageCacheTTL:         v.GetDuration("page_cache_ttl"),
		Publisher:            strings.ToLower(v.GetString("publisher")),
		RedisAddr:            v.GetString("redis_addr"),
		RedisDB:              v.GetInt("redis_db"),
		RedisStream:          v.GetString("redis_stream"),
		RedisStreamCount:     v.GetInt("redis_stream_count"),
		RedisStreamMaxLength: v.GetInt("redis_stream_max_length"),
		KafkaBrokers:         stringList(v, "kafka_brokers"),
		KafkaTopic:           v.GetString("kafka_topic"),
		CrawlIntervalSeconds: v.GetInt("crawl_interval_seconds"),
		CrawlInterval:        time.Duration(v.GetInt("crawl_interval_seconds")) * time.Second,
		WorkerTargets:        stringList(v, "worker_sites"),
		WorkerPages:          v.GetInt("worker_pages"),
	}
}

// Validate checks the configuration for values the commands cannot run with.
func (c *Config) Validate() error {
	if c.RequestDelay < 0 {
		return apperrors.NewConfiguration(fmt.Sprintf("request_delay must not be negative, got %s", c.RequestDelay), nil)
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfiguration("request_timeout must be positive", nil)
	}
	if c.CrawlInterval <= 0 {
		return apperrors.NewConfiguration(fmt.Sprintf("crawl_interval_seconds must be positive, got %d", c.CrawlIntervalSeconds), nil)
	}
	if c.WorkerPages < 1 {
		return apperrors.NewConfiguration(fmt.Sprintf("worker_pages must be at least 1, got %d", c.WorkerPages), nil)
	}

	switch c.Publisher {
	case PublisherNone:
	case PublisherRedis:
		if c.RedisAddr == "" || c.RedisStream == "" {
			return apperrors.NewConfiguration("redis publisher needs redis_addr and redis_stream", nil)
		}
		if c.RedisStreamCount < 1 {
			return apperrors.NewConfiguration("redis_stream_count must be at least 1", nil)
		}
	case PublisherKafka:
		if len(c.KafkaBrokers) == 0 || c.KafkaTopic == "" {
			return apperrors.NewConfiguration("kafka publisher needs kafka_brokers and kafka_topic", nil)
		}
	default:
		return apperrors.NewConfiguration(fmt.Sprintf("unknown publisher %q", c.Publisher), nil)
	}

	return nil
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// stringList reads key as a list. Env values and scalar file values are
// split on commas; GetStringSlice alone would split on whitespace.
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		return splitList(s)
	}
	return splitList(strings.Join(v.GetStringSlice(key), ","))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

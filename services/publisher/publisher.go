package publisher

import (
	"context"
	"fmt"

	"inceptiv/crenewsworker/config"
)

// Publisher represents a service for publishing messages
type Publisher interface {
	// Publish publishes a message under key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

// New creates the publisher selected by cfg.Publisher. It returns nil for
// PublisherNone.
func New(ctx context.Context, cfg *config.Config) (Publisher, error) {
	switch cfg.Publisher {
	case config.PublisherNone:
		return nil, nil
	case config.PublisherRedis:
		return NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength), nil
	case config.PublisherKafka:
		return NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown publisher %q", cfg.Publisher)
	}
}

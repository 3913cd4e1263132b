package publisher

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"inceptiv/crenewsworker/logger"
	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// KafkaPublisher implements Publisher on a single Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	ctx    context.Context
}

// NewKafkaPublisher creates a synchronous writer for topic.
func NewKafkaPublisher(ctx context.Context, brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}

	logger.ForPublisher().Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka publisher initialized")

	return &KafkaPublisher{writer: writer, ctx: ctx}
}

// Publish writes message with key as the Kafka message key. Messages with
// the same key land on the same partition.
func (p *KafkaPublisher) Publish(key string, message []byte) error {
	err := p.writer.WriteMessages(p.ctx, kafka.Message{
		Key:   []byte(key),
		Value: message,
		Time:  time.Now(),
	})
	if err != nil {
		return apperrors.NewPublisher(key, "write to "+p.writer.Topic, err)
	}
	return nil
}

// TrimStreams is a no-op; topic retention is managed by the brokers.
func (p *KafkaPublisher) TrimStreams() error {
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

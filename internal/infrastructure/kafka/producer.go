package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
)

// messageWriter is the subset of *kafka.Writer the producer uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes item outcome events
type Producer struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

// NewProducer creates a Kafka producer for publish outcome events
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka producer initialized")

	return &Producer{
		writer: writer,
		topic:  cfg.Topic,
		logger: logger,
	}
}

// NotifyPublished sends the outcome of one publish attempt, keyed by channel
func (p *Producer) NotifyPublished(ctx context.Context, event *dto.ItemPublishedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.ChannelKey),
		Value: data,
	})
	if err != nil {
		p.logger.Error().Err(err).
			Str("channel_key", event.ChannelKey).
			Str("link", event.Link).
			Msg("Failed to send item published message")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Debug().
		Str("channel_key", event.ChannelKey).
		Str("link", event.Link).
		Bool("success", event.Success).
		Msg("Item published message sent")

	return nil
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// NoopNotifier drops events when no brokers are configured
type NoopNotifier struct{}

// NotifyPublished does nothing
func (NoopNotifier) NotifyPublished(ctx context.Context, event *dto.ItemPublishedEvent) error {
	return nil
}

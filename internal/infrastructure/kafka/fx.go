package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/deps"
)

// Module provides the publish outcome notifier for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewNotifierFx),
)

// NewNotifierFx creates a Kafka-backed notifier, or a no-op one when no brokers are configured
func NewNotifierFx(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	logger zerolog.Logger,
) deps.Notifier {
	if !kafkaCfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, publish notifications disabled")
		return NoopNotifier{}
	}

	producer := NewProducer(kafkaCfg, logger.With().Str("component", "kafka-producer").Logger())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer
}

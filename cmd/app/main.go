package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/app"
)

func main() {
	fx.New(
		app.CreateApp(),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().
				Str("service", cfg.Service.Name).
				Str("port", cfg.Service.Port).
				Int("channels", len(cfg.Channels.Keys)).
				Int("relays", len(cfg.Nostr.Relays)).
				Str("schedule", cfg.Poll.Schedule).
				Msg("Relay service started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Relay service stopped")
			return nil
		},
	})
}

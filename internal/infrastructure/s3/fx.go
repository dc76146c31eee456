package s3

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	channeldeps "github.com/Conte777/newsrelay/internal/domain/channel/deps"
)

// Module provides the avatar mirror for fx DI
var Module = fx.Module("s3",
	fx.Provide(NewAvatarMirrorFx),
)

func newConfig(cfg *config.S3Config) *Config {
	return &Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	}
}

// NewAvatarMirrorFx creates a MinIO-backed avatar mirror, or a no-op one when no endpoint is configured
func NewAvatarMirrorFx(
	lc fx.Lifecycle,
	s3Cfg *config.S3Config,
	logger zerolog.Logger,
) (channeldeps.AvatarMirror, error) {
	if !s3Cfg.Enabled() {
		logger.Info().Msg("S3 endpoint not configured, avatar mirroring disabled")
		return NoopMirror{}, nil
	}

	log := logger.With().Str("component", "avatar-mirror").Logger()
	client, err := NewClient(newConfig(s3Cfg), log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("initializing S3/MinIO client...")
			if err := client.EnsureBucket(ctx); err != nil {
				return err
			}
			log.Info().Msg("S3/MinIO client initialized successfully")
			return nil
		},
	})

	return client, nil
}

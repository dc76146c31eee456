package nostr

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	channeldeps "github.com/Conte777/newsrelay/internal/domain/channel/deps"
	publishdeps "github.com/Conte777/newsrelay/internal/domain/publish/deps"
)

// Module provides relay client, signer and key generator for fx DI
var Module = fx.Module("nostr",
	fx.Provide(
		NewClientFx,
		provideSigner,
		provideKeyGenerator,
	),
)

// NewClientFx creates the relay client from config
func NewClientFx(nostrCfg *config.NostrConfig, logger zerolog.Logger) publishdeps.RelayClient {
	return NewClient(nostrCfg.ConnectTimeout, logger.With().Str("component", "relay-client").Logger())
}

func provideSigner() publishdeps.Signer {
	return NewSigner()
}

func provideKeyGenerator() channeldeps.KeyGenerator {
	return NewKeyGenerator()
}

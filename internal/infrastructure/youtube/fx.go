package youtube

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/newsrelay/config"
	channeldeps "github.com/Conte777/newsrelay/internal/domain/channel/deps"
	orchestratordeps "github.com/Conte777/newsrelay/internal/domain/orchestrator/deps"
)

// Module provides the YouTube fetcher for fx DI
var Module = fx.Module("youtube",
	fx.Provide(
		NewClientFx,
		provideProfileFetcher,
		provideItemFetcher,
	),
)

// NewClientFx creates the YouTube client from config
func NewClientFx(youtubeCfg *config.YouTubeConfig, logger zerolog.Logger) *Client {
	return NewClient(youtubeCfg, logger.With().Str("component", "youtube-client").Logger())
}

func provideProfileFetcher(client *Client) channeldeps.ProfileFetcher {
	return client
}

func provideItemFetcher(client *Client) orchestratordeps.ItemFetcher {
	return client
}

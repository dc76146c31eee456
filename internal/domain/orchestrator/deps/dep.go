package deps

import (
	"context"

	channelentities "github.com/Conte777/newsrelay/internal/domain/channel/entities"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
	publishentities "github.com/Conte777/newsrelay/internal/domain/publish/entities"
)

// IdentityManager resolves the identity of a channel
type IdentityManager interface {
	ResolveIdentity(ctx context.Context, channelKey string) (*channelentities.ChannelIdentity, error)
	BackfillProfile(ctx context.Context, identity *channelentities.ChannelIdentity) (*channelentities.ChannelIdentity, error)
}

// Ledger records which items were already handled
type Ledger interface {
	Exists(ctx context.Context, link string) (bool, error)
	Record(ctx context.Context, channelKey, author, title, link string, published bool) error
}

// Publisher runs the publish sequence for one message
type Publisher interface {
	Publish(ctx context.Context, identity *channelentities.ChannelIdentity, message string, relays []string) (*publishentities.Result, error)
}

// ItemFetcher lists a channel's latest items
type ItemFetcher interface {
	FetchNewItems(ctx context.Context, remoteChannelID string) ([]dto.FetchedItem, error)
}

// Notifier announces publish outcomes
type Notifier interface {
	NotifyPublished(ctx context.Context, event *dto.ItemPublishedEvent) error
}

package deps

import (
	"context"

	"github.com/Conte777/newsrelay/internal/domain/channel/entities"
)

// IdentityRepository defines the interface for identity data access
type IdentityRepository interface {
	// Get returns the identity for channelKey, or nil when none is stored
	Get(ctx context.Context, channelKey string) (*entities.ChannelIdentity, error)

	// Put stores a new identity; fails with a duplicate error if channelKey is taken
	Put(ctx context.Context, identity *entities.ChannelIdentity) error

	// Backfill sets remote channel ID and avatar URL only where they are still empty
	Backfill(ctx context.Context, channelKey, remoteChannelID, avatarURL string) error
}

// ProfileFetcher resolves upstream channel metadata
type ProfileFetcher interface {
	FetchChannelID(ctx context.Context, channelKey string) (string, error)
	FetchProfile(ctx context.Context, remoteChannelID string) (*entities.ChannelProfile, error)
}

// KeyGenerator mints new network keypairs
type KeyGenerator interface {
	Generate() (*entities.KeyPair, error)
}

// AvatarMirror copies an avatar to storage we control and returns its public URL
type AvatarMirror interface {
	Mirror(ctx context.Context, channelKey, avatarURL string) (string, error)
}

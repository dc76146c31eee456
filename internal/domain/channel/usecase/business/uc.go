package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conte777/newsrelay/internal/domain/channel/deps"
	"github.com/Conte777/newsrelay/internal/domain/channel/entities"
	channelerrors "github.com/Conte777/newsrelay/internal/domain/channel/errors"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

// UseCase resolves and mints channel identities
type UseCase struct {
	identityRepo deps.IdentityRepository
	fetcher      deps.ProfileFetcher
	keys         deps.KeyGenerator
	mirror       deps.AvatarMirror
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewUseCase creates a new identity use case
func NewUseCase(
	identityRepo deps.IdentityRepository,
	fetcher deps.ProfileFetcher,
	keys deps.KeyGenerator,
	mirror deps.AvatarMirror,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		identityRepo: identityRepo,
		fetcher:      fetcher,
		keys:         keys,
		mirror:       mirror,
		metrics:      m,
		logger:       logger.With().Str("component", "identity-manager").Logger(),
	}
}

// ResolveIdentity returns the stored identity for channelKey, minting and persisting one on first encounter.
// Nothing is persisted unless upstream metadata and key generation both succeed.
func (u *UseCase) ResolveIdentity(ctx context.Context, channelKey string) (*entities.ChannelIdentity, error) {
	if strings.TrimSpace(channelKey) == "" {
		return nil, channelerrors.ErrInvalidChannelKey
	}

	identity, err := u.identityRepo.Get(ctx, channelKey)
	if err != nil {
		u.logger.Error().Err(err).
			Str("channel_key", channelKey).
			Msg("Failed to look up channel identity")
		return nil, err
	}

	if identity != nil {
		return identity, nil
	}

	profile, err := u.fetchProfile(ctx, channelKey)
	if err != nil {
		u.logger.Error().Err(err).
			Str("channel_key", channelKey).
			Msg("Failed to fetch channel metadata")
		return nil, err
	}

	keys, err := u.keys.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}

	identity = &entities.ChannelIdentity{
		ChannelKey:      channelKey,
		DisplayName:     profile.DisplayName,
		AvatarURL:       u.mirrorAvatar(ctx, channelKey, profile.AvatarURL),
		PublicKey:       keys.PublicKey,
		PrivateKey:      keys.PrivateKey,
		RemoteChannelID: profile.RemoteChannelID,
	}

	if err := u.identityRepo.Put(ctx, identity); err != nil {
		if !pkgerrors.IsDuplicateError(err) {
			u.logger.Error().Err(err).
				Str("channel_key", channelKey).
				Msg("Failed to store channel identity")
			return nil, err
		}

		// A concurrent resolve stored its identity first; the stored one wins.
		existing, getErr := u.identityRepo.Get(ctx, channelKey)
		if getErr != nil {
			return nil, getErr
		}
		if existing == nil {
			return nil, err
		}

		u.logger.Debug().
			Str("channel_key", channelKey).
			Msg("Channel identity created concurrently, using stored record")
		return existing, nil
	}

	u.metrics.RecordIdentityCreated()

	u.logger.Info().
		Str("channel_key", channelKey).
		Str("public_key", identity.PublicKey).
		Str("remote_channel_id", identity.RemoteChannelID).
		Msg("Channel identity created")

	return identity, nil
}

// BackfillProfile fills a stored identity's missing remote channel ID and avatar URL.
// Values that are already set are never overwritten.
func (u *UseCase) BackfillProfile(ctx context.Context, identity *entities.ChannelIdentity) (*entities.ChannelIdentity, error) {
	if !identity.NeedsBackfill() {
		return identity, nil
	}

	remoteID := identity.RemoteChannelID
	if remoteID == "" {
		id, err := u.fetcher.FetchChannelID(ctx, identity.ChannelKey)
		if err != nil {
			return identity, asUpstream("failed to fetch channel id", err)
		}
		remoteID = id
	}

	avatarURL := ""
	if identity.AvatarURL == "" {
		profile, err := u.fetcher.FetchProfile(ctx, remoteID)
		if err != nil {
			u.logger.Warn().Err(err).
				Str("channel_key", identity.ChannelKey).
				Msg("Failed to fetch avatar for backfill")
		} else {
			avatarURL = u.mirrorAvatar(ctx, identity.ChannelKey, profile.AvatarURL)
		}
	}

	setRemoteID := ""
	if identity.RemoteChannelID == "" {
		setRemoteID = remoteID
	}

	if err := u.identityRepo.Backfill(ctx, identity.ChannelKey, setRemoteID, avatarURL); err != nil {
		return identity, err
	}

	updated, err := u.identityRepo.Get(ctx, identity.ChannelKey)
	if err != nil {
		return identity, err
	}
	if updated == nil {
		return identity, nil
	}

	u.logger.Info().
		Str("channel_key", identity.ChannelKey).
		Str("remote_channel_id", updated.RemoteChannelID).
		Bool("avatar_set", updated.AvatarURL != "").
		Msg("Channel identity backfilled")

	return updated, nil
}

// fetchProfile resolves the upstream channel ID and profile for a never-seen channel
func (u *UseCase) fetchProfile(ctx context.Context, channelKey string) (*entities.ChannelProfile, error) {
	remoteID, err := u.fetcher.FetchChannelID(ctx, channelKey)
	if err != nil {
		return nil, asUpstream("failed to fetch channel id", err)
	}

	profile, err := u.fetcher.FetchProfile(ctx, remoteID)
	if err != nil {
		return nil, asUpstream("failed to fetch channel profile", err)
	}

	return &entities.ChannelProfile{
		RemoteChannelID: remoteID,
		DisplayName:     profile.DisplayName,
		AvatarURL:       profile.AvatarURL,
	}, nil
}

// mirrorAvatar returns the mirrored avatar URL, falling back to the upstream one
func (u *UseCase) mirrorAvatar(ctx context.Context, channelKey, avatarURL string) string {
	if u.mirror == nil || avatarURL == "" {
		return avatarURL
	}

	mirrored, err := u.mirror.Mirror(ctx, channelKey, avatarURL)
	if err != nil {
		u.logger.Warn().Err(err).
			Str("channel_key", channelKey).
			Str("avatar_url", avatarURL).
			Msg("Failed to mirror avatar, using upstream URL")
		return avatarURL
	}
	if mirrored == "" {
		return avatarURL
	}
	return mirrored
}

func asUpstream(msg string, err error) error {
	if pkgerrors.IsUpstreamFetchError(err) {
		return err
	}
	return pkgerrors.NewUpstreamFetchError(msg, err)
}

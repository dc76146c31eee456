package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Conte777/newsrelay/internal/domain/channel/deps"
	"github.com/Conte777/newsrelay/internal/domain/channel/entities"
	channelerrors "github.com/Conte777/newsrelay/internal/domain/channel/errors"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) deps.IdentityRepository {
	return &identityRepository{
		db: db,
	}
}

// Get retrieves the identity for a channel key
func (r *identityRepository) Get(ctx context.Context, channelKey string) (*entities.ChannelIdentity, error) {
	var identity entities.ChannelIdentity
	result := r.db.WithContext(ctx).
		Where("channel_key = ?", channelKey).
		First(&identity)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.NewStorageError("failed to get channel identity", result.Error)
	}

	return &identity, nil
}

// Put stores a new identity
func (r *identityRepository) Put(ctx context.Context, identity *entities.ChannelIdentity) error {
	result := r.db.WithContext(ctx).Create(identity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return channelerrors.ErrIdentityAlreadyExists
		}
		return pkgerrors.NewStorageError("failed to create channel identity", result.Error)
	}
	return nil
}

// Backfill fills empty remote channel ID and avatar URL columns, leaving set values untouched
func (r *identityRepository) Backfill(ctx context.Context, channelKey, remoteChannelID, avatarURL string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if remoteChannelID != "" {
			result := tx.Model(&entities.ChannelIdentity{}).
				Where("channel_key = ? AND remote_channel_id = ?", channelKey, "").
				Update("remote_channel_id", remoteChannelID)
			if result.Error != nil {
				return pkgerrors.NewStorageError("failed to backfill remote channel id", result.Error)
			}
		}

		if avatarURL != "" {
			result := tx.Model(&entities.ChannelIdentity{}).
				Where("channel_key = ? AND avatar_url = ?", channelKey, "").
				Update("avatar_url", avatarURL)
			if result.Error != nil {
				return pkgerrors.NewStorageError("failed to backfill avatar url", result.Error)
			}
		}

		return nil
	})
}

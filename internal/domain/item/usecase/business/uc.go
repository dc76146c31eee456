package business

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Conte777/newsrelay/internal/domain/item/deps"
	"github.com/Conte777/newsrelay/internal/domain/item/entities"
	itemerrors "github.com/Conte777/newsrelay/internal/domain/item/errors"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
)

// UseCase is the ingestion ledger; records are append-only
type UseCase struct {
	itemRepo deps.ItemRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewUseCase creates a new ledger use case
func NewUseCase(itemRepo deps.ItemRepository, m *metrics.Metrics, logger zerolog.Logger) *UseCase {
	return &UseCase{
		itemRepo: itemRepo,
		metrics:  m,
		logger:   logger.With().Str("component", "ledger").Logger(),
	}
}

// Exists reports whether the link was ever recorded, for any channel
func (u *UseCase) Exists(ctx context.Context, link string) (bool, error) {
	exists, err := u.itemRepo.Exists(ctx, link)
	if err != nil {
		u.logger.Error().Err(err).
			Str("link", link).
			Msg("Failed to check ledger")
		return false, err
	}
	return exists, nil
}

// Record appends an item to the ledger. A link that is already recorded
// yields ErrItemAlreadyRecorded and leaves the ledger unchanged.
func (u *UseCase) Record(ctx context.Context, channelKey, author, title, link string, published bool) error {
	if strings.TrimSpace(link) == "" {
		return itemerrors.ErrInvalidLink
	}

	item := &entities.IngestedItem{
		ChannelKey: channelKey,
		Title:      title,
		Link:       link,
		Author:     author,
		Published:  published,
	}

	if err := u.itemRepo.Insert(ctx, item); err != nil {
		if errors.Is(err, itemerrors.ErrItemAlreadyRecorded) {
			u.logger.Debug().
				Str("channel_key", channelKey).
				Str("link", link).
				Msg("Item already recorded")
			return err
		}
		u.logger.Error().Err(err).
			Str("channel_key", channelKey).
			Str("link", link).
			Msg("Failed to record item")
		return err
	}

	u.metrics.RecordItemRecorded()

	u.logger.Debug().
		Str("channel_key", channelKey).
		Str("link", link).
		Msg("Item recorded")

	return nil
}

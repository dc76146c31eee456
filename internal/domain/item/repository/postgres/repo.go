package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Conte777/newsrelay/internal/domain/item/deps"
	"github.com/Conte777/newsrelay/internal/domain/item/entities"
	itemerrors "github.com/Conte777/newsrelay/internal/domain/item/errors"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new ledger repository
func NewItemRepository(db *gorm.DB) deps.ItemRepository {
	return &itemRepository{
		db: db,
	}
}

// Exists checks if an item with the link has been recorded
func (r *itemRepository) Exists(ctx context.Context, link string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&entities.IngestedItem{}).
		Where("link = ?", link).
		Count(&count)

	if result.Error != nil {
		return false, pkgerrors.NewStorageError("failed to check item existence", result.Error)
	}

	return count > 0, nil
}

// Insert records a new item
func (r *itemRepository) Insert(ctx context.Context, item *entities.IngestedItem) error {
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return itemerrors.ErrItemAlreadyRecorded
		}
		return pkgerrors.NewStorageError("failed to record item", result.Error)
	}
	return nil
}

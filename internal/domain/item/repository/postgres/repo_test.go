package postgres

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/newsrelay/internal/domain/item/entities"
	itemerrors "github.com/Conte777/newsrelay/internal/domain/item/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entities.IngestedItem{}))
	return db
}

func TestItemRepository_ExistsAfterInsert(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestDB(t))

	exists, err := repo.Exists(ctx, "http://x/ep1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Insert(ctx, &entities.IngestedItem{
		ChannelKey: "abc",
		Title:      "Ep1",
		Link:       "http://x/ep1",
		Author:     "npub1abc",
	}))

	exists, err = repo.Exists(ctx, "http://x/ep1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestItemRepository_InsertDuplicateLink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewItemRepository(db)

	require.NoError(t, repo.Insert(ctx, &entities.IngestedItem{ChannelKey: "abc", Link: "http://x/ep1"}))

	err := repo.Insert(ctx, &entities.IngestedItem{ChannelKey: "other", Link: "http://x/ep1"})
	assert.ErrorIs(t, err, itemerrors.ErrItemAlreadyRecorded)

	var count int64
	require.NoError(t, db.Model(&entities.IngestedItem{}).Where("channel_key = ?", "other").Count(&count).Error)
	assert.Zero(t, count)
}

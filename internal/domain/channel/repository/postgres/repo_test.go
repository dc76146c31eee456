package postgres

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/newsrelay/internal/domain/channel/entities"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
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

	require.NoError(t, db.AutoMigrate(&entities.ChannelIdentity{}))
	return db
}

func TestIdentityRepository_GetAbsent(t *testing.T) {
	repo := NewIdentityRepository(newTestDB(t))

	identity, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestIdentityRepository_PutAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(newTestDB(t))

	require.NoError(t, repo.Put(ctx, &entities.ChannelIdentity{
		ChannelKey:      "abc",
		DisplayName:     "Abc Channel",
		AvatarURL:       "http://x/a.png",
		PublicKey:       "npub1abc",
		PrivateKey:      "nsec1abc",
		RemoteChannelID: "UC123",
	}))

	identity, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "Abc Channel", identity.DisplayName)
	assert.Equal(t, "npub1abc", identity.PublicKey)
	assert.Equal(t, "nsec1abc", identity.PrivateKey)
	assert.Equal(t, "UC123", identity.RemoteChannelID)
}

func TestIdentityRepository_PutDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(newTestDB(t))

	require.NoError(t, repo.Put(ctx, &entities.ChannelIdentity{ChannelKey: "abc", PublicKey: "p1", PrivateKey: "s1"}))

	err := repo.Put(ctx, &entities.ChannelIdentity{ChannelKey: "abc", PublicKey: "p2", PrivateKey: "s2"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateError(err))

	identity, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "p1", identity.PublicKey)
}

func TestIdentityRepository_BackfillOnlyEmptyColumns(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(newTestDB(t))

	require.NoError(t, repo.Put(ctx, &entities.ChannelIdentity{
		ChannelKey:      "abc",
		PublicKey:       "p1",
		PrivateKey:      "s1",
		RemoteChannelID: "UC123",
	}))

	require.NoError(t, repo.Backfill(ctx, "abc", "UC999", "http://x/a.png"))

	identity, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "UC123", identity.RemoteChannelID)
	assert.Equal(t, "http://x/a.png", identity.AvatarURL)

	require.NoError(t, repo.Backfill(ctx, "abc", "", "http://x/b.png"))

	identity, err = repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "http://x/a.png", identity.AvatarURL)
}

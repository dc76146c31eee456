package business

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/newsrelay/internal/domain/item/entities"
	itemerrors "github.com/Conte777/newsrelay/internal/domain/item/errors"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

// mockItemRepository is a mock implementation of deps.ItemRepository
type mockItemRepository struct {
	existsFunc func(ctx context.Context, link string) (bool, error)
	insertFunc func(ctx context.Context, item *entities.IngestedItem) error
	inserted   []entities.IngestedItem
}

func (m *mockItemRepository) Exists(ctx context.Context, link string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, link)
	}
	for _, item := range m.inserted {
		if item.Link == link {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockItemRepository) Insert(ctx context.Context, item *entities.IngestedItem) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, item)
	}
	for _, existing := range m.inserted {
		if existing.Link == item.Link {
			return itemerrors.ErrItemAlreadyRecorded
		}
	}
	m.inserted = append(m.inserted, *item)
	return nil
}

func TestRecord_ThenExists(t *testing.T) {
	ctx := context.Background()
	repo := &mockItemRepository{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	uc := NewUseCase(repo, m, zerolog.Nop())

	exists, err := uc.Exists(ctx, "http://x/ep1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, uc.Record(ctx, "abc", "npub1abc", "Ep1", "http://x/ep1", false))

	exists, err = uc.Exists(ctx, "http://x/ep1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, entities.IngestedItem{
		ChannelKey: "abc",
		Title:      "Ep1",
		Link:       "http://x/ep1",
		Author:     "npub1abc",
		Published:  false,
	}, repo.inserted[0])
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ItemsRecorded))
}

func TestRecord_DuplicateLinkAcrossChannels(t *testing.T) {
	ctx := context.Background()
	repo := &mockItemRepository{}
	uc := NewUseCase(repo, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())

	require.NoError(t, uc.Record(ctx, "abc", "npub1abc", "Ep1", "http://x/ep1", false))

	err := uc.Record(ctx, "def", "npub1def", "Ep1 mirror", "http://x/ep1", false)
	assert.ErrorIs(t, err, itemerrors.ErrItemAlreadyRecorded)
	assert.True(t, pkgerrors.IsDuplicateError(err))
	assert.Len(t, repo.inserted, 1)
}

func TestRecord_EmptyLink(t *testing.T) {
	repo := &mockItemRepository{}
	uc := NewUseCase(repo, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())

	err := uc.Record(context.Background(), "abc", "npub1abc", "Ep1", "", false)
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.Empty(t, repo.inserted)
}

func TestExists_StorageError(t *testing.T) {
	repo := &mockItemRepository{
		existsFunc: func(ctx context.Context, link string) (bool, error) {
			return false, pkgerrors.NewStorageError("failed to check item existence", errors.New("connection refused"))
		},
	}
	uc := NewUseCase(repo, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())

	_, err := uc.Exists(context.Background(), "http://x/ep1")
	assert.True(t, pkgerrors.IsStorageError(err))
}

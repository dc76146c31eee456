package business

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/newsrelay/config"
	channelentities "github.com/Conte777/newsrelay/internal/domain/channel/entities"
	channelpostgres "github.com/Conte777/newsrelay/internal/domain/channel/repository/postgres"
	channelbusiness "github.com/Conte777/newsrelay/internal/domain/channel/usecase/business"
	itementities "github.com/Conte777/newsrelay/internal/domain/item/entities"
	itempostgres "github.com/Conte777/newsrelay/internal/domain/item/repository/postgres"
	itembusiness "github.com/Conte777/newsrelay/internal/domain/item/usecase/business"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
	publishdeps "github.com/Conte777/newsrelay/internal/domain/publish/deps"
	publishentities "github.com/Conte777/newsrelay/internal/domain/publish/entities"
	publishbusiness "github.com/Conte777/newsrelay/internal/domain/publish/usecase/business"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
	"github.com/Conte777/newsrelay/internal/infrastructure/nostr"
)

// stubUpstream serves canned channel metadata and items
type stubUpstream struct {
	mu         sync.Mutex
	idLookups  int
	items      []dto.FetchedItem
	remoteID   string
	profileFor map[string]*channelentities.ChannelProfile
}

func (s *stubUpstream) FetchChannelID(ctx context.Context, channelKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idLookups++
	return s.remoteID, nil
}

func (s *stubUpstream) FetchProfile(ctx context.Context, remoteChannelID string) (*channelentities.ChannelProfile, error) {
	return s.profileFor[remoteChannelID], nil
}

func (s *stubUpstream) FetchNewItems(ctx context.Context, remoteChannelID string) ([]dto.FetchedItem, error) {
	return s.items, nil
}

// recordingRelayClient accepts every connection and keeps published events
type recordingRelayClient struct {
	mu       sync.Mutex
	profiles []*publishentities.SignedEvent
	events   []*publishentities.SignedEvent
}

func (c *recordingRelayClient) Connect(ctx context.Context, endpoints []string) (publishdeps.Session, error) {
	return &recordingSession{client: c, relays: endpoints}, nil
}

type recordingSession struct {
	client *recordingRelayClient
	relays []string
}

func (s *recordingSession) Relays() []string { return s.relays }

func (s *recordingSession) SetProfile(ctx context.Context, event *publishentities.SignedEvent) error {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	s.client.profiles = append(s.client.profiles, event)
	return nil
}

func (s *recordingSession) Publish(ctx context.Context, event *publishentities.SignedEvent) error {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	s.client.events = append(s.client.events, event)
	return nil
}

func (s *recordingSession) Disconnect() error { return nil }

func newE2EDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, db.AutoMigrate(&channelentities.ChannelIdentity{}, &itementities.IngestedItem{}))
	return db
}

func TestEndToEnd_NewChannelFirstItem(t *testing.T) {
	ctx := context.Background()
	db := newE2EDB(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := zerolog.Nop()

	upstream := &stubUpstream{
		remoteID: "UC123",
		profileFor: map[string]*channelentities.ChannelProfile{
			"UC123": {DisplayName: "Abc Channel", AvatarURL: "http://x/a.png"},
		},
		items: []dto.FetchedItem{{Title: "Ep1", Link: "http://x/ep1", Author: "Abc Channel"}},
	}
	relays := &recordingRelayClient{}
	nostrCfg := &config.NostrConfig{
		Relays:      []string{"wss://relay.one", "wss://relay.two", "wss://relay.three"},
		StepTimeout: time.Second,
	}

	identities := channelbusiness.NewUseCase(
		channelpostgres.NewIdentityRepository(db), upstream, nostr.NewKeyGenerator(), nil, m, log)
	ledger := itembusiness.NewUseCase(itempostgres.NewItemRepository(db), m, log)
	publisher := publishbusiness.NewUseCase(relays, nostr.NewSigner(), nostrCfg, m, log)

	uc := NewUseCase(
		identities, ledger, publisher, upstream, &mockNotifier{},
		&config.ChannelsConfig{Keys: []string{"abc"}},
		nostrCfg,
		&config.PollConfig{Concurrency: 1},
		m, log,
	)

	before := time.Now()
	report := uc.RunCycle(ctx)
	require.NoError(t, report.Channels[0].Err)
	assert.Equal(t, 1, report.Published)

	var identityRows []channelentities.ChannelIdentity
	require.NoError(t, db.Find(&identityRows).Error)
	require.Len(t, identityRows, 1)
	identity := identityRows[0]
	assert.Equal(t, "abc", identity.ChannelKey)
	assert.Equal(t, "Abc Channel", identity.DisplayName)
	assert.Equal(t, "http://x/a.png", identity.AvatarURL)
	assert.Equal(t, "UC123", identity.RemoteChannelID)
	assert.True(t, strings.HasPrefix(identity.PublicKey, "npub1"))
	assert.True(t, strings.HasPrefix(identity.PrivateKey, "nsec1"))

	var itemRows []itementities.IngestedItem
	require.NoError(t, db.Find(&itemRows).Error)
	require.Len(t, itemRows, 1)
	assert.Equal(t, "http://x/ep1", itemRows[0].Link)
	assert.Equal(t, "abc", itemRows[0].ChannelKey)
	assert.Equal(t, "Ep1", itemRows[0].Title)

	require.Len(t, relays.events, 1)
	event := relays.events[0]
	assert.Contains(t, event.Content, "Ep1")
	assert.Contains(t, event.Content, "http://x/ep1")
	assert.False(t, event.CreatedAt.After(time.Now()))
	assert.False(t, event.CreatedAt.Before(before.Add(-publishbusiness.MaxJitter).Truncate(time.Second)))

	pubHex, err := nostr.DecodePublicKey(identity.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, pubHex, event.PubKey)
	require.Len(t, relays.profiles, 1)

	// Second cycle: identity reused, item skipped, nothing new published.
	report = uc.RunCycle(ctx)
	require.NoError(t, report.Channels[0].Err)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, relays.events, 1)
	assert.Equal(t, 1, upstream.idLookups)

	require.NoError(t, db.Find(&identityRows).Error)
	assert.Len(t, identityRows, 1)
}

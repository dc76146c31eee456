package business

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/newsrelay/config"
	channelentities "github.com/Conte777/newsrelay/internal/domain/channel/entities"
	"github.com/Conte777/newsrelay/internal/domain/publish/deps"
	"github.com/Conte777/newsrelay/internal/domain/publish/entities"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

// MaxJitter bounds how far an event timestamp is moved into the past
const MaxJitter = time.Hour

// UseCase runs the connect, profile sync, emit, disconnect sequence
type UseCase struct {
	client      deps.RelayClient
	signer      deps.Signer
	stepTimeout time.Duration
	profile     entities.Profile
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	now    func() time.Time
	jitter func() time.Duration
}

// NewUseCase creates a new publish pipeline
func NewUseCase(
	client deps.RelayClient,
	signer deps.Signer,
	nostrCfg *config.NostrConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		client:      client,
		signer:      signer,
		stepTimeout: nostrCfg.StepTimeout,
		profile: entities.Profile{
			About:   nostrCfg.ProfileAbout,
			NIP05:   nostrCfg.ProfileNIP05,
			LUD16:   nostrCfg.ProfileLUD16,
			Website: nostrCfg.ProfileWebsite,
		},
		metrics: m,
		logger:  logger.With().Str("component", "publish-pipeline").Logger(),
		now:     time.Now,
		jitter: func() time.Duration {
			return rand.N(MaxJitter)
		},
	}
}

// Publish signs message under the identity and broadcasts it to relays.
// Connect, profile sync and disconnect failures are logged; only an emit failure is returned.
func (u *UseCase) Publish(
	ctx context.Context,
	identity *channelentities.ChannelIdentity,
	message string,
	relays []string,
) (*entities.Result, error) {
	if len(relays) == 0 {
		return nil, pkgerrors.NewValidationError("relay set is empty")
	}

	// Not yet connected: a stopping caller abandons the publish here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := u.logger.With().
		Str("channel_key", identity.ChannelKey).
		Str("public_key", identity.PublicKey).
		Logger()

	start := time.Now()
	session, err := u.client.Connect(ctx, relays)
	u.metrics.ObserveStep(string(pkgerrors.StepConnect), time.Since(start).Seconds())
	if err != nil {
		log.Warn().Err(err).
			Int("requested", len(relays)).
			Msg("Some relays could not be connected")
	}
	if session == nil {
		err = &pkgerrors.PublishError{Step: pkgerrors.StepEmit, Err: pkgerrors.NewRelayError("no relay session", err)}
		u.metrics.RecordPublishError(pkgerrors.ErrorType(err))
		return nil, err
	}

	connected := len(session.Relays())
	u.metrics.ObserveConnectedRelays(connected)

	defer u.disconnect(session, log)

	// Past connect, the sequence runs to its emit step even if the caller is stopping.
	stepCtx := context.WithoutCancel(ctx)

	u.syncProfile(stepCtx, session, identity, log)

	event, err := u.emit(stepCtx, session, identity, message)
	if err != nil {
		u.metrics.RecordPublishError(pkgerrors.ErrorType(err))
		log.Error().Err(err).
			Int("connected", connected).
			Msg("Failed to emit event")
		return nil, err
	}

	u.metrics.RecordPublish()

	log.Info().
		Str("event_id", event.ID).
		Int("connected", connected).
		Time("created_at", event.CreatedAt).
		Msg("Event published")

	return &entities.Result{
		EventID:         event.ID,
		PublicKey:       event.PubKey,
		CreatedAt:       event.CreatedAt,
		ConnectedRelays: connected,
	}, nil
}

// syncProfile pushes the identity's kind-0 metadata; failures are logged only
func (u *UseCase) syncProfile(ctx context.Context, session deps.Session, identity *channelentities.ChannelIdentity, log zerolog.Logger) {
	profile := u.profile
	profile.Name = identity.DisplayName
	profile.DisplayName = identity.DisplayName
	profile.Picture = identity.AvatarURL
	profile.Banner = identity.AvatarURL

	content, err := json.Marshal(profile)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode profile metadata")
		return
	}

	event, err := u.signer.Sign(identity.PrivateKey, entities.Event{
		Kind:      entities.KindProfileMetadata,
		Content:   string(content),
		CreatedAt: u.now(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to sign profile metadata")
		return
	}

	stepCtx, cancel := context.WithTimeout(ctx, u.stepTimeout)
	defer cancel()

	start := time.Now()
	err = session.SetProfile(stepCtx, event)
	u.metrics.ObserveStep(string(pkgerrors.StepProfile), time.Since(start).Seconds())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to sync profile metadata")
	}
}

// emit signs the message with a jittered timestamp and broadcasts it
func (u *UseCase) emit(ctx context.Context, session deps.Session, identity *channelentities.ChannelIdentity, message string) (*entities.SignedEvent, error) {
	event, err := u.signer.Sign(identity.PrivateKey, entities.Event{
		Kind:      entities.KindTextNote,
		Content:   message,
		Tags:      [][]string{},
		CreatedAt: u.now().Add(-u.jitter()),
	})
	if err != nil {
		return nil, pkgerrors.NewEmitError(err)
	}

	stepCtx, cancel := context.WithTimeout(ctx, u.stepTimeout)
	defer cancel()

	start := time.Now()
	err = session.Publish(stepCtx, event)
	u.metrics.ObserveStep(string(pkgerrors.StepEmit), time.Since(start).Seconds())
	if err != nil {
		return nil, pkgerrors.NewEmitError(err)
	}

	return event, nil
}

func (u *UseCase) disconnect(session deps.Session, log zerolog.Logger) {
	start := time.Now()
	err := session.Disconnect()
	u.metrics.ObserveStep(string(pkgerrors.StepDisconnect), time.Since(start).Seconds())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to disconnect relays")
	}
}

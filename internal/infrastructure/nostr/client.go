package nostr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gonostr "github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Conte777/newsrelay/internal/domain/publish/deps"
	"github.com/Conte777/newsrelay/internal/domain/publish/entities"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

// Client dials relays in parallel
type Client struct {
	connectTimeout time.Duration
	logger         zerolog.Logger
}

// NewClient creates a new relay client
func NewClient(connectTimeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		connectTimeout: connectTimeout,
		logger:         logger,
	}
}

// Connect dials every endpoint, each bounded by the connect timeout.
// The returned session holds whatever subset connected.
func (c *Client) Connect(ctx context.Context, endpoints []string) (deps.Session, error) {
	s := &session{logger: c.logger}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)

	for _, url := range endpoints {
		g.Go(func() error {
			dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
			defer cancel()

			relay, err := gonostr.RelayConnect(dialCtx, url)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				c.logger.Warn().Err(err).
					Str("relay", url).
					Msg("Failed to connect to relay")
				errs = append(errs, fmt.Errorf("%s: %w", url, err))
				return nil
			}

			c.logger.Debug().Str("relay", url).Msg("Connected to relay")
			s.relays = append(s.relays, relay)
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return s, pkgerrors.NewRelayError(
			fmt.Sprintf("connected to %d of %d relays", len(s.relays), len(endpoints)),
			errors.Join(errs...),
		)
	}
	return s, nil
}

type session struct {
	relays []*gonostr.Relay
	logger zerolog.Logger
}

func (s *session) Relays() []string {
	urls := make([]string, 0, len(s.relays))
	for _, relay := range s.relays {
		urls = append(urls, relay.URL)
	}
	return urls
}

func (s *session) SetProfile(ctx context.Context, event *entities.SignedEvent) error {
	if _, err := s.broadcast(ctx, event); err != nil {
		return pkgerrors.NewRelayError("failed to set profile", err)
	}
	return nil
}

func (s *session) Publish(ctx context.Context, event *entities.SignedEvent) error {
	accepted, err := s.broadcast(ctx, event)
	if err != nil {
		return pkgerrors.NewRelayError("failed to publish event", err)
	}

	s.logger.Debug().
		Str("event_id", event.ID).
		Int("accepted", accepted).
		Int("connected", len(s.relays)).
		Msg("Event broadcast")
	return nil
}

// broadcast sends the event to every relay and fails only when none accepted it
func (s *session) broadcast(ctx context.Context, event *entities.SignedEvent) (int, error) {
	if len(s.relays) == 0 {
		return 0, errors.New("no connected relays")
	}

	ev := toEvent(event)

	var (
		mu       sync.Mutex
		accepted int
		errs     []error
		g        errgroup.Group
	)

	for _, relay := range s.relays {
		g.Go(func() error {
			err := relay.Publish(ctx, ev)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				s.logger.Warn().Err(err).
					Str("relay", relay.URL).
					Str("event_id", ev.ID).
					Int("kind", ev.Kind).
					Msg("Relay rejected event")
				errs = append(errs, fmt.Errorf("%s: %w", relay.URL, err))
				return nil
			}
			accepted++
			return nil
		})
	}
	_ = g.Wait()

	if accepted == 0 {
		return 0, errors.Join(errs...)
	}
	return accepted, nil
}

func (s *session) Disconnect() error {
	var errs []error
	for _, relay := range s.relays {
		if err := relay.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", relay.URL, err))
		}
	}
	return errors.Join(errs...)
}

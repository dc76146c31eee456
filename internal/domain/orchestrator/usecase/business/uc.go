package business

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Conte777/newsrelay/config"
	channelentities "github.com/Conte777/newsrelay/internal/domain/channel/entities"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/deps"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
	"github.com/Conte777/newsrelay/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/newsrelay/pkg/errors"
)

// UseCase drives poll cycles over the configured channels
type UseCase struct {
	identities  deps.IdentityManager
	ledger      deps.Ledger
	publisher   deps.Publisher
	fetcher     deps.ItemFetcher
	notifier    deps.Notifier
	channels    []string
	relays      []string
	concurrency int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewUseCase creates a new orchestrator use case
func NewUseCase(
	identities deps.IdentityManager,
	ledger deps.Ledger,
	publisher deps.Publisher,
	fetcher deps.ItemFetcher,
	notifier deps.Notifier,
	channelsCfg *config.ChannelsConfig,
	nostrCfg *config.NostrConfig,
	pollCfg *config.PollConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	concurrency := pollCfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &UseCase{
		identities:  identities,
		ledger:      ledger,
		publisher:   publisher,
		fetcher:     fetcher,
		notifier:    notifier,
		channels:    channelsCfg.Keys,
		relays:      nostrCfg.Relays,
		concurrency: concurrency,
		metrics:     m,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
	}
}

// FormatMessage builds the published text of an item
func FormatMessage(title, link string) string {
	return title + ": " + link
}

// RunCycle processes every configured channel once. A failing channel is
// reported and logged but never stops the others.
func (u *UseCase) RunCycle(ctx context.Context) *dto.CycleReport {
	start := time.Now()

	u.logger.Info().
		Int("channels_count", len(u.channels)).
		Int("relays_count", len(u.relays)).
		Msg("Starting poll cycle")

	reports := make([]dto.ChannelReport, len(u.channels))

	var g errgroup.Group
	g.SetLimit(u.concurrency)

	for i, channelKey := range u.channels {
		g.Go(func() error {
			reports[i] = u.ProcessChannel(ctx, channelKey)
			return nil
		})
	}
	_ = g.Wait()

	report := &dto.CycleReport{
		Channels: reports,
		Duration: time.Since(start),
	}
	for _, r := range reports {
		report.Published += r.Published
		report.Failed += r.Failed
		report.Skipped += r.Skipped
		if r.Err != nil {
			report.FailedChannels++
		}
	}

	u.metrics.RecordCycle(report.Duration.Seconds())

	u.logger.Info().
		Int("published", report.Published).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Int("failed_channels", report.FailedChannels).
		Dur("duration", report.Duration).
		Msg("Poll cycle completed")

	return report
}

// ProcessChannel runs one channel through identity, fetch, dedup, record and publish.
// Steps within a channel are strictly sequential.
func (u *UseCase) ProcessChannel(ctx context.Context, channelKey string) dto.ChannelReport {
	report := dto.ChannelReport{ChannelKey: channelKey}
	log := u.logger.With().Str("channel_key", channelKey).Logger()

	if err := u.processChannel(ctx, channelKey, &report, log); err != nil {
		report.Err = err
		u.metrics.RecordChannelFailure(pkgerrors.ErrorType(err))
		log.Error().Err(err).
			Int("published", report.Published).
			Msg("Channel cycle aborted")
		return report
	}

	log.Debug().
		Int("published", report.Published).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Msg("Channel cycle completed")

	return report
}

func (u *UseCase) processChannel(ctx context.Context, channelKey string, report *dto.ChannelReport, log zerolog.Logger) error {
	identity, err := u.identities.ResolveIdentity(ctx, channelKey)
	if err != nil {
		return err
	}

	identity, err = u.ensureRemoteChannelID(ctx, identity, log)
	if err != nil {
		return err
	}

	items, err := u.fetcher.FetchNewItems(ctx, identity.RemoteChannelID)
	if err != nil {
		return err
	}

	log.Debug().Int("items_count", len(items)).Msg("Fetched channel items")

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		handled, err := u.processItem(ctx, identity, item, log)
		if err != nil {
			return err
		}

		switch handled {
		case itemSkipped:
			report.Skipped++
		case itemPublished:
			report.Published++
		case itemFailed:
			report.Failed++
		}
	}

	return nil
}

// ensureRemoteChannelID backfills missing profile fields; only a still-missing remote ID is fatal
func (u *UseCase) ensureRemoteChannelID(ctx context.Context, identity *channelentities.ChannelIdentity, log zerolog.Logger) (*channelentities.ChannelIdentity, error) {
	if !identity.NeedsBackfill() {
		return identity, nil
	}

	updated, err := u.identities.BackfillProfile(ctx, identity)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to backfill channel profile")
	}
	if updated != nil {
		identity = updated
	}

	if identity.RemoteChannelID == "" {
		if err == nil {
			err = pkgerrors.NewUpstreamFetchError("remote channel id unknown", nil)
		}
		return nil, err
	}

	return identity, nil
}

type itemOutcome int

const (
	itemSkipped itemOutcome = iota
	itemPublished
	itemFailed
)

func (u *UseCase) processItem(ctx context.Context, identity *channelentities.ChannelIdentity, item dto.FetchedItem, log zerolog.Logger) (itemOutcome, error) {
	log = log.With().Str("link", item.Link).Logger()

	exists, err := u.ledger.Exists(ctx, item.Link)
	if err != nil {
		return itemSkipped, err
	}
	if exists {
		u.metrics.RecordItemSkipped()
		return itemSkipped, nil
	}

	if err := u.ledger.Record(ctx, identity.ChannelKey, item.Author, item.Title, item.Link, false); err != nil {
		if pkgerrors.IsDuplicateError(err) {
			u.metrics.RecordItemSkipped()
			log.Debug().Msg("Item recorded concurrently, skipping")
			return itemSkipped, nil
		}
		return itemSkipped, err
	}

	result, err := u.publisher.Publish(ctx, identity, FormatMessage(item.Title, item.Link), u.relays)

	event := &dto.ItemPublishedEvent{
		ChannelKey: identity.ChannelKey,
		Link:       item.Link,
		Title:      item.Title,
		PublicKey:  identity.PublicKey,
		Success:    err == nil,
		Timestamp:  time.Now(),
	}

	outcome := itemPublished
	if err != nil {
		// The item stays recorded and is not retried.
		outcome = itemFailed
		event.Error = err.Error()
		log.Error().Err(err).
			Str("title", item.Title).
			Msg("Failed to publish item")
	} else {
		event.EventID = result.EventID
		log.Info().
			Str("title", item.Title).
			Str("event_id", result.EventID).
			Msg("Item published")
	}

	if err := u.notifier.NotifyPublished(ctx, event); err != nil {
		log.Warn().Err(err).Msg("Failed to send publish notification")
	}

	return outcome, nil
}

package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/usecase/business"
)

// CycleRunner runs one poll cycle
type CycleRunner interface {
	RunCycle(ctx context.Context) *dto.CycleReport
}

// Poller runs poll cycles on a cron schedule; a tick that fires while a cycle is still running is skipped
type Poller struct {
	runner     CycleRunner
	cron       *cron.Cron
	schedule   string
	runOnStart bool
	timeout    time.Duration
	logger     zerolog.Logger

	running atomic.Bool
	started atomic.Bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPoller creates a new poller over the orchestrator use case
func NewPoller(uc *business.UseCase, pollCfg *config.PollConfig, logger zerolog.Logger) *Poller {
	return newPoller(uc, pollCfg, logger)
}

func newPoller(runner CycleRunner, pollCfg *config.PollConfig, logger zerolog.Logger) *Poller {
	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		runner:     runner,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		schedule:   pollCfg.Schedule,
		runOnStart: pollCfg.RunOnStart,
		timeout:    pollCfg.CycleTimeout,
		logger:     logger.With().Str("component", "poller").Logger(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start registers the schedule and starts the cron runner
func (w *Poller) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.runCycle); err != nil {
		return fmt.Errorf("invalid poll schedule %q: %w", w.schedule, err)
	}

	w.logger.Info().
		Str("schedule", w.schedule).
		Bool("run_on_start", w.runOnStart).
		Dur("timeout", w.timeout).
		Msg("Starting poller")

	w.cron.Start()
	w.started.Store(true)

	if w.runOnStart {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runCycle()
		}()
	}

	return nil
}

// Stop cancels in-flight cycles and waits for them to return
func (w *Poller) Stop() {
	w.logger.Info().Msg("Stopping poller")

	w.started.Store(false)
	w.cancel()
	<-w.cron.Stop().Done()
	w.wg.Wait()

	w.logger.Info().Msg("Poller stopped")
}

// HealthCheck reports whether the poller is scheduled
func (w *Poller) HealthCheck(ctx context.Context) bool {
	return w.started.Load()
}

// runCycle performs a single poll cycle
func (w *Poller) runCycle() {
	if !w.running.CompareAndSwap(false, true) {
		w.logger.Warn().Msg("Previous poll cycle still running, skipping tick")
		return
	}
	defer w.running.Store(false)

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	report := w.runner.RunCycle(ctx)

	if ctx.Err() != nil {
		w.logger.Warn().Err(ctx.Err()).Msg("Poll cycle cancelled or timed out")
		return
	}

	w.logger.Debug().
		Int("published", report.Published).
		Int("failed_channels", report.FailedChannels).
		Msg("Poll cycle finished")
}

package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/newsrelay/config"
	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
)

// mockCycleRunner is a mock implementation of CycleRunner
type mockCycleRunner struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (m *mockCycleRunner) RunCycle(ctx context.Context) *dto.CycleReport {
	m.calls.Add(1)
	if m.started != nil {
		m.once.Do(func() { close(m.started) })
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
		}
	}
	return &dto.CycleReport{}
}

func testPollConfig(runOnStart bool) *config.PollConfig {
	return &config.PollConfig{
		Schedule:     "@every 1h",
		RunOnStart:   runOnStart,
		CycleTimeout: time.Minute,
		Concurrency:  1,
	}
}

func TestPoller_RunOnStart(t *testing.T) {
	runner := &mockCycleRunner{}
	p := newPoller(runner, testPollConfig(true), zerolog.Nop())

	require.NoError(t, p.Start())
	assert.True(t, p.HealthCheck(context.Background()))

	assert.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	p.Stop()
	assert.False(t, p.HealthCheck(context.Background()))
}

func TestPoller_NoRunOnStart(t *testing.T) {
	runner := &mockCycleRunner{}
	p := newPoller(runner, testPollConfig(false), zerolog.Nop())

	require.NoError(t, p.Start())
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.Zero(t, runner.calls.Load())
}

func TestPoller_SkipsOverlappingCycle(t *testing.T) {
	runner := &mockCycleRunner{release: make(chan struct{}), started: make(chan struct{})}
	p := newPoller(runner, testPollConfig(false), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		p.runCycle()
		close(done)
	}()
	<-runner.started

	p.runCycle()
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.release)
	<-done

	p.runCycle()
	assert.Equal(t, int32(2), runner.calls.Load())
}

func TestPoller_StopCancelsRunningCycle(t *testing.T) {
	runner := &mockCycleRunner{release: make(chan struct{}), started: make(chan struct{})}
	p := newPoller(runner, testPollConfig(true), zerolog.Nop())

	require.NoError(t, p.Start())
	<-runner.started

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestPoller_InvalidSchedule(t *testing.T) {
	cfg := testPollConfig(false)
	cfg.Schedule = "not a schedule"
	p := newPoller(&mockCycleRunner{}, cfg, zerolog.Nop())

	assert.Error(t, p.Start())
}

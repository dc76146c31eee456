package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the relay service
type Metrics struct {
	// Cycle metrics
	CyclesTotal     prometheus.Counter
	CycleDuration   prometheus.Histogram
	ChannelFailures *prometheus.CounterVec

	// Identity metrics
	IdentitiesCreated prometheus.Counter

	// Item metrics
	ItemsSkipped  prometheus.Counter
	ItemsRecorded prometheus.Counter

	// Publish metrics
	PublishesSucceeded prometheus.Counter
	PublishFailures    *prometheus.CounterVec
	RelayStepDuration  *prometheus.HistogramVec
	ConnectedRelays    prometheus.Histogram
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance registered with the default registry
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsrelay_cycles_total",
			Help: "Total number of poll cycles",
		}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsrelay_cycle_duration_seconds",
			Help:    "Duration of poll cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		ChannelFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsrelay_channel_failures_total",
				Help: "Total number of aborted channel cycles",
			},
			[]string{"error_type"},
		),

		IdentitiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsrelay_identities_created_total",
			Help: "Total number of channel identities minted",
		}),

		ItemsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsrelay_items_skipped_total",
			Help: "Total number of items skipped as already handled",
		}),
		ItemsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsrelay_items_recorded_total",
			Help: "Total number of items recorded in the ledger",
		}),

		PublishesSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsrelay_publishes_succeeded_total",
			Help: "Total number of events emitted successfully",
		}),
		PublishFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newsrelay_publish_failures_total",
				Help: "Total number of failed publish attempts",
			},
			[]string{"error_type"},
		),
		RelayStepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newsrelay_relay_step_duration_seconds",
				Help:    "Duration of publish pipeline steps in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"step"},
		),
		ConnectedRelays: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsrelay_connected_relays",
			Help:    "Number of relays connected per publish",
			Buckets: prometheus.LinearBuckets(0, 1, 6),
		}),
	}
}

// RecordCycle records a finished poll cycle
func (m *Metrics) RecordCycle(duration float64) {
	m.CyclesTotal.Inc()
	m.CycleDuration.Observe(duration)
}

// RecordChannelFailure records an aborted channel cycle with error type
func (m *Metrics) RecordChannelFailure(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.ChannelFailures.WithLabelValues(errorType).Inc()
}

// RecordIdentityCreated records a newly minted identity
func (m *Metrics) RecordIdentityCreated() {
	m.IdentitiesCreated.Inc()
}

// RecordItemSkipped records an item skipped by the dedup check
func (m *Metrics) RecordItemSkipped() {
	m.ItemsSkipped.Inc()
}

// RecordItemRecorded records an item accepted into the ledger
func (m *Metrics) RecordItemRecorded() {
	m.ItemsRecorded.Inc()
}

// RecordPublish records a successful emit
func (m *Metrics) RecordPublish() {
	m.PublishesSucceeded.Inc()
}

// RecordPublishError records a failed publish with error type
func (m *Metrics) RecordPublishError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.PublishFailures.WithLabelValues(errorType).Inc()
}

// ObserveStep records the duration of one pipeline step
func (m *Metrics) ObserveStep(step string, duration float64) {
	m.RelayStepDuration.WithLabelValues(step).Observe(duration)
}

// ObserveConnectedRelays records how many relays one publish reached
func (m *Metrics) ObserveConnectedRelays(count int) {
	m.ConnectedRelays.Observe(float64(count))
}

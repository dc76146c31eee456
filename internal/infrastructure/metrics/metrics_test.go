package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPublishError(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordPublishError("relay")
	m.RecordPublishError("relay")
	m.RecordPublishError("")

	if got := testutil.ToFloat64(m.PublishFailures.WithLabelValues("relay")); got != 2 {
		t.Errorf("relay failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PublishFailures.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown failures = %v, want 1", got)
	}
}

func TestRecordCycle(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCycle(1.5)
	m.RecordChannelFailure("storage")

	if got := testutil.ToFloat64(m.CyclesTotal); got != 1 {
		t.Errorf("cycles = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ChannelFailures.WithLabelValues("storage")); got != 1 {
		t.Errorf("channel failures = %v, want 1", got)
	}
}

func TestObserveConnectedRelays_KeepsEveryPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveConnectedRelays(2)
	m.ObserveConnectedRelays(3)

	expected := `
# HELP newsrelay_connected_relays Number of relays connected per publish
# TYPE newsrelay_connected_relays histogram
newsrelay_connected_relays_bucket{le="0"} 0
newsrelay_connected_relays_bucket{le="1"} 0
newsrelay_connected_relays_bucket{le="2"} 1
newsrelay_connected_relays_bucket{le="3"} 2
newsrelay_connected_relays_bucket{le="4"} 2
newsrelay_connected_relays_bucket{le="5"} 2
newsrelay_connected_relays_bucket{le="+Inf"} 2
newsrelay_connected_relays_sum 5
newsrelay_connected_relays_count 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "newsrelay_connected_relays"); err != nil {
		t.Error(err)
	}
}

func TestGetDefaultMetricsSingleton(t *testing.T) {
	if GetDefaultMetrics() != GetDefaultMetrics() {
		t.Error("expected the same default metrics instance")
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/newsrelay/internal/domain/orchestrator/dto"
)

// mockWriter is a mock implementation of messageWriter
type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestProducer_NotifyPublished(t *testing.T) {
	writer := &mockWriter{}
	p := &Producer{writer: writer, topic: "relay.item.published", logger: zerolog.Nop()}

	event := &dto.ItemPublishedEvent{
		ChannelKey: "abc",
		Link:       "http://x/ep1",
		Title:      "Ep1",
		EventID:    "ev1",
		PublicKey:  "npub1abc",
		Success:    true,
		Timestamp:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.NotifyPublished(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "relay.item.published", msg.Topic)
	assert.Equal(t, "abc", string(msg.Key))

	var decoded dto.ItemPublishedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, *event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestProducer_WriteFailure(t *testing.T) {
	p := &Producer{writer: &mockWriter{err: errors.New("leader not available")}, topic: "t", logger: zerolog.Nop()}

	err := p.NotifyPublished(context.Background(), &dto.ItemPublishedEvent{ChannelKey: "abc"})
	assert.Error(t, err)
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.NotifyPublished(context.Background(), &dto.ItemPublishedEvent{}))
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/homerpc/internal/device"
	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

type published struct {
	topic    string
	payload  []byte
	retained bool
}

type fakeBroker struct {
	sent []published
	err  error
}

func (f *fakeBroker) PublishRetained(topic string, payload []byte) error {
	return f.publish(topic, payload, true)
}

func (f *fakeBroker) PublishEvent(topic string, payload []byte) error {
	return f.publish(topic, payload, false)
}

func (f *fakeBroker) publish(topic string, payload []byte, retained bool) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic, payload, retained})
	return nil
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type warnCounter struct{ n int }

func (w *warnCounter) Warn(string, ...any) { w.n++ }

func TestStateChangePublishedRetained(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker)
	at := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)

	p.CommandExecuted(context.Background(), dispatch.Outcome{
		BatchID: "b1",
		Request: jsonrpc.Request{ID: "1", Method: "deviceExecute"},
		Reply:   jsonrpc.NewReply("1", device.SwitchApplied),
		At:      at,
		Change: &dispatch.StateChange{
			Room:   "kitchen",
			Device: "Smart Kettle 1",
			From:   device.StateOff,
			To:     device.StateOn,
		},
	})

	require.Len(t, broker.sent, 1)
	msg := broker.sent[0]
	assert.Equal(t, "homerpc/state/kitchen/Smart Kettle 1", msg.topic)
	assert.True(t, msg.retained)
	assert.Equal(t, StatePayload{
		Room:      "kitchen",
		Device:    "Smart Kettle 1",
		State:     "on",
		Previous:  "off",
		Result:    device.SwitchApplied,
		Timestamp: "2026-10-03T09:00:00Z",
	}, decode[StatePayload](t, msg.payload))
}

func TestCommandWithoutChangeIsSilent(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker)

	p.CommandExecuted(context.Background(), dispatch.Outcome{
		Request: jsonrpc.Request{ID: "1", Method: "createReport"},
		Reply:   jsonrpc.NewReply("1", "report"),
	})

	assert.Empty(t, broker.sent)
}

func TestBatchPublished(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker)

	p.BatchCompleted(context.Background(), dispatch.BatchSummary{
		BatchID:  "b2",
		Commands: 3,
		Errors:   1,
		At:       time.Date(2026, 10, 3, 9, 0, 0, 500, time.UTC),
	})

	require.Len(t, broker.sent, 1)
	msg := broker.sent[0]
	assert.Equal(t, "homerpc/batch", msg.topic)
	assert.False(t, msg.retained)
	assert.Equal(t, BatchPayload{
		BatchID:   "b2",
		Commands:  3,
		Errors:    1,
		Timestamp: "2026-10-03T09:00:00.0000005Z",
	}, decode[BatchPayload](t, msg.payload))
	assert.NotContains(t, string(msg.payload), "rejected")
}

func TestRejectedBatchCarriesCode(t *testing.T) {
	broker := &fakeBroker{}
	NewPublisher(broker).BatchCompleted(context.Background(), dispatch.BatchSummary{
		BatchID:  "b3",
		Rejected: jsonrpc.CodeParseError,
	})

	require.Len(t, broker.sent, 1)
	assert.Equal(t, -32700, decode[BatchPayload](t, broker.sent[0].payload).Rejected)
}

func TestPublishFailureIsLogged(t *testing.T) {
	broker := &fakeBroker{err: errors.New("broker gone")}
	p := NewPublisher(broker)
	w := &warnCounter{}
	p.SetLogger(w)

	p.BatchCompleted(context.Background(), dispatch.BatchSummary{BatchID: "b4"})
	p.CommandExecuted(context.Background(), dispatch.Outcome{
		Change: &dispatch.StateChange{Room: "r", Device: "d", To: device.StateBroken},
	})

	assert.Equal(t, 2, w.n)
}

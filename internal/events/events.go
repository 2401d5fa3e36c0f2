// Package events announces home activity on the MQTT bus.
//
// A Publisher observes dispatch and emits a retained state message for
// every device a switch moved, plus one message per served batch.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/infrastructure/mqtt"
)

// Broker is the part of the MQTT client the publisher needs.
// *mqtt.Client satisfies it.
type Broker interface {
	PublishRetained(topic string, payload []byte) error
	PublishEvent(topic string, payload []byte) error
}

// Logger is the subset of logging used by the publisher.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// StatePayload is published on homerpc/state/{room}/{device}.
type StatePayload struct {
	Room      string `json:"room"`
	Device    string `json:"device"`
	State     string `json:"state"`
	Previous  string `json:"previous"`
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

// BatchPayload is published on homerpc/batch.
type BatchPayload struct {
	BatchID   string `json:"batch_id"`
	Commands  int    `json:"commands"`
	Errors    int    `json:"errors"`
	Rejected  int    `json:"rejected,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Publisher implements dispatch.Observer on top of a Broker.
// Publish failures are logged and dropped.
type Publisher struct {
	broker Broker
	topics mqtt.Topics
	logger Logger
}

// NewPublisher creates a publisher.
func NewPublisher(b Broker) *Publisher {
	return &Publisher{broker: b, logger: noopLogger{}}
}

// SetLogger sets the logger for publish failures.
func (p *Publisher) SetLogger(l Logger) {
	if l != nil {
		p.logger = l
	}
}

// CommandExecuted publishes the new state of a switched device.
// Commands that changed nothing are not announced.
func (p *Publisher) CommandExecuted(_ context.Context, o dispatch.Outcome) {
	if o.Change == nil {
		return
	}

	c := o.Change
	topic := p.topics.State(c.Room, c.Device)
	payload := StatePayload{
		Room:      c.Room,
		Device:    c.Device,
		State:     c.To.String(),
		Previous:  c.From.String(),
		Result:    o.Reply.Text(),
		Timestamp: timestamp(o.At),
	}
	raw, err := json.Marshal(payload)
	if err == nil {
		err = p.broker.PublishRetained(topic, raw)
	}
	if err != nil {
		p.logger.Warn("state event not published", "topic", topic, "error", err)
	}
}

// BatchCompleted publishes the batch summary.
func (p *Publisher) BatchCompleted(_ context.Context, s dispatch.BatchSummary) {
	payload := BatchPayload{
		BatchID:   s.BatchID,
		Commands:  s.Commands,
		Errors:    s.Errors,
		Rejected:  int(s.Rejected),
		Timestamp: timestamp(s.At),
	}
	raw, err := json.Marshal(payload)
	if err == nil {
		err = p.broker.PublishEvent(p.topics.Batch(), raw)
	}
	if err != nil {
		p.logger.Warn("batch event not published", "batch_id", s.BatchID, "error", err)
	}
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

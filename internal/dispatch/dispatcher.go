package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/homerpc/internal/device"
	"github.com/nerrad567/homerpc/internal/home"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

// Home is the domain façade the dispatcher drives. *home.Home satisfies it.
type Home interface {
	AddRoom(name string, devices ...device.Device) error
	DelRoom(name string) error
	Devices(room string) ([]string, error)
	Device(room, name string) (device.Device, error)
	CreateReport() string
	CreateFilteredReport(p home.Provider) string
}

// Logger defines the logging interface used by the Dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// internalErrorReply is sent if a reply batch cannot be encoded.
const internalErrorReply = `{"jsonrpc":"2.0","id":null,"error":{"code":-32603,"message":"Internal error","data":"reply encoding failed"}}`

// Dispatcher validates, queues and executes request batches against a Home.
type Dispatcher struct {
	home      Home
	validator *jsonrpc.Validator
	queue     jsonrpc.Queue[jsonrpc.Request]
	observers []Observer
	logger    Logger
	now       func() time.Time
}

// New creates a dispatcher for h that admits batches passing v.
func New(h Home, v *jsonrpc.Validator) *Dispatcher {
	return &Dispatcher{
		home:      h,
		validator: v,
		logger:    noopLogger{},
		now:       time.Now,
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// AddObserver registers o for command and batch notifications.
func (d *Dispatcher) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

// Handle runs one raw batch through the pipeline and returns the encoded
// reply. It never fails: every problem becomes a reply.
//
// A batch that is not JSON yields a single Parse error reply; one that
// fails the schema yields a single Invalid Request reply listing every
// violation. Otherwise the queue is reset, the batch is pushed and the
// reply array holds one entry per executed command.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) []byte {
	start := d.now()
	batchID := uuid.NewString()

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		d.logger.Warn("rejecting batch", "batch_id", batchID, "reason", "parse error", "error", err)
		return d.reject(ctx, batchID, start, jsonrpc.CodeParseError, err.Error())
	}

	if violations := d.validator.Validate(value); len(violations) > 0 {
		d.logger.Warn("rejecting batch", "batch_id", batchID, "reason", "schema", "violations", len(violations))
		return d.reject(ctx, batchID, start, jsonrpc.CodeInvalidRequest, jsonrpc.JoinViolations(violations))
	}

	var batch []jsonrpc.Request
	if err := json.Unmarshal(raw, &batch); err != nil {
		return d.reject(ctx, batchID, start, jsonrpc.CodeInvalidRequest, err.Error())
	}

	d.queue.Reset()
	d.queue.Push(batch)
	replies := d.Drain(ctx, batchID)

	errCount := 0
	for _, r := range replies {
		if r.Error != nil {
			errCount++
		}
	}
	d.notifyBatch(ctx, BatchSummary{
		BatchID:  batchID,
		Commands: len(replies),
		Errors:   errCount,
		Rejected: jsonrpc.CodeOK,
		Elapsed:  d.now().Sub(start),
		At:       d.now(),
	})

	d.logger.Debug("batch dispatched",
		"batch_id", batchID,
		"received", len(batch),
		"replies", len(replies),
		"errors", errCount,
	)
	return d.encode(replies)
}

// Push queues batch for the next Drain.
func (d *Dispatcher) Push(batch []jsonrpc.Request) {
	d.queue.Push(batch)
}

// Pending returns the number of queued commands.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

// Drain executes queued commands until the queue is empty and returns
// one reply per executed command, in execution order.
func (d *Dispatcher) Drain(ctx context.Context, batchID string) []jsonrpc.Reply {
	replies := make([]jsonrpc.Reply, 0, d.queue.Len())

	for {
		req, ok := d.queue.Pop()
		if !ok {
			break
		}

		start := d.now()
		code, data, change := d.Execute(req)
		reply := jsonrpc.Render(req.ID, code, data)
		replies = append(replies, reply)

		d.logger.Debug("command executed", "batch_id", batchID, "id", req.ID, "method", req.Method, "code", int(code))
		d.notifyCommand(ctx, Outcome{
			BatchID: batchID,
			Request: req,
			Reply:   reply,
			Elapsed: d.now().Sub(start),
			At:      start,
			Change:  change,
		})
	}

	return replies
}

func (d *Dispatcher) reject(ctx context.Context, batchID string, start time.Time, code jsonrpc.Code, data string) []byte {
	d.notifyBatch(ctx, BatchSummary{
		BatchID:  batchID,
		Rejected: code,
		Elapsed:  d.now().Sub(start),
		At:       d.now(),
	})
	return d.encode(jsonrpc.NewBatchError(jsonrpc.NewError(code, data)))
}

func (d *Dispatcher) encode(v any) []byte {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		d.logger.Error("encoding reply failed", "error", err)
		return []byte(internalErrorReply)
	}
	return out
}

func (d *Dispatcher) notifyCommand(ctx context.Context, o Outcome) {
	for _, obs := range d.observers {
		obs.CommandExecuted(ctx, o)
	}
}

func (d *Dispatcher) notifyBatch(ctx context.Context, s BatchSummary) {
	for _, obs := range d.observers {
		obs.BatchCompleted(ctx, s)
	}
}

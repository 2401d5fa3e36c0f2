package dispatch

import (
	"context"
	"time"

	"github.com/nerrad567/homerpc/internal/device"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

// StateChange records a device state transition caused by a switch.
type StateChange struct {
	Room   string
	Device string
	From   device.State
	To     device.State
}

// Outcome describes one executed command.
type Outcome struct {
	BatchID string
	Request jsonrpc.Request
	Reply   jsonrpc.Reply
	Elapsed time.Duration
	At      time.Time

	// Change is set when the command moved a device to a new state.
	Change *StateChange
}

// BatchSummary describes one handled batch.
type BatchSummary struct {
	BatchID  string
	Commands int
	Errors   int

	// Rejected is the batch-level code when the batch never reached the
	// queue (parse error or invalid request), CodeOK otherwise.
	Rejected jsonrpc.Code
	Elapsed  time.Duration
	At       time.Time
}

// Observer is notified as batches are dispatched.
//
// Calls are made synchronously from the dispatching goroutine, so
// implementations should return quickly and must handle their own
// failures.
type Observer interface {
	CommandExecuted(ctx context.Context, o Outcome)
	BatchCompleted(ctx context.Context, s BatchSummary)
}

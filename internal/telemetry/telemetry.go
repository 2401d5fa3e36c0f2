// Package telemetry feeds dispatch timings to a time-series store.
package telemetry

import (
	"context"
	"time"

	"github.com/nerrad567/homerpc/internal/dispatch"
)

// Writer is the part of the InfluxDB client the recorder needs.
type Writer interface {
	WriteCommand(method string, code int, elapsed time.Duration, at time.Time)
	WriteBatch(commands, errors, rejected int, elapsed time.Duration, at time.Time)
}

// Recorder implements dispatch.Observer on top of a Writer.
type Recorder struct {
	w Writer
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w Writer) *Recorder {
	return &Recorder{w: w}
}

// CommandExecuted records the command's code and duration.
func (r *Recorder) CommandExecuted(_ context.Context, o dispatch.Outcome) {
	r.w.WriteCommand(o.Request.Method, int(o.Reply.Code()), o.Elapsed, o.At)
}

// BatchCompleted records the batch size and error count.
func (r *Recorder) BatchCompleted(_ context.Context, s dispatch.BatchSummary) {
	r.w.WriteBatch(s.Commands, s.Errors, int(s.Rejected), s.Elapsed, s.At)
}

package audit

import (
	"context"

	"github.com/nerrad567/homerpc/internal/dispatch"
)

// Logger is the subset of logging used by the recorder.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Recorder writes every executed command to a Repository.
// Write failures are logged and otherwise ignored.
type Recorder struct {
	repo   Repository
	logger Logger
}

// NewRecorder creates a recorder backed by repo.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, logger: noopLogger{}}
}

// SetLogger sets the logger for write failures.
func (r *Recorder) SetLogger(l Logger) {
	if l != nil {
		r.logger = l
	}
}

// CommandExecuted implements dispatch.Observer.
func (r *Recorder) CommandExecuted(ctx context.Context, o dispatch.Outcome) {
	e := &Entry{
		BatchID:    o.BatchID,
		CommandID:  o.Request.ID,
		Method:     o.Request.Method,
		Code:       int(o.Reply.Code()),
		Message:    o.Reply.Text(),
		DurationUS: o.Elapsed.Microseconds(),
		CreatedAt:  o.At,
	}
	if err := r.repo.Create(ctx, e); err != nil {
		r.logger.Warn("audit write failed",
			"batch_id", o.BatchID,
			"method", o.Request.Method,
			"error", err,
		)
	}
}

// BatchCompleted implements dispatch.Observer. Batches are not recorded;
// their commands already are.
func (r *Recorder) BatchCompleted(context.Context, dispatch.BatchSummary) {}

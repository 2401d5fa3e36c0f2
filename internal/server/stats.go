package server

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

// Stats counts serving activity. It implements dispatch.Observer.
//
// Thread Safety:
//   - All methods are safe for concurrent use; the status endpoint reads
//     snapshots while the serving loop writes.
type Stats struct {
	started time.Time

	connections     atomic.Int64
	transportErrors atomic.Int64
	batches         atomic.Int64
	rejected        atomic.Int64
	commands        atomic.Int64

	mu           sync.Mutex
	replies      map[jsonrpc.Code]int64
	lastActivity time.Time
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	StartedAt       time.Time        `json:"started_at"`
	Uptime          string           `json:"uptime"`
	Connections     int64            `json:"connections"`
	TransportErrors int64            `json:"transport_errors"`
	Batches         int64            `json:"batches"`
	RejectedBatches int64            `json:"rejected_batches"`
	Commands        int64            `json:"commands"`
	RepliesByCode   map[string]int64 `json:"replies_by_code"`
	LastActivity    *time.Time       `json:"last_activity,omitempty"`
}

// NewStats returns zeroed statistics.
func NewStats() *Stats {
	return &Stats{
		started: time.Now(),
		replies: make(map[jsonrpc.Code]int64),
	}
}

var _ dispatch.Observer = (*Stats)(nil)

// CommandExecuted counts one command and its reply code.
func (s *Stats) CommandExecuted(_ context.Context, o dispatch.Outcome) {
	s.commands.Add(1)

	s.mu.Lock()
	s.replies[o.Reply.Code()]++
	s.lastActivity = o.At
	s.mu.Unlock()
}

// BatchCompleted counts one batch. Rejected batches count their single
// error reply too.
func (s *Stats) BatchCompleted(_ context.Context, b dispatch.BatchSummary) {
	s.batches.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Rejected != jsonrpc.CodeOK {
		s.rejected.Add(1)
		s.replies[b.Rejected]++
	}
	s.lastActivity = b.At
}

func (s *Stats) connectionAccepted() { s.connections.Add(1) }
func (s *Stats) transportError()     { s.transportErrors.Add(1) }

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		StartedAt:       s.started,
		Uptime:          time.Since(s.started).Round(time.Second).String(),
		Connections:     s.connections.Load(),
		TransportErrors: s.transportErrors.Load(),
		Batches:         s.batches.Load(),
		RejectedBatches: s.rejected.Load(),
		Commands:        s.commands.Load(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap.RepliesByCode = make(map[string]int64, len(s.replies))
	for code, n := range s.replies {
		snap.RepliesByCode[strconv.Itoa(int(code))] = n
	}
	if !s.lastActivity.IsZero() {
		last := s.lastActivity
		snap.LastActivity = &last
	}
	return snap
}

// Package dispatch turns raw request batches into reply batches.
//
// Handle is the whole ingestion pipeline for one batch:
//
//	raw bytes ──▶ JSON decode ──▶ schema check ──▶ queue ──▶ drain ──▶ reply bytes
//	                 │                 │
//	                 ▼                 ▼
//	           Parse error       Invalid Request
//	          (single reply)     (single reply)
//
// Draining pops commands one at a time and produces exactly one reply per
// popped command. The queue is a stack, so replies come back in reverse
// request order, and a reset command drops whatever is still queued.
//
// Domain failures never escape as Go errors: each is mapped to a coded
// error reply. Observers (audit, events, telemetry, statistics) are told
// about every command and every batch; they cannot alter replies.
//
// A Dispatcher is not safe for concurrent use. The server loop owns it.
package dispatch

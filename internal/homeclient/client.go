// Package homeclient sends JSON-RPC request batches to a home server over STP.
//
// The server answers one batch per connection, so every Call dials,
// sends, reads the reply and hangs up.
package homeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/homerpc/internal/jsonrpc"
	"github.com/nerrad567/homerpc/internal/stp"
)

// ErrBadReply is returned when the server answers with something that
// is neither a reply array nor a batch error.
var ErrBadReply = errors.New("homeclient: malformed reply")

// BatchError is returned by Call when the server rejected the whole
// batch (parse error or invalid request) without running any command.
type BatchError struct {
	Reply jsonrpc.Reply
}

func (e *BatchError) Error() string {
	if e.Reply.Error == nil {
		return "homeclient: batch rejected"
	}
	return "homeclient: batch rejected: " + e.Reply.Error.Error()
}

// Code returns the batch-level reply code.
func (e *BatchError) Code() jsonrpc.Code {
	return e.Reply.Code()
}

// Client talks to one home server.
type Client struct {
	addr  string
	cfg   stp.Config
	newID func() string
}

// New returns a client for the server at addr.
func New(addr string, cfg stp.Config) *Client {
	return &Client{
		addr:  addr,
		cfg:   cfg,
		newID: uuid.NewString,
	}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// NewRequest builds a request with a fresh random id.
func (c *Client) NewRequest(method string, params any) (jsonrpc.Request, error) {
	return jsonrpc.NewRequest(c.newID(), method, params)
}

// Call sends batch and returns the replies in the order the server
// produced them.
//
// Returns:
//   - []jsonrpc.Reply: one reply per executed command
//   - error: *BatchError if the server rejected the batch, a transport
//     error (*stp.ConnectError or *stp.RequestError), or ErrBadReply
func (c *Client) Call(ctx context.Context, batch []jsonrpc.Request) ([]jsonrpc.Reply, error) {
	if batch == nil {
		batch = []jsonrpc.Request{}
	}
	raw, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding batch: %w", err)
	}

	resp, err := c.CallRaw(ctx, raw)
	if err != nil {
		return nil, err
	}
	return DecodeReplies(resp)
}

// CallRaw sends raw as one request frame and returns the raw reply.
func (c *Client) CallRaw(ctx context.Context, raw []byte) ([]byte, error) {
	conn, err := stp.Connect(ctx, c.addr, c.cfg)
	if err != nil {
		return nil, err
	}
	defer conn.Close() //nolint:errcheck // one-shot connection

	return conn.SendRequest(raw)
}

// DecodeReplies parses a server reply. A single reply object means the
// batch was rejected and is returned as *BatchError.
func DecodeReplies(resp []byte) ([]jsonrpc.Reply, error) {
	trimmed := bytes.TrimSpace(resp)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadReply)
	}

	switch trimmed[0] {
	case '[':
		var replies []jsonrpc.Reply
		if err := json.Unmarshal(trimmed, &replies); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadReply, err)
		}
		return replies, nil
	case '{':
		var reply jsonrpc.Reply
		if err := json.Unmarshal(trimmed, &reply); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadReply, err)
		}
		return nil, &BatchError{Reply: reply}
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrBadReply, trimmed[0])
	}
}

package stp

import (
	"context"
	"net"
)

// Client is the requesting side of an STP connection.
//
// A Client is not safe for concurrent use; one request is in flight at a
// time.
type Client struct {
	conn net.Conn
	cfg  Config
}

// Connect dials addr and performs the handshake.
//
// Returns:
//   - *Client: connected client
//   - error: *ConnectError wrapping ErrBadHandshake or the dial error
func Connect(ctx context.Context, addr string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectError{Err: err}
	}

	if err := clientHandshake(conn, cfg.HandshakeTimeout); err != nil {
		conn.Close() //nolint:errcheck // best effort on the error path
		return nil, &ConnectError{Err: err}
	}

	return &Client{conn: conn, cfg: cfg}, nil
}

// SendRequest writes req as one frame and blocks for the matching response.
//
// Returns:
//   - []byte: response body
//   - error: *RequestError wrapping a *SendError or a *RecvError
func (c *Client) SendRequest(req []byte) ([]byte, error) {
	if err := setWriteDeadline(c.conn, c.cfg.IOTimeout); err != nil {
		return nil, &RequestError{Err: &SendError{Err: err}}
	}
	if err := writeFrame(c.conn, req); err != nil {
		return nil, &RequestError{Err: &SendError{Err: err}}
	}

	if err := setReadDeadline(c.conn, c.cfg.IOTimeout); err != nil {
		return nil, &RequestError{Err: &RecvError{Err: err}}
	}
	resp, err := readFrame(c.conn)
	if err != nil {
		return nil, &RequestError{Err: &RecvError{Err: err}}
	}
	return resp, nil
}

// LocalAddr returns the local address of the connection.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

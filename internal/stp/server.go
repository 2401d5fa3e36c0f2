package stp

import (
	"fmt"
	"net"
)

// Listener accepts STP connections on a bound address.
type Listener struct {
	ln  net.Listener
	cfg Config
}

// Bind opens a listening TCP endpoint.
//
// Returns:
//   - *Listener: ready to Accept
//   - error: *ConnectError wrapping the network error
func Bind(addr string, cfg Config) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &ConnectError{Err: err}
	}
	return &Listener{ln: ln, cfg: cfg.withDefaults()}, nil
}

// Accept blocks until a peer connects and completes the handshake.
//
// A peer that fails the handshake is disconnected and reported as a
// *ConnectError wrapping ErrBadHandshake; the listener stays usable.
func (l *Listener) Accept() (*Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, &ConnectError{Err: fmt.Errorf("%w: %w", ErrAcceptFailed, err)}
	}

	if err := serverHandshake(conn, l.cfg.HandshakeTimeout); err != nil {
		conn.Close() //nolint:errcheck // best effort on a rejected peer
		return nil, &ConnectError{Err: err}
	}

	return &Conn{conn: conn, cfg: l.cfg}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting. A blocked Accept returns a *ConnectError
// wrapping net.ErrClosed.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Conn is the server side of one accepted STP connection.
type Conn struct {
	conn net.Conn
	cfg  Config
}

// PeerAddr returns the remote address, or "unknown".
func (c *Conn) PeerAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}

// ProcessRequest reads one request frame, calls handler with its body and
// writes the handler's result back as one response frame.
//
// Returns:
//   - *RecvError: the request could not be read (framing or I/O)
//   - *SendError: the response could not be written
func (c *Conn) ProcessRequest(handler func(req []byte) []byte) error {
	if err := setReadDeadline(c.conn, c.cfg.IOTimeout); err != nil {
		return &RecvError{Err: err}
	}
	req, err := readFrame(c.conn)
	if err != nil {
		return &RecvError{Err: err}
	}

	resp := handler(req)

	if err := setWriteDeadline(c.conn, c.cfg.IOTimeout); err != nil {
		return &SendError{Err: err}
	}
	if err := writeFrame(c.conn, resp); err != nil {
		return &SendError{Err: err}
	}
	return nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

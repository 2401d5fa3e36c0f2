package stp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
	"unicode/utf8"
)

// Protocol constants.
const (
	// headerSize is the size of the big-endian length prefix.
	headerSize = 4

	// MaxFrameSize is the largest frame body accepted by a receiver.
	MaxFrameSize = 16 << 20

	// defaultHandshakeTimeout bounds the clean/dirty exchange.
	defaultHandshakeTimeout = 10 * time.Second
)

// Handshake tokens.
var (
	clientHello = []byte("clean")
	serverHello = []byte("dirty")
)

// Config holds per-connection settings shared by clients and listeners.
type Config struct {
	// IOTimeout bounds every frame read and write. Zero means block
	// forever, which is the reference behaviour of the home server.
	IOTimeout time.Duration

	// HandshakeTimeout bounds the clean/dirty exchange.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
	return c
}

// writeFrame writes body as one length-prefixed frame.
// The header and body go out in a single Write.
func writeFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}

	buf := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint32(buf[:headerSize], uint32(len(body))) //nolint:gosec // bounded by MaxFrameSize
	copy(buf[headerSize:], body)

	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}

// readFrame reads one length-prefixed frame and returns its body.
// Framing problems are reported as ErrBadEncoding; everything else is
// the raw I/O error.
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header)
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %w: %d bytes", ErrBadEncoding, ErrFrameTooLarge, size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrBadEncoding)
	}
	return body, nil
}

// clientHandshake sends the client token and checks the server answer.
func clientHandshake(conn net.Conn, timeout time.Duration) error {
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("set handshake deadline: %w", err)
	}
	defer conn.SetDeadline(time.Time{}) //nolint:errcheck // cleared on a live conn

	if _, err := conn.Write(clientHello); err != nil {
		return err
	}

	answer := make([]byte, len(serverHello))
	if _, err := io.ReadFull(conn, answer); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return ErrBadHandshake
		}
		return err
	}
	if !bytes.Equal(answer, serverHello) {
		return ErrBadHandshake
	}
	return nil
}

// serverHandshake checks the client token and answers it.
func serverHandshake(conn net.Conn, timeout time.Duration) error {
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("set handshake deadline: %w", err)
	}
	defer conn.SetDeadline(time.Time{}) //nolint:errcheck // cleared on a live conn

	hello := make([]byte, len(clientHello))
	if _, err := io.ReadFull(conn, hello); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return ErrBadHandshake
		}
		return err
	}
	if !bytes.Equal(hello, clientHello) {
		return ErrBadHandshake
	}

	if _, err := conn.Write(serverHello); err != nil {
		return err
	}
	return nil
}

// setReadDeadline applies timeout to the next read when timeout is set.
func setReadDeadline(conn net.Conn, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	return conn.SetReadDeadline(time.Now().Add(timeout))
}

// setWriteDeadline applies timeout to the next write when timeout is set.
func setWriteDeadline(conn net.Conn, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	return conn.SetWriteDeadline(time.Now().Add(timeout))
}

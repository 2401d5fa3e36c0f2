package stp

import "errors"

// Sentinel errors for the transport.
var (
	// ErrBadHandshake is returned when the peer does not complete the
	// clean/dirty handshake.
	ErrBadHandshake = errors.New("stp: bad handshake")

	// ErrBadEncoding is returned when a received frame is malformed
	// (non UTF-8 body or impossible length).
	ErrBadEncoding = errors.New("stp: bad encoding")

	// ErrAcceptFailed is returned by Accept when the listener itself
	// fails, as opposed to a peer failing the handshake.
	ErrAcceptFailed = errors.New("stp: accept failed")

	// ErrFrameTooLarge is returned when a frame exceeds MaxFrameSize.
	// It always travels together with ErrBadEncoding on the receive side.
	ErrFrameTooLarge = errors.New("stp: frame too large")
)

// ConnectError is returned by Connect, Bind and Accept.
//
// Err is ErrBadHandshake, the underlying network error, or (from Accept)
// ErrAcceptFailed joined with the listener error.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string { return "stp connect: " + e.Err.Error() }
func (e *ConnectError) Unwrap() error { return e.Err }

// SendError is returned when a frame cannot be written.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return "stp send: " + e.Err.Error() }
func (e *SendError) Unwrap() error { return e.Err }

// RecvError is returned when a frame cannot be read.
//
// Err is either ErrBadEncoding (possibly joined with ErrFrameTooLarge)
// or the underlying network error.
type RecvError struct {
	Err error
}

func (e *RecvError) Error() string { return "stp recv: " + e.Err.Error() }
func (e *RecvError) Unwrap() error { return e.Err }

// RequestError is returned by Client.SendRequest. Err is always a
// *SendError or a *RecvError.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string { return "stp request: " + e.Err.Error() }
func (e *RequestError) Unwrap() error { return e.Err }

// IsSend reports whether the request failed while writing.
func (e *RequestError) IsSend() bool {
	var sendErr *SendError
	return errors.As(e.Err, &sendErr)
}

// IsRecv reports whether the request failed while waiting for the reply.
func (e *RequestError) IsRecv() bool {
	var recvErr *RecvError
	return errors.As(e.Err, &recvErr)
}

// Package stp implements the Simple Transport Protocol used between homerpc
// clients and the home server.
//
// STP is a point-to-point request/reply protocol on top of a stream
// connection. It knows nothing about JSON-RPC; it only moves opaque UTF-8
// text frames.
//
// # Wire Format
//
// Connection setup is a fixed handshake:
//
//	client → server: "clean" (5 bytes)
//	server → client: "dirty" (5 bytes)
//
// Every message after the handshake is one frame:
//
//	┌──────────────────────┬────────────────────────────┐
//	│ length (uint32, BE)  │ body (length bytes, UTF-8) │
//	└──────────────────────┴────────────────────────────┘
//
// A body that is not valid UTF-8, or a length above MaxFrameSize, is a
// framing error (ErrBadEncoding).
//
// # Exchange
//
// The server side calls Conn.ProcessRequest once per exchange: it reads
// exactly one request frame, hands the body to a handler and writes the
// handler's return value back as exactly one response frame. Handler-level
// failures never become transport errors; they are folded into the
// returned bytes by the caller.
//
// # Errors
//
// Failures are split into typed domains so callers can tell them apart
// with errors.As:
//
//   - *ConnectError: Connect, Bind and Accept (handshake or network)
//   - *SendError: writing a frame
//   - *RecvError: reading a frame (framing or network)
//   - *RequestError: Client.SendRequest, wrapping a *SendError or *RecvError
//
// # Usage
//
//	ln, err := stp.Bind("127.0.0.1:55432", stp.Config{})
//	conn, err := ln.Accept()
//	err = conn.ProcessRequest(func(req []byte) []byte { return handle(req) })
//
//	client, err := stp.Connect(ctx, "127.0.0.1:55432", stp.Config{})
//	resp, err := client.SendRequest([]byte(`[...]`))
package stp

// Package server runs the sequential home RPC serving loop.
//
// The loop binds once and then, forever: accepts one connection, reads
// one request frame, hands it to the dispatcher, writes the reply frame
// and closes the connection. No other connection is served meanwhile, so
// the home sees at most one mutation at a time.
//
// Failures are contained per connection. A failed handshake or a broken
// frame is logged and counted, and the loop moves on to the next peer.
// Only a failure to bind is fatal.
//
// Usage:
//
//	srv := server.New(server.Config{Address: cfg.Server.Address}, dispatcher)
//	srv.SetLogger(log)
//	if err := srv.Listen(); err != nil {
//	    return err
//	}
//	go srv.Serve(ctx)
package server

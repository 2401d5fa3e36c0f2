// homectl is the command line client for homed.
//
//	homectl call getDevices --name kitchen
//	homectl call deviceExecute --room kitchen --device "Smart Kettle 1" --command switch --data off
//	homectl send batch.json
//	homectl demo --send
//	homectl watch
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

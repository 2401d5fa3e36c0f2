package main

import (
	"fmt"
	"io"

	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

// printReply writes the reply text. An error reply is also returned as
// an error so the exit status reflects it.
func printReply(w io.Writer, r jsonrpc.Reply) error {
	if r.Error != nil {
		fmt.Fprintf(w, "%s\n", r.Error.Data)
		return r.Error
	}
	fmt.Fprintln(w, r.Text())
	return nil
}

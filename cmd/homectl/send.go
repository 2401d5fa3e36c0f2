package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send [file]",
		Short: "Send a JSON request batch from a file or stdin",
		Long: `Send a JSON request batch as-is and print the raw reply.

The batch is not checked locally; malformed input shows how the server
rejects it. Reads stdin when file is omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readBatch(a.in, args)
			if err != nil {
				return err
			}

			resp, err := a.client().CallRaw(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(resp))
			return nil
		},
	}
}

func readBatch(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading batch: %w", err)
	}
	return raw, nil
}

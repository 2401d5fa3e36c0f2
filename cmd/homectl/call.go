package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

type callOptions struct {
	id       string
	name     string
	room     string
	device   string
	command  string
	data     []string
	provider string
}

func newCallCmd(a *app) *cobra.Command {
	var opts callOptions

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Send a single command",
		Long: `Send a batch holding one command and print its reply.

Methods and their flags:
  addRoom, delRoom, getDevices   --name
  createReport, reset            (none)
  createProviderReport           --provider '{"schema":{"living":["Thermometer 1"]}}'
  deviceExecute                  --room --device --command [--data]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(a, args[0], opts)
			if err != nil {
				return err
			}

			replies, err := a.client().Call(cmd.Context(), []jsonrpc.Request{req})
			if err != nil {
				return err
			}
			if len(replies) != 1 {
				return fmt.Errorf("expected 1 reply, got %d", len(replies))
			}
			return printReply(a.out, replies[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.id, "id", "", "request id (default: random)")
	f.StringVar(&opts.name, "name", "", "room name")
	f.StringVar(&opts.room, "room", "", "room of the device")
	f.StringVar(&opts.device, "device", "", "device name")
	f.StringVar(&opts.command, "command", "", "device sub-command: get_name, get_description, get_current_info, report, switch")
	f.StringSliceVar(&opts.data, "data", nil, "sub-command arguments, e.g. on")
	f.StringVar(&opts.provider, "provider", "", "provider filter as JSON")

	return cmd
}

// buildRequest maps flags to the params of method. Unknown methods are
// sent as-is so the server decides.
func buildRequest(a *app, method string, opts callOptions) (jsonrpc.Request, error) {
	var params any

	switch method {
	case dispatch.MethodAddRoom, dispatch.MethodDelRoom, dispatch.MethodGetDevices:
		if opts.name == "" {
			return jsonrpc.Request{}, fmt.Errorf("%s needs --name", method)
		}
		params = map[string]string{"name": opts.name}
	case dispatch.MethodCreateProviderReport:
		if opts.provider == "" {
			return jsonrpc.Request{}, errors.New("createProviderReport needs --provider")
		}
		if !json.Valid([]byte(opts.provider)) {
			return jsonrpc.Request{}, errors.New("--provider is not valid JSON")
		}
		params = map[string]json.RawMessage{"provider": json.RawMessage(opts.provider)}
	case dispatch.MethodDeviceExecute:
		if opts.room == "" || opts.device == "" || opts.command == "" {
			return jsonrpc.Request{}, errors.New("deviceExecute needs --room, --device and --command")
		}
		data := opts.data
		if data == nil {
			data = []string{}
		}
		params = map[string]any{
			"room":    opts.room,
			"device":  opts.device,
			"command": opts.command,
			"data":    data,
		}
	default:
		params = map[string]any{}
	}

	if opts.id != "" {
		return jsonrpc.NewRequest(opts.id, method, params)
	}
	return a.client().NewRequest(method, params)
}

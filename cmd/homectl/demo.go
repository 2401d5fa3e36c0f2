package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
)

func newDemoCmd(a *app) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print (or send) a sample batch exercising every method",
		Long: `Print a sample batch written against the default demo home.

The batch contains a reset, so commands placed before it in the batch
(which run after it) are dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := json.MarshalIndent(demoBatch(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding demo batch: %w", err)
			}
			if !send {
				fmt.Fprintln(a.out, string(raw))
				return nil
			}

			resp, err := a.client().CallRaw(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "send the batch and print the reply")
	return cmd
}

func device(room, name, command string, data ...string) map[string]any {
	if data == nil {
		data = []string{}
	}
	return map[string]any{"room": room, "device": name, "command": command, "data": data}
}

// demoBatch returns the sample batch. Commands run last to first.
func demoBatch() []jsonrpc.Request {
	entries := []struct {
		method string
		params any
	}{
		{dispatch.MethodAddRoom, map[string]string{"name": "library"}},
		{dispatch.MethodDelRoom, map[string]string{"name": "kitchen"}},
		{dispatch.MethodGetDevices, map[string]string{"name": "living"}},
		{dispatch.MethodCreateReport, map[string]any{}},
		{dispatch.MethodReset, map[string]any{}},
		{dispatch.MethodDeviceExecute, device("living", "Thermometer 1", dispatch.CommandGetCurrentInfo)},
		{dispatch.MethodDeviceExecute, device("storeroom", "Smart Socket 4", dispatch.CommandReport)},
		{dispatch.MethodDeviceExecute, device("bedroom", "Smart Socket 3", dispatch.CommandSwitch, "on")},
		{dispatch.MethodDeviceExecute, device("storeroom", "Smart Socket 4", dispatch.CommandSwitch, "on")},
		{dispatch.MethodCreateProviderReport, map[string]any{
			"provider": map[string]any{
				"schema": map[string][]string{
					"living": {"Smart Socket 2", "Thermometer 1"},
					"cellar": {"Smart Kettle 9"},
				},
			},
		}},
	}

	batch := make([]jsonrpc.Request, 0, len(entries))
	for i, e := range entries {
		req, err := jsonrpc.NewRequest(fmt.Sprint(i), e.method, e.params)
		if err != nil {
			panic(err) // static params always marshal
		}
		batch = append(batch, req)
	}
	return batch
}

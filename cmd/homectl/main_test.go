package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/homerpc/api"
	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/home"
	"github.com/nerrad567/homerpc/internal/infrastructure/config"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
	"github.com/nerrad567/homerpc/internal/server"
)

func startServer(t *testing.T) string {
	t.Helper()

	h, err := home.FromConfig(config.Default().Home)
	require.NoError(t, err)
	v, err := jsonrpc.NewValidator(api.Schema)
	require.NoError(t, err)

	srv := server.New(server.Config{Address: "127.0.0.1:0", IOTimeout: 5 * time.Second}, dispatch.New(h, v))
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx) //nolint:errcheck
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return srv.Addr().String()
}

// execute runs homectl with args and returns what it printed.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOMERPC_CONFIG", "")

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var out, errOut bytes.Buffer
	cmd := newRootCmd(stdin, &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCallGetDevices(t *testing.T) {
	addr := startServer(t)

	out, err := execute(t, nil, "--addr", addr, "call", "getDevices", "--name", "kitchen")
	require.NoError(t, err)
	assert.Contains(t, out, "Smart Socket 1")
	assert.Contains(t, out, "Smart Kettle 1")
}

func TestCallErrorReply(t *testing.T) {
	addr := startServer(t)

	out, err := execute(t, nil, "--addr", addr, "call", "delRoom", "--name", "attic")
	require.Error(t, err)

	var rpcErr *jsonrpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, int(jsonrpc.CodeAPIError), rpcErr.Code)
	assert.Contains(t, out, "delRoom error")
}

func TestCallDeviceExecute(t *testing.T) {
	addr := startServer(t)

	out, err := execute(t, nil, "--addr", addr, "call", "deviceExecute",
		"--room", "storeroom", "--device", "Smart Socket 4", "--command", "switch", "--data", "on")
	require.NoError(t, err)
	assert.Contains(t, out, "ok, state was set")
}

func TestCallMissingFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"name", []string{"call", "addRoom"}, "needs --name"},
		{"device", []string{"call", "deviceExecute", "--room", "kitchen"}, "needs --room, --device and --command"},
		{"provider", []string{"call", "createProviderReport"}, "needs --provider"},
		{"provider json", []string{"call", "createProviderReport", "--provider", "{oops"}, "not valid JSON"},
		{"no method", []string{"call"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, nil, append([]string{"--addr", "127.0.0.1:1"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildRequestID(t *testing.T) {
	a := &app{addr: "127.0.0.1:1"}

	req, err := buildRequest(a, dispatch.MethodReset, callOptions{id: "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", req.ID)
	assert.Equal(t, jsonrpc.Version, req.JSONRPC)
	assert.JSONEq(t, `{}`, string(req.Params))

	req, err = buildRequest(a, dispatch.MethodDeviceExecute, callOptions{room: "r", device: "d", command: "report"})
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.JSONEq(t, `{"room":"r","device":"d","command":"report","data":[]}`, string(req.Params))
}

func TestSendStdin(t *testing.T) {
	addr := startServer(t)

	batch := `[{"id":"a","jsonrpc":"2.0","method":"getDevices","params":{"name":"living"}}]`
	out, err := execute(t, strings.NewReader(batch), "--addr", addr, "send")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "a"`)
	assert.Contains(t, out, "Thermometer 1")
}

func TestSendParseError(t *testing.T) {
	addr := startServer(t)

	out, err := execute(t, strings.NewReader("not json"), "--addr", addr, "send", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "-32700")
	assert.Contains(t, out, `"id": null`)
}

func TestSendFile(t *testing.T) {
	addr := startServer(t)
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"r","jsonrpc":"2.0","method":"createReport"}]`), 0o600))

	out, err := execute(t, nil, "--addr", addr, "send", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "r"`)

	_, err = execute(t, nil, "--addr", addr, "send", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDemoBatchIsValid(t *testing.T) {
	out, err := execute(t, nil, "demo")
	require.NoError(t, err)

	var value any
	require.NoError(t, json.Unmarshal([]byte(out), &value))

	v, err := jsonrpc.NewValidator(api.Schema)
	require.NoError(t, err)
	assert.Empty(t, v.Validate(value))

	batch, ok := value.([]any)
	require.True(t, ok)
	assert.Len(t, batch, 10)
}

func TestDemoSend(t *testing.T) {
	addr := startServer(t)

	out, err := execute(t, nil, "--addr", addr, "demo", "--send")
	require.NoError(t, err)
	assert.Contains(t, out, `"jsonrpc": "2.0"`)
	assert.NotContains(t, out, `"id": null`)
}

func TestConfigFlag(t *testing.T) {
	_, err := execute(t, nil, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestUnreachableServer(t *testing.T) {
	_, err := execute(t, nil, "--addr", "127.0.0.1:1", "--timeout", "1s", "call", "createReport")
	assert.Error(t, err)
}

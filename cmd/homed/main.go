// homed serves a smart home over the STP transport.
//
// Each connection carries one JSON-RPC request batch. The batch is
// validated against the request schema, queued and dispatched against the
// in-memory home, and the reply batch is written back before the
// connection closes. Audit, MQTT events, InfluxDB telemetry and the status
// endpoint are optional and configured in configs/config.yaml.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nerrad567/homerpc/api"
	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/home"
	"github.com/nerrad567/homerpc/internal/infrastructure/config"
	"github.com/nerrad567/homerpc/internal/infrastructure/logging"
	"github.com/nerrad567/homerpc/internal/jsonrpc"
	"github.com/nerrad567/homerpc/internal/server"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the server from configuration and blocks until ctx is done.
//
// Returns:
//   - error: nil on clean shutdown, or the startup failure
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting homed",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	validator, err := loadValidator(cfg.Server.SchemaPath)
	if err != nil {
		return err
	}

	h, err := home.FromConfig(cfg.Home)
	if err != nil {
		return fmt.Errorf("building home: %w", err)
	}
	h.SetLogger(log.With("component", "home"))
	log.Info("home ready", "name", h.Name(), "rooms", len(h.Rooms()))

	d := dispatch.New(h, validator)
	d.SetLogger(log.With("component", "dispatch"))

	srv := server.New(server.Config{
		Address:          cfg.Server.Address,
		IOTimeout:        cfg.GetIOTimeout(),
		HandshakeTimeout: cfg.GetHandshakeTimeout(),
	}, d)
	srv.SetLogger(log.With("component", "server"))
	d.AddObserver(srv.Stats())

	s, err := startSinks(ctx, cfg, d, srv.Stats(), log)
	if err != nil {
		return err
	}
	defer s.close()

	if err := srv.Listen(); err != nil {
		return err
	}
	defer srv.Close() //nolint:errcheck // Serve has already stopped

	log.Info("homed ready", "address", srv.Addr().String())

	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	log.Info("shutting down")
	return nil
}

// loadValidator compiles the schema at path, or the built-in schema when
// path is empty.
func loadValidator(path string) (*jsonrpc.Validator, error) {
	if path == "" {
		v, err := jsonrpc.NewValidator(api.Schema)
		if err != nil {
			return nil, fmt.Errorf("compiling built-in schema: %w", err)
		}
		return v, nil
	}

	v, err := jsonrpc.LoadValidator(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", path, err)
	}
	return v, nil
}

// getConfigPath returns HOMERPC_CONFIG, or the default path.
func getConfigPath() string {
	if path := os.Getenv("HOMERPC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

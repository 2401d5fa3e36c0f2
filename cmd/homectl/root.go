package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nerrad567/homerpc/internal/homeclient"
	"github.com/nerrad567/homerpc/internal/infrastructure/config"
	"github.com/nerrad567/homerpc/internal/stp"
)

// app carries the global flags and the resolved configuration.
type app struct {
	in  io.Reader
	out io.Writer

	configPath string
	addr       string
	timeout    time.Duration

	cfg *config.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "homectl",
		Short: "homectl - smart home RPC client",
		Long: `homectl sends JSON-RPC request batches to a homed server over STP.

Every invocation opens one connection, sends one batch and prints the
server's reply. Replies inside a batch come back in reverse order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: $HOMERPC_CONFIG, else built-in defaults)")
	flags.StringVar(&a.addr, "addr", "", "server address host:port (default: client.address from config)")
	flags.DurationVar(&a.timeout, "timeout", 0, "per-request I/O timeout (default: client.timeout from config)")

	root.AddCommand(
		newCallCmd(a),
		newSendCmd(a),
		newDemoCmd(a),
		newWatchCmd(a),
	)
	return root
}

// loadConfig resolves the configuration, then lets explicit flags win.
func (a *app) loadConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	path := a.configPath
	if path == "" {
		path = os.Getenv("HOMERPC_CONFIG")
	}

	if path == "" {
		a.cfg = config.Default()
	} else {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.cfg = cfg
	}

	if !cmd.Flags().Changed("addr") {
		a.addr = a.cfg.Client.Address
	}
	if !cmd.Flags().Changed("timeout") {
		a.timeout = a.cfg.GetClientTimeout()
	}
	return nil
}

func (a *app) client() *homeclient.Client {
	return homeclient.New(a.addr, stp.Config{
		IOTimeout:        a.timeout,
		HandshakeTimeout: a.timeout,
	})
}

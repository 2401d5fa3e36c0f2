package main

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nerrad567/homerpc/internal/infrastructure/mqtt"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		host   string
		port   int
		states bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print homerpc events from the MQTT broker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.MQTT
			if cmd.Flags().Changed("broker-host") {
				cfg.Broker.Host = host
			}
			if cmd.Flags().Changed("broker-port") {
				cfg.Broker.Port = port
			}
			cfg.Broker.ClientID = fmt.Sprintf("%s-watch-%s", cfg.Broker.ClientID, uuid.NewString()[:8])

			client, err := mqtt.ConnectListener(cfg)
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck // exiting anyway

			topic := mqtt.Topics{}.All()
			if states {
				topic = mqtt.Topics{}.AllStates()
			}

			var mu sync.Mutex
			err = client.Subscribe(topic, byte(cfg.QoS), func(t string, payload []byte) error {
				mu.Lock()
				defer mu.Unlock()
				_, err := fmt.Fprintf(a.out, "%s %s\n", t, payload)
				return err
			})
			if err != nil {
				return err
			}

			<-cmd.Context().Done()
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&host, "broker-host", "", "broker host (default: mqtt.broker.host from config)")
	f.IntVar(&port, "broker-port", 0, "broker port (default: mqtt.broker.port from config)")
	f.BoolVar(&states, "states", false, "only device state topics")
	return cmd
}

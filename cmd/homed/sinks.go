package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/nerrad567/homerpc/internal/audit"
	"github.com/nerrad567/homerpc/internal/dispatch"
	"github.com/nerrad567/homerpc/internal/events"
	"github.com/nerrad567/homerpc/internal/infrastructure/config"
	"github.com/nerrad567/homerpc/internal/infrastructure/database"
	"github.com/nerrad567/homerpc/internal/infrastructure/influxdb"
	"github.com/nerrad567/homerpc/internal/infrastructure/logging"
	"github.com/nerrad567/homerpc/internal/infrastructure/mqtt"
	"github.com/nerrad567/homerpc/internal/server"
	"github.com/nerrad567/homerpc/internal/status"
	"github.com/nerrad567/homerpc/internal/telemetry"
	"github.com/nerrad567/homerpc/migrations"
)

// sinks holds the optional components observing dispatch. Closers run in
// reverse start order.
type sinks struct {
	log     *logging.Logger
	closers []func()
}

func (s *sinks) onClose(fn func()) {
	s.closers = append(s.closers, fn)
}

func (s *sinks) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// startSinks connects every enabled sink and registers it with d. On
// error, sinks already started are closed.
func startSinks(ctx context.Context, cfg *config.Config, d *dispatch.Dispatcher, stats *server.Stats, log *logging.Logger) (_ *sinks, err error) {
	s := &sinks{log: log}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	checks := make(map[string]status.HealthChecker)
	var auditRepo audit.Repository

	if cfg.Database.Enabled {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.onClose(func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		})
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("audit trail enabled", "path", db.Path())

		repo := audit.NewSQLiteRepository(db.DB)
		rec := audit.NewRecorder(repo)
		rec.SetLogger(log.With("component", "audit"))
		d.AddObserver(rec)
		auditRepo = repo
		checks["database"] = db
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("connecting to MQTT: %w", err)
		}
		s.onClose(func() {
			log.Info("disconnecting from MQTT")
			if closeErr := client.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		})
		client.SetLogger(log.With("component", "mqtt"))
		client.SetOnConnect(func() { log.Info("MQTT connected") })
		client.SetOnDisconnect(func(err error) {
			log.Warn("MQTT events paused until reconnect", "error", err)
		})
		log.Info("MQTT events enabled",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		pub := events.NewPublisher(client)
		pub.SetLogger(log.With("component", "events"))
		d.AddObserver(pub)
		checks["mqtt"] = client
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		s.onClose(func() {
			log.Info("closing InfluxDB connection")
			if closeErr := client.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		})
		client.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("telemetry enabled",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		d.AddObserver(telemetry.NewRecorder(client))
		checks["influxdb"] = client
	}

	if cfg.Status.Enabled {
		srv, err := status.New(status.Deps{
			Address: net.JoinHostPort(cfg.Status.Host, strconv.Itoa(cfg.Status.Port)),
			Timeouts: status.Timeouts{
				Read:  cfg.GetReadTimeout(),
				Write: cfg.GetWriteTimeout(),
				Idle:  cfg.GetIdleTimeout(),
			},
			Logger:  log.With("component", "status"),
			Stats:   stats,
			Audit:   auditRepo,
			Checks:  checks,
			Version: version,
		})
		if err != nil {
			return nil, fmt.Errorf("creating status endpoint: %w", err)
		}
		if err := srv.Start(ctx); err != nil {
			return nil, err
		}
		s.onClose(func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing status endpoint", "error", closeErr)
			}
		})
	}

	return s, nil
}

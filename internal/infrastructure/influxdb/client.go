package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/homerpc/internal/infrastructure/config"
)

// Timeouts and batching defaults for the telemetry connection.
const (
	// defaultConnectTimeout bounds the startup ping.
	defaultConnectTimeout = 10 * time.Second

	// defaultPingTimeout bounds each HealthCheck ping.
	defaultPingTimeout = 5 * time.Second

	// defaultBatchSize is used when influxdb.batch_size is unset.
	defaultBatchSize = 100

	// defaultFlushInterval is used when influxdb.flush_interval is unset, in seconds.
	defaultFlushInterval = 10

	// millisecondsPerSecond converts the configured flush interval for the client options.
	millisecondsPerSecond = 1000
)

// Client wraps the InfluxDB v2 client for homerpc telemetry.
//
// It owns the connection lifecycle, a batched non-blocking write API for
// command and batch points, and an active health probe for /health.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Write operations are non-blocking and batched.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	cfg      config.InfluxDBConfig

	// connected is cleared by Close; writes after that are dropped.
	connected bool
	mu        sync.RWMutex

	// onError receives failures reported by the background writer.
	onError func(err error)
}

// Connect establishes a connection to the InfluxDB server.
//
// It performs the following setup:
//  1. Creates the client with token authentication
//  2. Verifies connectivity with a ping
//  3. Configures the non-blocking write API with batching
//  4. Starts forwarding async write failures to the SetOnError callback
//
// Parameters:
//   - cfg: influxdb section of config.yaml
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: ErrDisabled, or wrapping ErrConnectionFailed
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// #nosec G115 -- values validated above to be positive
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	c := &Client{
		client:    client,
		writeAPI:  client.WriteAPI(cfg.Org, cfg.Bucket),
		cfg:       cfg,
		connected: true,
	}
	go c.handleWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// handleWriteErrors drains the write API error channel until the client
// is closed, handing each failure to the current callback.
func (c *Client) handleWriteErrors(errorsCh <-chan error) {
	for err := range errorsCh {
		c.mu.RLock()
		callback := c.onError
		c.mu.RUnlock()

		if callback != nil {
			callback(err)
		}
	}
}

// Close flushes buffered points and shuts the client down.
//
// It performs:
//  1. Marks the client disconnected so later writes are dropped
//  2. Flushes any points still in the batch buffer
//  3. Closes the underlying HTTP client
//
// Calling Close again is a no-op.
//
// Returns:
//   - error: always nil; the InfluxDB client cannot fail to close
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.mu.Lock()
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()
	if !wasConnected {
		return nil
	}

	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server to confirm telemetry can still be written.
//
// Parameters:
//   - ctx: Context for cancellation; the ping is further capped at defaultPingTimeout
//
// Returns:
//   - error: ErrNotConnected after Close, or a description of the ping failure
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	if !healthy {
		return errors.New("influxdb health check failed: server not healthy")
	}
	return nil
}

// IsConnected reports whether Close has not yet been called.
//
// It does not contact the server; use HealthCheck for an active probe.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SetOnError sets a callback for asynchronous write failures.
//
// Points are written in the background, so a rejected batch never
// surfaces at the WriteCommand or WriteBatch call site. homed logs
// these through this callback.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = callback
}

// Flush hands every buffered point to the HTTP writer.
//
// The write itself completes asynchronously; tests that need to observe
// it must wait on the server side. Safe to call after Close (no-op).
func (c *Client) Flush() {
	if c.writeAPI == nil || !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}

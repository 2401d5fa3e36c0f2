package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementCommand = "rpc_command"
	MeasurementBatch   = "rpc_batch"
)

// WriteCommand records one executed command.
//
// Parameters:
//   - method: request method, "" is stored as "unknown"
//   - code: reply code, 0 for success
//   - elapsed: time spent executing the command
//   - at: when the command ran
func (c *Client) WriteCommand(method string, code int, elapsed time.Duration, at time.Time) {
	c.writePoint(commandPoint(method, code, elapsed, at))
}

// WriteBatch records one served batch. rejected is the batch-level error
// code, 0 when the batch was dispatched.
func (c *Client) WriteBatch(commands, errors, rejected int, elapsed time.Duration, at time.Time) {
	c.writePoint(batchPoint(commands, errors, rejected, elapsed, at))
}

func (c *Client) writePoint(p *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p)
}

func commandPoint(method string, code int, elapsed time.Duration, at time.Time) *write.Point {
	if method == "" {
		method = "unknown"
	}
	return write.NewPoint(
		MeasurementCommand,
		map[string]string{
			"method": method,
			"code":   strconv.Itoa(code),
		},
		map[string]any{
			"duration_us": elapsed.Microseconds(),
		},
		at,
	)
}

func batchPoint(commands, errors, rejected int, elapsed time.Duration, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementBatch,
		map[string]string{
			"rejected": strconv.Itoa(rejected),
		},
		map[string]any{
			"commands":    int64(commands),
			"errors":      int64(errors),
			"duration_us": elapsed.Microseconds(),
		},
		at,
	)
}

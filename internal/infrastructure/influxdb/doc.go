// Package influxdb records dispatch telemetry in InfluxDB.
//
// It wraps influxdb-client-go v2 with connection management, batched
// non-blocking writes and health checks.
//
// # Measurements
//
//	rpc_command  tags: method, code   fields: duration_us
//	rpc_batch    tags: rejected       fields: commands, errors, duration_us
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteCommand("addRoom", 0, 120*time.Microsecond, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Write errors arrive asynchronously through SetOnError.
package influxdb

package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAddress is the address the home server listens on and the
// client dials when nothing else is configured.
const DefaultAddress = "127.0.0.1:55432"

// Config is the root configuration structure for the home server and client.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Home     HomeConfig     `yaml:"home"`
	Client   ClientConfig   `yaml:"client"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Status   StatusConfig   `yaml:"status"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains the RPC listener settings.
type ServerConfig struct {
	Address string `yaml:"address"`

	// SchemaPath is the request batch schema document. Empty means the
	// schema built into the binary.
	SchemaPath string `yaml:"schema_path"`

	// IOTimeout bounds each frame read and write, in seconds. 0 disables
	// deadlines: a stalled peer then stalls the server.
	IOTimeout int `yaml:"io_timeout"`

	// HandshakeTimeout bounds the connection handshake, in seconds.
	HandshakeTimeout int `yaml:"handshake_timeout"`
}

// HomeConfig describes the home served at startup.
type HomeConfig struct {
	Name  string       `yaml:"name"`
	Rooms []RoomConfig `yaml:"rooms"`
}

// RoomConfig describes one room and its devices.
type RoomConfig struct {
	Name    string         `yaml:"name"`
	Devices []DeviceConfig `yaml:"devices"`
}

// DeviceConfig describes one device.
//
// The device name is derived from its type and ID ("Smart Socket 1").
// An empty State keeps the kind's initial state.
type DeviceConfig struct {
	Type  string `yaml:"type"`
	ID    string `yaml:"id"`
	State string `yaml:"state"`
}

// ClientConfig contains homectl settings.
type ClientConfig struct {
	Address string `yaml:"address"`
	Timeout int    `yaml:"timeout"`
}

// DatabaseConfig contains SQLite settings for the command audit trail.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// StatusConfig contains the operator HTTP endpoint settings.
type StatusConfig struct {
	Enabled  bool                `yaml:"enabled"`
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	Timeouts StatusTimeoutConfig `yaml:"timeouts"`
}

// StatusTimeoutConfig contains HTTP timeout settings, in seconds.
type StatusTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HOMERPC_SECTION_KEY
// For example: HOMERPC_SERVER_ADDRESS, HOMERPC_DATABASE_PATH
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration: the demo home served on
// DefaultAddress with every optional sink disabled. Environment overrides
// are applied by Load, not here.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:          DefaultAddress,
			HandshakeTimeout: 10,
		},
		Home: demoHome(),
		Client: ClientConfig{
			Address: DefaultAddress,
			Timeout: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/homerpc.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "homerpc",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Status: StatusConfig{
			Host: "127.0.0.1",
			Port: 8090,
			Timeouts: StatusTimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func demoHome() HomeConfig {
	return HomeConfig{
		Name: "MyHome",
		Rooms: []RoomConfig{
			{Name: "kitchen", Devices: []DeviceConfig{
				{Type: "socket", ID: "1", State: "off"},
				{Type: "kettle", ID: "1", State: "on"},
			}},
			{Name: "living", Devices: []DeviceConfig{
				{Type: "socket", ID: "2"},
				{Type: "thermometer", ID: "1"},
			}},
			{Name: "bedroom", Devices: []DeviceConfig{
				{Type: "socket", ID: "3", State: "broken"},
				{Type: "thermometer", ID: "2"},
			}},
			{Name: "storeroom", Devices: []DeviceConfig{
				{Type: "socket", ID: "4"},
				{Type: "kettle", ID: "2"},
			}},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HOMERPC_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("HOMERPC_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("HOMERPC_SERVER_SCHEMA_PATH"); v != "" {
		cfg.Server.SchemaPath = v
	}

	// Client
	if v := os.Getenv("HOMERPC_CLIENT_ADDRESS"); v != "" {
		cfg.Client.Address = v
	}

	// Database
	if v := os.Getenv("HOMERPC_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("HOMERPC_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HOMERPC_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HOMERPC_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("HOMERPC_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("HOMERPC_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Status
	if v := os.Getenv("HOMERPC_STATUS_HOST"); v != "" {
		cfg.Status.Host = v
	}

	// Logging
	if v := os.Getenv("HOMERPC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Sections of disabled sinks are not checked.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Server
	if c.Server.Address == "" {
		errs = append(errs, "server.address is required")
	} else if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		errs = append(errs, fmt.Sprintf("server.address %q must be host:port", c.Server.Address))
	}
	if c.Server.IOTimeout < 0 {
		errs = append(errs, "server.io_timeout must not be negative")
	}
	if c.Server.HandshakeTimeout < 0 {
		errs = append(errs, "server.handshake_timeout must not be negative")
	}

	// Home
	errs = append(errs, c.Home.validate()...)

	// Database
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when the audit trail is enabled")
	}

	// MQTT
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	// InfluxDB
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required")
		}
	}

	// Status; port 0 picks a free port.
	if c.Status.Enabled && (c.Status.Port < 0 || c.Status.Port > 65535) {
		errs = append(errs, "status.port must be between 0 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// validate checks room and device structure. Device types and states are
// checked when the home is built.
func (h HomeConfig) validate() []string {
	var errs []string

	if h.Name == "" {
		errs = append(errs, "home.name is required")
	}

	seen := make(map[string]bool, len(h.Rooms))
	for i, room := range h.Rooms {
		if room.Name == "" {
			errs = append(errs, fmt.Sprintf("home.rooms[%d].name is required", i))
			continue
		}
		if seen[room.Name] {
			errs = append(errs, fmt.Sprintf("home.rooms[%d]: duplicate room %q", i, room.Name))
		}
		seen[room.Name] = true

		for j, dev := range room.Devices {
			if dev.Type == "" || dev.ID == "" {
				errs = append(errs, fmt.Sprintf("home.rooms[%d].devices[%d]: type and id are required", i, j))
			}
		}
	}

	return errs
}

// GetIOTimeout returns the server frame I/O timeout as a Duration.
func (c *Config) GetIOTimeout() time.Duration {
	return time.Duration(c.Server.IOTimeout) * time.Second
}

// GetHandshakeTimeout returns the server handshake timeout as a Duration.
func (c *Config) GetHandshakeTimeout() time.Duration {
	return time.Duration(c.Server.HandshakeTimeout) * time.Second
}

// GetClientTimeout returns the client request timeout as a Duration.
func (c *Config) GetClientTimeout() time.Duration {
	return time.Duration(c.Client.Timeout) * time.Second
}

// GetReadTimeout returns the status endpoint read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Status.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the status endpoint write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Status.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the status endpoint idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Status.Timeouts.Idle) * time.Second
}

package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nerrad567/homerpc/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "homerpc-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnected returns a client that never reached a broker.
func disconnected() *Client {
	return &Client{cfg: testConfig(), subscriptions: make(map[string]subscription)}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"state", topics.State("kitchen", "Smart Kettle 1"), "homerpc/state/kitchen/Smart Kettle 1"},
		{"state escapes separators", topics.State("a/b", "x+y#"), "homerpc/state/a_b/x_y_"},
		{"state empty segment", topics.State("", "dev"), "homerpc/state/_/dev"},
		{"batch", topics.Batch(), "homerpc/batch"},
		{"system status", topics.SystemStatus(), "homerpc/system/status"},
		{"all states", topics.AllStates(), "homerpc/state/+/+"},
		{"all", topics.All(), "homerpc/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	t.Run("plain tcp", func(t *testing.T) {
		opts := buildClientOptions(testConfig())

		if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
			t.Errorf("Servers = %v", opts.Servers)
		}
		if opts.ClientID != "homerpc-test" {
			t.Errorf("ClientID = %q", opts.ClientID)
		}
		if opts.Username != "" {
			t.Errorf("Username = %q, want empty", opts.Username)
		}
		if opts.TLSConfig != nil {
			t.Error("TLSConfig set without tls")
		}
	})

	t.Run("tls and auth", func(t *testing.T) {
		cfg := testConfig()
		cfg.Broker.TLS = true
		cfg.Broker.Port = 8883
		cfg.Auth = config.MQTTAuthConfig{Username: "home", Password: "secret"}

		opts := buildClientOptions(cfg)

		if opts.Servers[0].String() != "ssl://127.0.0.1:8883" {
			t.Errorf("Servers = %v", opts.Servers)
		}
		if opts.Username != "home" || opts.Password != "secret" {
			t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
		}
		if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
			t.Error("TLS 1.2 minimum not configured")
		}
	})
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "homerpc-test")

	if !opts.WillEnabled {
		t.Fatal("will not enabled")
	}
	if opts.WillTopic != "homerpc/system/status" {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}
	if !opts.WillRetained {
		t.Error("will should be retained")
	}

	var p statusPayload
	if err := json.Unmarshal(opts.WillPayload, &p); err != nil {
		t.Fatalf("will payload: %v", err)
	}
	if p.Status != "offline" || p.Reason != "unexpected_disconnect" || p.ClientID != "homerpc-test" {
		t.Errorf("will payload = %+v", p)
	}
}

func TestStatusMessageOmitsEmptyReason(t *testing.T) {
	msg := statusMessage("online", "c1", "")
	if strings.Contains(msg, "reason") {
		t.Errorf("online status carries reason: %s", msg)
	}
}

func TestPublishValidation(t *testing.T) {
	c := disconnected()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"bad qos", "homerpc/batch", []byte("x"), 3, ErrInvalidQoS},
		{"oversized", "homerpc/batch", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
		{"not connected", "homerpc/batch", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishShortcutsValidate(t *testing.T) {
	c := disconnected()

	tests := []struct {
		name    string
		publish func(topic string, payload []byte) error
		topic   string
		wantErr error
	}{
		{"retained empty topic", c.PublishRetained, "", ErrInvalidTopic},
		{"retained not connected", c.PublishRetained, Topics{}.State("kitchen", "Smart Kettle 1"), ErrNotConnected},
		{"event empty topic", c.PublishEvent, "", ErrInvalidTopic},
		{"event not connected", c.PublishEvent, Topics{}.Batch(), ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.publish(tt.topic, []byte(`{}`)); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := disconnected()
	noop := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		wantErr error
	}{
		{"empty topic", "", 1, noop, ErrInvalidTopic},
		{"bad qos", "homerpc/#", 5, noop, ErrInvalidQoS},
		{"nil handler", "homerpc/#", 1, nil, ErrSubscribeFailed},
		{"not connected", "homerpc/#", 1, noop, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Subscribe(tt.topic, tt.qos, tt.handler); !errors.Is(err, tt.wantErr) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", c.SubscriptionCount())
	}
}

func TestHealthCheck(t *testing.T) {
	c := disconnected()

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() = %v, want context.Canceled", err)
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	if err := disconnected().Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOnDisconnectCallback(t *testing.T) {
	c := disconnected()
	c.setConnected(true)

	var got error
	c.SetOnDisconnect(func(err error) { got = err })

	lost := errors.New("broker went away")
	c.handleDisconnect(lost)

	if !errors.Is(got, lost) {
		t.Errorf("callback error = %v, want %v", got, lost)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after connection loss")
	}
}

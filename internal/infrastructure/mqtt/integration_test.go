//go:build integration

package mqtt

import (
	"testing"
	"time"
)

// Integration tests need a broker at 127.0.0.1:1883.
//
// Run with:
//   go test -tags=integration -v ./internal/infrastructure/mqtt/...

func TestIntegration_StateRoundtrip(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "homerpc-int-roundtrip"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	received := make(chan string, 1)
	err = client.Subscribe(Topics{}.AllStates(), 1, func(topic string, payload []byte) error {
		select {
		case received <- topic + " " + string(payload):
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if client.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", client.SubscriptionCount())
	}

	topic := Topics{}.State("int-room", "int-device")
	if err := client.PublishEvent(topic, []byte(`{"state":"on"}`)); err != nil {
		t.Fatalf("PublishEvent() error = %v", err)
	}

	select {
	case got := <-received:
		want := topic + ` {"state":"on"}`
		if got != want {
			t.Errorf("received %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestIntegration_ConnectRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19999

	if _, err := Connect(cfg); err == nil {
		t.Fatal("Connect() expected error for unreachable broker")
	}
}

func TestIntegration_ConnectListenerRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19999

	if _, err := ConnectListener(cfg); err == nil {
		t.Fatal("ConnectListener() expected error for unreachable broker")
	}
}

// Package mqtt provides the MQTT connection used to announce home state
// changes and served batches.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and retain control
//   - Subscriptions that survive reconnects
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	homerpc/state/{room}/{device}   retained, one per switched device
//	homerpc/batch                   one per served batch
//	homerpc/system/status           online/offline, retained, LWT
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.State("kitchen", "Smart Kettle 1")
//	err = client.PublishRetained(topic, payload)
//
// Subscribers that should not announce themselves on the status topic use
// ConnectListener instead of Connect.
//
// # Security Considerations
//
//   - Set broker.tls for anything beyond a local broker
//   - Payloads carry device names and states only
package mqtt

// Package mqtt provides MQTT client connectivity for Atrio Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Atrio uses MQTT as the ingest path for the device registry. The backend
// registry store publishes raw device records as retained JSON messages,
// one topic per device, so Core rebuilds its in-memory snapshot on
// reconnect without a request/response sync protocol.
//
//	Registry Store → MQTT Broker → Atrio Core
//
// An empty retained payload on a device topic removes that device.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to every building's registry records
//	err = client.Subscribe(mqtt.Topics{}.RegistryAll(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
// The client is consume-only: records are published (retained) by the
// registry store, never by this service. The only outbound messages are
// the system status announcements handled internally on connect and close.
package mqtt

// Package mqtt provides the MQTT record source for the InfluxDB sink.
//
// Producers publish JSON batches of metrics or log events to the configured
// topics; the sink subscribes, decodes each payload and writes it to
// InfluxDB as one request.
//
//	producers → MQTT broker → influxsink → InfluxDB
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Topic subscriptions with wildcard support, restored on reconnect
//   - A retained online/offline status with Last Will and Testament
//   - Connection health monitoring
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(cfg.MQTT.Topics.Metrics, byte(cfg.MQTT.QoS),
//	    func(topic string, payload []byte) error {
//	        metrics, err := event.DecodeMetrics(payload)
//	        if err != nil {
//	            return err
//	        }
//	        return s.WriteMetrics(ctx, metrics)
//	    })
//
// Tests tagged "integration" need a broker at 127.0.0.1:1883.
package mqtt

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-influxsink/internal/event"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/mqtt"
)

// recordWriter is the part of *sink.Sink the MQTT handlers need.
type recordWriter interface {
	WriteMetrics(ctx context.Context, metrics []event.Metric) error
	WriteLogs(ctx context.Context, logs []event.Log) error
}

// recordSource is the part of *mqtt.Client used to register handlers.
type recordSource interface {
	Subscribe(filter string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(filter string) error
}

// subscribeRecords wires the configured metric and log topics to w.
// An empty topic is not subscribed.
func subscribeRecords(ctx context.Context, sub recordSource, cfg config.MQTTConfig, w recordWriter) error {
	qos := byte(cfg.QoS) // #nosec G115 -- validated 0-2 by config

	if cfg.Topics.Metrics != "" {
		if err := sub.Subscribe(cfg.Topics.Metrics, qos, metricsHandler(ctx, w)); err != nil {
			return fmt.Errorf("subscribing to metrics: %w", err)
		}
	}
	if cfg.Topics.Logs != "" {
		if err := sub.Subscribe(cfg.Topics.Logs, qos, logsHandler(ctx, w)); err != nil {
			return fmt.Errorf("subscribing to logs: %w", err)
		}
	}
	return nil
}

// unsubscribeRecords removes the subscriptions made by subscribeRecords.
// Every topic is attempted; the errors are joined.
func unsubscribeRecords(sub recordSource, cfg config.MQTTTopicsConfig) error {
	var errs []error
	for _, topic := range []string{cfg.Metrics, cfg.Logs} {
		if topic == "" {
			continue
		}
		if err := sub.Unsubscribe(topic); err != nil {
			errs = append(errs, fmt.Errorf("unsubscribing from %s: %w", topic, err))
		}
	}
	return errors.Join(errs...)
}

// metricsHandler decodes one payload as one metric batch.
func metricsHandler(ctx context.Context, w recordWriter) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		metrics, err := event.DecodeMetrics(payload)
		if err != nil {
			return fmt.Errorf("decoding metrics from %s: %w", topic, err)
		}
		return w.WriteMetrics(ctx, metrics)
	}
}

// logsHandler decodes one payload as one log batch.
func logsHandler(ctx context.Context, w recordWriter) mqtt.MessageHandler {
	return func(topic string, payload []byte) error {
		logs, err := event.DecodeLogs(payload)
		if err != nil {
			return fmt.Errorf("decoding logs from %s: %w", topic, err)
		}
		return w.WriteLogs(ctx, logs)
	}
}

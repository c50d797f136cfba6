// influxsink writes metric and log records to InfluxDB.
//
// Records arrive as JSON batches on MQTT topics, are encoded to line
// protocol and sent to either the 1.x or the 2.x write API. Each MQTT
// payload becomes exactly one write request; batching, retry and
// backpressure are left to the producers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-influxsink/internal/sink"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	// defaultConfigPath is used when INFLUXSINK_CONFIG is not set.
	defaultConfigPath = "configs/config.yaml"

	// startupProbeTimeout bounds the health probe run at startup.
	startupProbeTimeout = 10 * time.Second

	// shutdownTimeout bounds the HTTP server shutdown.
	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Configuration errors (unreadable file, both or neither InfluxDB settings
// block, malformed endpoint) are returned before anything is started.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting influxsink",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath)

	writer, profile, err := influxdb.NewWriter(cfg.InfluxDB)
	if err != nil {
		return fmt.Errorf("configuring InfluxDB: %w", err)
	}
	log.Info("InfluxDB writer configured",
		"endpoint", cfg.InfluxDB.Endpoint,
		"api", apiGeneration(profile),
		"transport", cfg.InfluxDB.Transport,
		"compression", cfg.InfluxDB.Compression,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := sink.New(writer, sink.Options{
		Namespace: cfg.InfluxDB.Namespace,
		LogTags:   cfg.InfluxDB.LogTags,
	}, sink.NewMetrics(registry))
	s.SetLogger(log)
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			log.Error("error closing InfluxDB writer", "error", closeErr)
		}
	}()

	probe := s.Healthcheck()
	if cfg.InfluxDB.Healthcheck {
		startupHealthCheck(ctx, probe, log)
	}

	checks := []healthCheck{{name: "influxdb", check: probe}}

	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", mqttClient.ClientID(),
		)

		if err := subscribeRecords(ctx, mqttClient, cfg.MQTT, s); err != nil {
			return err
		}
		defer func() {
			if unsubErr := unsubscribeRecords(mqttClient, cfg.MQTT.Topics); unsubErr != nil {
				log.Warn("error unsubscribing from MQTT", "error", unsubErr)
			}
		}()
		checks = append(checks, healthCheck{name: "mqtt", check: mqttClient.HealthCheck})
	} else {
		log.Info("MQTT source disabled")
	}

	if cfg.Metrics.Enabled {
		srv, err := startHTTPServer(cfg.Metrics.Listen, newHTTPHandler(registry, checks), log)
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Error("error stopping metrics server", "error", shutdownErr)
			}
		}()
		log.Info("metrics server listening", "addr", srv.Addr)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("influxsink stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses INFLUXSINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("INFLUXSINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// startupHealthCheck probes InfluxDB once. A failure is logged and startup
// continues; /healthz keeps reporting the live state.
func startupHealthCheck(ctx context.Context, probe func(context.Context) error, log *logging.Logger) {
	ctx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()

	if err := probe(ctx); err != nil {
		log.Error("InfluxDB health check failed", "error", err)
		return
	}
	log.Info("InfluxDB health check passed")
}

func apiGeneration(p influxdb.Profile) string {
	switch p.(type) {
	case influxdb.LegacyProfile:
		return "v1"
	case influxdb.CurrentProfile:
		return "v2"
	default:
		return "unknown"
	}
}

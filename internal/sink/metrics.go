package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record kinds used as the "kind" label.
const (
	kindMetrics = "metrics"
	kindLogs    = "logs"
)

// Metrics holds the sink's Prometheus collectors.
type Metrics struct {
	RecordsEncoded  *prometheus.CounterVec
	RecordsSkipped  *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	RequestBytes    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	HealthChecks    *prometheus.CounterVec
	Healthy         prometheus.Gauge
}

// NewMetrics creates and registers the sink metrics.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		RecordsEncoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "influxsink_records_encoded_total",
				Help: "Records encoded into line protocol",
			},
			[]string{"kind"},
		),
		RecordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "influxsink_records_skipped_total",
				Help: "Records dropped because they produced no line",
			},
			[]string{"kind"},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "influxsink_write_requests_total",
				Help: "Write requests sent to InfluxDB",
			},
			[]string{"kind", "status"},
		),
		RequestBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "influxsink_write_bytes_total",
				Help: "Uncompressed line-protocol bytes sent to InfluxDB",
			},
			[]string{"kind"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "influxsink_write_duration_seconds",
				Help:    "Duration of write requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		HealthChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "influxsink_healthchecks_total",
				Help: "Health probes sent to InfluxDB",
			},
			[]string{"status"},
		),
		Healthy: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "influxsink_healthy",
				Help: "1 if the last health probe succeeded, 0 otherwise",
			},
		),
	}
}

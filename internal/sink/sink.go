package sink

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-influxsink/internal/event"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/lineprotocol"
)

// Logger defines the logging interface for the sink.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Sink.
type Options struct {
	// Namespace prefixes every measurement ("ns.name").
	Namespace string

	// LogTags lists the flattened log keys written as tags.
	LogTags []string

	// Clock supplies timestamps for records without one. nil means system clock.
	Clock lineprotocol.Clock
}

// Sink encodes records and writes each batch as one request.
//
// Thread Safety: safe for concurrent use once SetLogger has been called.
type Sink struct {
	writer  influxdb.Writer
	opts    Options
	metrics *Metrics
	logger  Logger
}

// New creates a Sink writing through w.
//
// Parameters:
//   - w: Writer for the resolved InfluxDB profile
//   - opts: Namespace, log tag keys and clock
//   - metrics: Prometheus collectors (see NewMetrics)
func New(w influxdb.Writer, opts Options, metrics *Metrics) *Sink {
	if opts.Clock == nil {
		opts.Clock = lineprotocol.SystemClock
	}
	return &Sink{
		writer:  w,
		opts:    opts,
		metrics: metrics,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the sink. Call before first use.
func (s *Sink) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

// WriteMetrics encodes metrics and sends them in one request.
// A batch that encodes to nothing sends no request.
func (s *Sink) WriteMetrics(ctx context.Context, metrics []event.Metric) error {
	body, encoded, skipped := encodeMetrics(s.opts.Namespace, metrics, s.opts.Clock)
	return s.write(ctx, kindMetrics, body, encoded, skipped)
}

// WriteLogs encodes log events and sends them in one request.
// A batch that encodes to nothing sends no request.
func (s *Sink) WriteLogs(ctx context.Context, logs []event.Log) error {
	body, encoded, skipped := encodeLogs(s.opts.Namespace, s.opts.LogTags, logs, s.opts.Clock)
	return s.write(ctx, kindLogs, body, encoded, skipped)
}

func (s *Sink) write(ctx context.Context, kind string, body []byte, encoded, skipped int) error {
	s.metrics.RecordsEncoded.WithLabelValues(kind).Add(float64(encoded))
	if skipped > 0 {
		s.metrics.RecordsSkipped.WithLabelValues(kind).Add(float64(skipped))
		s.logger.Debug("records skipped", "kind", kind, "count", skipped)
	}
	if len(body) == 0 {
		return nil
	}

	start := time.Now()
	err := s.writer.Write(ctx, body)
	s.metrics.RequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.Requests.WithLabelValues(kind, "error").Inc()
		s.logger.Error("influxdb write failed", "kind", kind, "records", encoded, "error", err)
		return err
	}

	s.metrics.Requests.WithLabelValues(kind, "success").Inc()
	s.metrics.RequestBytes.WithLabelValues(kind).Add(float64(len(body)))
	return nil
}

// Healthcheck returns a reusable probe of the InfluxDB health endpoint.
func (s *Sink) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := s.writer.HealthCheck(ctx); err != nil {
			s.metrics.HealthChecks.WithLabelValues("error").Inc()
			s.metrics.Healthy.Set(0)
			s.logger.Warn("influxdb health check failed", "error", err)
			return err
		}
		s.metrics.HealthChecks.WithLabelValues("success").Inc()
		s.metrics.Healthy.Set(1)
		return nil
	}
}

// Close closes the underlying writer.
func (s *Sink) Close() error {
	return s.writer.Close()
}

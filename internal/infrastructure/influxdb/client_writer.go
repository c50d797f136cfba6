package influxdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	influxhttp "github.com/influxdata/influxdb-client-go/v2/api/http"
	"github.com/influxdata/influxdb-client-go/v2/domain"
)

// ClientWriter writes through the official influxdb-client-go v2 library.
// It only serves the 2.x API.
//
// Writes are blocking: one Write call is one HTTP request, the library's
// own batching and retry queue are not used.
type ClientWriter struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewClientWriter creates a writer for the 2.x API.
//
// Parameters:
//   - profile: 2.x profile supplying org, bucket and token
//   - endpoint: Base URL of the server
//   - gzip: Compress request bodies
//   - timeout: Per-request timeout; zero keeps the library default
//
// Returns:
//   - *ClientWriter: Writer ready for use
//   - error: ErrInvalidEndpoint if the endpoint is malformed
func NewClientWriter(profile CurrentProfile, endpoint string, gzip bool, timeout time.Duration) (*ClientWriter, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	opts := influxdb2.DefaultOptions().
		SetPrecision(time.Nanosecond).
		SetUseGZip(gzip)
	if timeout > 0 {
		// #nosec G115 -- timeout validated positive
		opts.SetHTTPRequestTimeout(uint(timeout / time.Second))
	}

	s := profile.Settings
	client := influxdb2.NewClientWithOptions(strings.TrimRight(endpoint, "/"), s.Token, opts)

	return &ClientWriter{
		client:   client,
		writeAPI: client.WriteAPIBlocking(s.Org, s.Bucket),
	}, nil
}

// Write sends the lines of body as one request.
func (w *ClientWriter) Write(ctx context.Context, body []byte) error {
	lines := splitLines(body)
	if len(lines) == 0 {
		return nil
	}

	if err := w.writeAPI.WriteRecord(ctx, lines...); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, fromClientError("write", err))
	}
	return nil
}

// HealthCheck queries /health and requires status "pass".
func (w *ClientWriter) HealthCheck(ctx context.Context) error {
	health, err := w.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHealthCheckFailed, fromClientError("health check", err))
	}
	if health.Status != domain.HealthCheckStatusPass {
		return fmt.Errorf("%w: server reports status %q", ErrHealthCheckFailed, health.Status)
	}
	return nil
}

// Close releases the library's idle connections.
func (w *ClientWriter) Close() error {
	w.client.Close()
	return nil
}

// fromClientError turns the library's HTTP error into a *StatusError so
// callers see one error shape regardless of transport.
func fromClientError(op string, err error) error {
	var httpErr *influxhttp.Error
	if errors.As(err, &httpErr) && httpErr.StatusCode != 0 {
		return &StatusError{Op: op, StatusCode: httpErr.StatusCode, Body: httpErr.Message}
	}
	return err
}

// splitLines breaks a body into its lines, dropping empty ones.
func splitLines(body []byte) []string {
	raw := strings.Split(string(body), "\n")
	lines := raw[:0]
	for _, l := range raw {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

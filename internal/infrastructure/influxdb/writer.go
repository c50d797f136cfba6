package influxdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Writer sends encoded line-protocol bodies to InfluxDB.
//
// Thread Safety: implementations are safe for concurrent use.
type Writer interface {
	// Write sends one request body. An empty body sends nothing.
	Write(ctx context.Context, body []byte) error

	// HealthCheck probes the server's health endpoint.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the writer.
	Close() error
}

// HTTPWriter posts line protocol to the write URI of a Profile.
// It works for both API generations.
type HTTPWriter struct {
	profile  Profile
	endpoint string
	writeURL string
	client   HTTPDoer
	gzip     bool
}

// NewHTTPWriter builds both request URIs up front, so a bad endpoint is
// reported here rather than on the first write.
//
// Parameters:
//   - profile: Resolved API profile
//   - endpoint: Base URL of the server
//   - gzip: Compress request bodies (Content-Encoding: gzip)
//   - client: HTTP client; nil means http.DefaultClient
//
// Returns:
//   - *HTTPWriter: Writer ready for use
//   - error: ErrInvalidEndpoint if the URIs cannot be built
func NewHTTPWriter(profile Profile, endpoint string, gzip bool, client HTTPDoer) (*HTTPWriter, error) {
	writeURI, err := profile.WriteURI(endpoint)
	if err != nil {
		return nil, err
	}
	if _, err := profile.HealthURI(endpoint); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPWriter{
		profile:  profile,
		endpoint: endpoint,
		writeURL: writeURI.String(),
		client:   client,
		gzip:     gzip,
	}, nil
}

// Write posts body to the write endpoint.
//
// Any 2xx status is success. Other statuses return a *StatusError with the
// start of the response body; transport failures wrap ErrWriteFailed.
func (w *HTTPWriter) Write(ctx context.Context, body []byte) error {
	if len(body) == 0 {
		return nil
	}

	payload := body
	if w.gzip {
		compressed, err := gzipBody(body)
		if err != nil {
			return fmt.Errorf("%w: compressing body: %w", ErrWriteFailed, err)
		}
		payload = compressed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.writeURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if w.gzip {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if token := w.profile.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Op:         "write",
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		}
	}

	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// HealthCheck implements Writer using CheckHealth.
func (w *HTTPWriter) HealthCheck(ctx context.Context) error {
	return CheckHealth(ctx, w.profile, w.endpoint, w.client)
}

// Close implements Writer. The HTTP client is owned by the caller.
func (w *HTTPWriter) Close() error {
	return nil
}

// Profile returns the profile the writer was built with.
func (w *HTTPWriter) Profile() Profile {
	return w.profile
}

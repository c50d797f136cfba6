package influxdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 1024

// HTTPDoer is the part of *http.Client used by this package.
// Timeouts, TLS and connection pooling are the client's business.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CheckHealth probes the health endpoint of p (1.x: /ping, 2.x: /health).
//
// It issues a GET with an empty body. 200 and 204 count as healthy; any
// other status is a *StatusError. Transport failures wrap
// ErrHealthCheckFailed. There is no timeout beyond ctx and client.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - p: Resolved API profile
//   - endpoint: Base URL of the server (e.g., "http://localhost:8086")
//   - client: HTTP client performing the request
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func CheckHealth(ctx context.Context, p Profile, endpoint string, client HTTPDoer) error {
	u, err := p.HealthURI(endpoint)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHealthCheckFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHealthCheckFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		// Drain body to allow connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	default:
		return &StatusError{
			Op:         "health check",
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		}
	}
}

// readErrorBody returns the first maxErrorBody bytes of body and drains the rest.
func readErrorBody(body io.Reader) string {
	snippet, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	_, _ = io.Copy(io.Discard, body)
	return string(snippet)
}

package influxdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for InfluxDB operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, influxdb.ErrUnexpectedStatus) {
//	    // Server answered, but not with success
//	}
var (
	// ErrMissingConfiguration indicates neither v1 nor v2 settings were given.
	ErrMissingConfiguration = errors.New("influxdb: v1 or v2 settings must be configured")

	// ErrBothConfigured indicates both v1 and v2 settings were given.
	ErrBothConfigured = errors.New("influxdb: both v1 and v2 settings configured")

	// ErrInvalidEndpoint indicates the endpoint cannot be turned into a request URI.
	ErrInvalidEndpoint = errors.New("influxdb: invalid endpoint")

	// ErrUnexpectedStatus indicates the server answered with a non-success status.
	ErrUnexpectedStatus = errors.New("influxdb: unexpected status")

	// ErrHealthCheckFailed indicates the health request could not be completed.
	ErrHealthCheckFailed = errors.New("influxdb: health check failed")

	// ErrWriteFailed indicates a write request could not be completed.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrTransportUnsupported indicates the configured transport cannot serve
	// the resolved API generation.
	ErrTransportUnsupported = errors.New("influxdb: transport not supported for this API version")
)

// BothConfiguredError carries both settings blocks for diagnostics.
// Secrets are redacted in its message.
type BothConfiguredError struct {
	Legacy  LegacySettings
	Current CurrentSettings
}

func (e *BothConfiguredError) Error() string {
	return fmt.Sprintf("%s: v1: %s, v2: %s", ErrBothConfigured, e.Legacy, e.Current)
}

// Unwrap makes errors.Is(err, ErrBothConfigured) true.
func (e *BothConfiguredError) Unwrap() error {
	return ErrBothConfigured
}

// StatusError reports a response with an unexpected HTTP status.
type StatusError struct {
	// Op is the request kind: "write" or "health check".
	Op string

	// StatusCode is the HTTP status returned by the server.
	StatusCode int

	// Body holds the start of the response body, if any.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("influxdb: %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("influxdb: %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrUnexpectedStatus) true.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

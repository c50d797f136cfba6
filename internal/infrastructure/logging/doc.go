// Package logging provides structured logging for the InfluxDB sink.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the process.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Security
//
// Never log tokens or passwords. Write URIs for the 1.x API carry the
// password in the query string; log the endpoint, not the built URI.
package logging

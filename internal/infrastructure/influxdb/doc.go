// Package influxdb builds and sends write and health requests for both
// InfluxDB API generations.
//
// # API generations
//
// The 1.x API identifies data by database (plus optional retention policy,
// consistency and basic credentials in the query string). The 2.x API uses
// org, bucket and a token sent in the Authorization header. Resolve turns
// the two mutually exclusive settings blocks into a Profile so that callers
// never branch on the version:
//
//	profile, err := influxdb.Resolve(legacy, current)
//	writeURI, err := profile.WriteURI("http://localhost:8086")
//	// 1.x: http://localhost:8086/write?db=metrics&precision=ns
//	// 2.x: http://localhost:8086/api/v2/write?org=o&bucket=b&precision=ns
//
// # Usage
//
//	w, profile, err := influxdb.NewWriter(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err) // configuration errors are fatal
//	}
//	defer w.Close()
//
//	if err := w.HealthCheck(ctx); err != nil {
//	    log.Warn("influxdb not healthy", "error", err)
//	}
//	err = w.Write(ctx, body) // body from lineprotocol.AppendLine
//
// # Transports
//
//   - HTTPWriter: builds requests itself, both API generations.
//   - ClientWriter: uses influxdb-client-go v2, 2.x only.
//
// # Error Handling
//
// Configuration errors (ErrMissingConfiguration, *BothConfiguredError,
// ErrInvalidEndpoint, ErrTransportUnsupported) should abort startup.
// Request errors (*StatusError, ErrWriteFailed, ErrHealthCheckFailed) are
// returned to the caller for its retry decisions; nothing is retried here.
//
// # Thread Safety
//
// Profiles are immutable values. Writers are safe for concurrent use.
package influxdb

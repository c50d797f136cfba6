// Package event defines the metric and log records handed to the InfluxDB sink.
//
// Records arrive as JSON (one MQTT payload is one batch) and are decoded with
// DecodeMetrics and DecodeLogs. A payload may hold a single object or an array
// of objects.
//
// Metric JSON carries exactly one value key:
//
//	{"name": "requests", "namespace": "app", "tags": {"host": "a"},
//	 "timestamp": "2018-11-14T08:09:10.000000011Z",
//	 "counter": {"value": 1}}
//
// Value keys are counter, gauge, set, distribution, aggregated_histogram and
// aggregated_summary.
//
// Log JSON is a free-form object. Numbers are kept as json.Number so that
// integers stay integers on the wire.
package event

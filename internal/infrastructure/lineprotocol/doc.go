// Package lineprotocol encodes records into InfluxDB line protocol.
//
// The output is accepted by the write endpoints of both InfluxDB 1.x
// (/write) and 2.x (/api/v2/write):
//
//	measurement,metric_type=gauge,host=a value=1.5 1542182950000000011
//
// # Escaping
//
// Two rules apply and are kept apart:
//   - EscapeKey, for measurement names, tag keys, tag values and field
//     keys: backslash, comma, space and equals sign get a backslash.
//   - QuoteString, for string field values: the value is double quoted and
//     only backslash and double quote get a backslash.
//
// # Determinism
//
// Tags and fields are written sorted by key, so a record always encodes to
// the same bytes. The only impure input is the clock used by
// EncodeTimestamp when a record has no timestamp; pass FixedClock in tests.
//
// # Thread Safety
//
// Every function is a pure function of its arguments and safe for
// concurrent use.
package lineprotocol

package event

import "time"

// TimestampKey is the log key holding the event time.
const TimestampKey = "timestamp"

// Log is a free-form structured log event. Values may be nested maps
// and slices as produced by encoding/json.
type Log map[string]any

// Timestamp returns the event time stored under TimestampKey.
//
// A time.Time, *time.Time or RFC 3339 string is accepted. ok is false
// when the key is absent or holds anything else.
func (l Log) Timestamp() (t time.Time, ok bool) {
	switch v := l[TimestampKey].(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

package sink

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nerrad567/gray-logic-influxsink/internal/event"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/lineprotocol"
)

// logMeasurement is the measurement name for log lines (before the namespace).
const logMeasurement = "vector"

// logMetricType is the metric_type tag value for log lines.
const logMetricType = "logs"

// EncodeLogs renders log events as line protocol, one line per event.
//
// Nested maps are flattened with "." and arrays with "[i]". Flattened keys
// listed in tagKeys become tags; everything else becomes a field. A
// timestamp under event.TimestampKey is used as the line's timestamp and
// removed from the fields. Events without any field are skipped.
func EncodeLogs(namespace string, tagKeys []string, logs []event.Log, clock lineprotocol.Clock) []byte {
	body, _, _ := encodeLogs(namespace, tagKeys, logs, clock)
	return body
}

func encodeLogs(namespace string, tagKeys []string, logs []event.Log, clock lineprotocol.Clock) (body []byte, encoded, skipped int) {
	measurement := lineprotocol.EncodeNamespace(namespace, logMeasurement)

	isTag := make(map[string]bool, len(tagKeys))
	for _, k := range tagKeys {
		isTag[k] = true
	}

	for _, l := range logs {
		var ts *time.Time
		if t, ok := l.Timestamp(); ok {
			ts = &t
		}

		flat := make(map[string]any, len(l))
		for k, v := range l {
			if k == event.TimestampKey && ts != nil {
				continue
			}
			flatten(flat, k, v)
		}

		tags := lineprotocol.Tags{}
		fields := make(lineprotocol.Fields, len(flat))
		for k, v := range flat {
			if isTag[k] {
				tags[k] = tagValue(v)
				continue
			}
			fields[k] = logField(v)
		}

		var wrote bool
		body, wrote = lineprotocol.AppendLine(body, measurement, logMetricType, tags, fields,
			lineprotocol.EncodeTimestamp(ts, clock))
		if wrote {
			encoded++
		} else {
			skipped++
		}
	}
	return body, encoded, skipped
}

// flatten stores the leaves of v in dst under dotted/indexed keys.
// nil leaves are dropped.
func flatten(dst map[string]any, key string, v any) {
	switch v := v.(type) {
	case nil:
	case map[string]any:
		for k, inner := range v {
			flatten(dst, key+"."+k, inner)
		}
	case event.Log:
		flatten(dst, key, map[string]any(v))
	case []any:
		for i, inner := range v {
			flatten(dst, key+"["+strconv.Itoa(i)+"]", inner)
		}
	default:
		dst[key] = v
	}
}

// logField converts a flattened leaf to a field.
func logField(v any) lineprotocol.Field {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return lineprotocol.IntField(i)
		}
		if f, err := v.Float64(); err == nil {
			return lineprotocol.FloatField(f)
		}
		return lineprotocol.StringField(v.String())
	case time.Time:
		return lineprotocol.StringField(v.UTC().Format(time.RFC3339Nano))
	default:
		return lineprotocol.FieldOf(v)
	}
}

// tagValue renders a flattened leaf as a tag value.
func tagValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

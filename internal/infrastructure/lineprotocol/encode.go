package lineprotocol

import (
	"slices"
	"strconv"
	"strings"
)

// MetricTypeTag is the synthetic tag added to every line to record the
// kind of record it came from (counter, gauge, distribution, logs, ...).
const MetricTypeTag = "metric_type"

// Tags maps tag keys to tag values.
type Tags map[string]string

// Fields maps field keys to typed values.
type Fields map[string]Field

// EncodeLine formats one record as a newline-terminated line:
//
//	measurement[,tag=value...] field=value[,field=value...] timestamp\n
//
// metricType is stored under MetricTypeTag, replacing any caller tag of
// that name; tags itself is not modified. Tags are written sorted by key
// and pairs with an empty key or value are skipped. Fields are written
// sorted by key; fields with an empty key are skipped.
//
// A line without fields is invalid, so EncodeLine returns ("", false)
// when no field can be written. Callers skip the record in that case.
func EncodeLine(measurement, metricType string, tags Tags, fields Fields, timestamp int64) (string, bool) {
	buf, ok := AppendLine(nil, measurement, metricType, tags, fields, timestamp)
	if !ok {
		return "", false
	}
	return string(buf), true
}

// AppendLine is EncodeLine writing into dst. On false, dst is returned
// unchanged.
func AppendLine(dst []byte, measurement, metricType string, tags Tags, fields Fields, timestamp int64) ([]byte, bool) {
	fieldKeys := make([]string, 0, len(fields))
	for k, f := range fields {
		if k != "" && f.encodable() {
			fieldKeys = append(fieldKeys, k)
		}
	}
	if len(fieldKeys) == 0 {
		return dst, false
	}
	slices.Sort(fieldKeys)

	dst = appendEscaped(dst, measurement)
	dst = appendTags(dst, tags, metricType)

	dst = append(dst, ' ')
	for i, k := range fieldKeys {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendEscaped(dst, k)
		dst = append(dst, '=')
		dst = fields[k].appendValue(dst)
	}

	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, timestamp, 10)
	dst = append(dst, '\n')
	return dst, true
}

// appendTags writes ",k=v,..." for every non-empty pair, metric type
// included. Nothing is written when no pair survives.
func appendTags(dst []byte, tags Tags, metricType string) []byte {
	keys := make([]string, 0, len(tags)+1)
	for k := range tags {
		if k != MetricTypeTag {
			keys = append(keys, k)
		}
	}
	keys = append(keys, MetricTypeTag)
	slices.Sort(keys)

	for _, k := range keys {
		v := metricType
		if k != MetricTypeTag {
			v = tags[k]
		}
		if k == "" || v == "" {
			continue
		}
		dst = append(dst, ',')
		dst = appendEscaped(dst, k)
		dst = append(dst, '=')
		dst = appendEscaped(dst, v)
	}
	return dst
}

// EscapeKey escapes a measurement name, tag key, tag value or field key.
// Backslash, comma, space and equals sign are prefixed with a backslash.
func EscapeKey(s string) string {
	if !strings.ContainsAny(s, keySpecials) {
		return s
	}
	return string(appendEscaped(make([]byte, 0, len(s)+4), s))
}

// QuoteString renders a string field value: wrapped in double quotes,
// with backslash and double quote prefixed by a backslash.
func QuoteString(s string) string {
	return string(appendQuoted(make([]byte, 0, len(s)+2), s))
}

const keySpecials = "\\, ="

func appendEscaped(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', ',', ' ', '=':
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return dst
}

func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' {
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return append(dst, '"')
}

// EncodeNamespace joins a namespace and a metric name with a dot.
// An empty namespace leaves the name unchanged.
func EncodeNamespace(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

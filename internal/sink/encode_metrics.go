package sink

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/nerrad567/gray-logic-influxsink/internal/event"
	"github.com/nerrad567/gray-logic-influxsink/internal/infrastructure/lineprotocol"
)

// EncodeMetrics renders metrics as line protocol, one line per metric.
//
// The measurement is namespace.name; when namespace is empty the metric's
// own namespace is used. Metrics whose value cannot produce any field are
// skipped. A nil clock means the system clock.
func EncodeMetrics(namespace string, metrics []event.Metric, clock lineprotocol.Clock) []byte {
	body, _, _ := encodeMetrics(namespace, metrics, clock)
	return body
}

func encodeMetrics(namespace string, metrics []event.Metric, clock lineprotocol.Clock) (body []byte, encoded, skipped int) {
	for _, m := range metrics {
		fields, ok := metricFields(m.Value)
		if !ok {
			skipped++
			continue
		}

		ns := namespace
		if ns == "" {
			ns = m.Namespace
		}

		var wrote bool
		body, wrote = lineprotocol.AppendLine(body,
			lineprotocol.EncodeNamespace(ns, m.Name),
			string(m.Value.Kind()),
			m.Tags,
			fields,
			lineprotocol.EncodeTimestamp(m.Timestamp, clock),
		)
		if wrote {
			encoded++
		} else {
			skipped++
		}
	}
	return body, encoded, skipped
}

// metricFields maps a metric value onto float fields.
func metricFields(v event.MetricValue) (lineprotocol.Fields, bool) {
	switch v := v.(type) {
	case event.Counter:
		return lineprotocol.Fields{"value": lineprotocol.FloatField(v.Value)}, true

	case event.Gauge:
		return lineprotocol.Fields{"value": lineprotocol.FloatField(v.Value)}, true

	case event.Set:
		return lineprotocol.Fields{"value": lineprotocol.FloatField(float64(len(v.Values)))}, true

	case event.AggregatedHistogram:
		if len(v.Buckets) != len(v.Counts) {
			return nil, false
		}
		fields := make(lineprotocol.Fields, len(v.Buckets)+2)
		for i, b := range v.Buckets {
			fields["bucket_"+formatBound(b)] = lineprotocol.FloatField(float64(v.Counts[i]))
		}
		fields["count"] = lineprotocol.FloatField(float64(v.Count))
		fields["sum"] = lineprotocol.FloatField(v.Sum)
		return fields, true

	case event.AggregatedSummary:
		if len(v.Quantiles) != len(v.Values) {
			return nil, false
		}
		fields := make(lineprotocol.Fields, len(v.Quantiles)+2)
		for i, q := range v.Quantiles {
			fields["quantile_"+formatBound(q)] = lineprotocol.FloatField(v.Values[i])
		}
		fields["count"] = lineprotocol.FloatField(float64(v.Count))
		fields["sum"] = lineprotocol.FloatField(v.Sum)
		return fields, true

	case event.Distribution:
		stats, ok := distributionStats(v.Values, v.SampleRates)
		if !ok {
			return nil, false
		}
		return stats, true

	default:
		return nil, false
	}
}

// weightedSample is one distribution value together with its sample rate.
type weightedSample struct {
	value float64
	rate  uint64
}

// distributionStats summarises values as if each were repeated by its
// sample rate. Samples are never expanded; ranks are located by walking
// the cumulative rate.
func distributionStats(values []float64, rates []uint32) (lineprotocol.Fields, bool) {
	if len(values) != len(rates) {
		return nil, false
	}

	samples := make([]weightedSample, 0, len(values))
	var n uint64
	var sum float64
	for i, v := range values {
		if rates[i] == 0 {
			continue
		}
		r := uint64(rates[i])
		samples = append(samples, weightedSample{value: v, rate: r})
		n += r
		sum += v * float64(r)
	}
	if n == 0 {
		return nil, false
	}
	slices.SortStableFunc(samples, func(a, b weightedSample) int {
		return cmp.Compare(a.value, b.value)
	})

	return lineprotocol.Fields{
		"min":           lineprotocol.FloatField(samples[0].value),
		"max":           lineprotocol.FloatField(samples[len(samples)-1].value),
		"median":        lineprotocol.FloatField(sampleAt(samples, rankIndex(0.5, n))),
		"avg":           lineprotocol.FloatField(sum / float64(n)),
		"sum":           lineprotocol.FloatField(sum),
		"count":         lineprotocol.FloatField(float64(n)),
		"quantile_0.95": lineprotocol.FloatField(sampleAt(samples, rankIndex(0.95, n))),
	}, true
}

// sampleAt returns the value at rank idx of the expanded, sorted samples.
func sampleAt(samples []weightedSample, idx uint64) float64 {
	var seen uint64
	for _, s := range samples {
		seen += s.rate
		if idx < seen {
			return s.value
		}
	}
	return samples[len(samples)-1].value
}

// rankIndex returns round(q*n - 1) clamped to [0, n-1]. n must be positive.
func rankIndex(q float64, n uint64) uint64 {
	r := math.Round(q*float64(n) - 1)
	if r <= 0 {
		return 0
	}
	if r >= float64(n-1) {
		return n - 1
	}
	return uint64(r)
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

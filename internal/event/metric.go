package event

import "time"

// MetricKind identifies the shape of a metric value.
type MetricKind string

// Metric kinds. The string is also the metric_type tag written to InfluxDB.
const (
	KindCounter      MetricKind = "counter"
	KindGauge        MetricKind = "gauge"
	KindSet          MetricKind = "set"
	KindDistribution MetricKind = "distribution"
	KindHistogram    MetricKind = "histogram"
	KindSummary      MetricKind = "summary"
)

// Metric is a single named measurement.
type Metric struct {
	Name      string
	Namespace string

	// Timestamp is optional; nil means "now" at encode time.
	Timestamp *time.Time

	Tags  map[string]string
	Value MetricValue
}

// MetricValue is one of Counter, Gauge, Set, Distribution,
// AggregatedHistogram or AggregatedSummary.
type MetricValue interface {
	Kind() MetricKind
	metricValue()
}

// Counter is a monotonically increasing value.
type Counter struct {
	Value float64 `json:"value"`
}

// Gauge is a point-in-time value.
type Gauge struct {
	Value float64 `json:"value"`
}

// Set holds the unique values seen in an interval.
type Set struct {
	Values []string `json:"values"`
}

// Distribution holds raw samples. SampleRates[i] says how many times
// Values[i] was observed.
type Distribution struct {
	Values      []float64 `json:"values"`
	SampleRates []uint32  `json:"sample_rates"`
}

// AggregatedHistogram holds pre-bucketed counts. Buckets are upper bounds.
type AggregatedHistogram struct {
	Buckets []float64 `json:"buckets"`
	Counts  []uint32  `json:"counts"`
	Count   uint32    `json:"count"`
	Sum     float64   `json:"sum"`
}

// AggregatedSummary holds pre-computed quantiles.
type AggregatedSummary struct {
	Quantiles []float64 `json:"quantiles"`
	Values    []float64 `json:"values"`
	Count     uint32    `json:"count"`
	Sum       float64   `json:"sum"`
}

// Kind implements MetricValue.
func (Counter) Kind() MetricKind { return KindCounter }

// Kind implements MetricValue.
func (Gauge) Kind() MetricKind { return KindGauge }

// Kind implements MetricValue.
func (Set) Kind() MetricKind { return KindSet }

// Kind implements MetricValue.
func (Distribution) Kind() MetricKind { return KindDistribution }

// Kind implements MetricValue.
func (AggregatedHistogram) Kind() MetricKind { return KindHistogram }

// Kind implements MetricValue.
func (AggregatedSummary) Kind() MetricKind { return KindSummary }

func (Counter) metricValue()             {}
func (Gauge) metricValue()               {}
func (Set) metricValue()                 {}
func (Distribution) metricValue()        {}
func (AggregatedHistogram) metricValue() {}
func (AggregatedSummary) metricValue()   {}

package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// metricJSON is the wire shape of a Metric.
type metricJSON struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`

	Counter             *Counter             `json:"counter,omitempty"`
	Gauge               *Gauge               `json:"gauge,omitempty"`
	Set                 *Set                 `json:"set,omitempty"`
	Distribution        *Distribution        `json:"distribution,omitempty"`
	AggregatedHistogram *AggregatedHistogram `json:"aggregated_histogram,omitempty"`
	AggregatedSummary   *AggregatedSummary   `json:"aggregated_summary,omitempty"`
}

// MarshalJSON marshals a Metric to JSON.
func (m Metric) MarshalJSON() ([]byte, error) {
	aux := metricJSON{
		Name:      m.Name,
		Namespace: m.Namespace,
		Tags:      m.Tags,
	}
	if m.Timestamp != nil {
		aux.Timestamp = m.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	switch v := m.Value.(type) {
	case Counter:
		aux.Counter = &v
	case Gauge:
		aux.Gauge = &v
	case Set:
		aux.Set = &v
	case Distribution:
		aux.Distribution = &v
	case AggregatedHistogram:
		aux.AggregatedHistogram = &v
	case AggregatedSummary:
		aux.AggregatedSummary = &v
	default:
		return nil, fmt.Errorf("%w: %q has no value", ErrInvalidMetric, m.Name)
	}

	return json.Marshal(aux)
}

// UnmarshalJSON unmarshals a Metric from JSON.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var aux metricJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("unmarshal metric: %w", err)
	}
	if aux.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidMetric)
	}

	var values []MetricValue
	if aux.Counter != nil {
		values = append(values, *aux.Counter)
	}
	if aux.Gauge != nil {
		values = append(values, *aux.Gauge)
	}
	if aux.Set != nil {
		values = append(values, *aux.Set)
	}
	if aux.Distribution != nil {
		values = append(values, *aux.Distribution)
	}
	if aux.AggregatedHistogram != nil {
		values = append(values, *aux.AggregatedHistogram)
	}
	if aux.AggregatedSummary != nil {
		values = append(values, *aux.AggregatedSummary)
	}
	if len(values) != 1 {
		return fmt.Errorf("%w: %q has %d values, want 1", ErrInvalidMetric, aux.Name, len(values))
	}

	*m = Metric{
		Name:      aux.Name,
		Namespace: aux.Namespace,
		Tags:      aux.Tags,
		Value:     values[0],
	}
	if aux.Timestamp != "" {
		t, err := time.Parse(time.RFC3339Nano, aux.Timestamp)
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		m.Timestamp = &t
	}
	return nil
}

// DecodeMetrics decodes a payload holding one metric object or an array of them.
func DecodeMetrics(payload []byte) ([]Metric, error) {
	data, isArray, err := payloadShape(payload)
	if err != nil {
		return nil, err
	}

	if !isArray {
		var m Metric
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return []Metric{m}, nil
	}

	var metrics []Metric
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// DecodeLogs decodes a payload holding one log object or an array of them.
// Numbers are decoded as json.Number.
func DecodeLogs(payload []byte) ([]Log, error) {
	data, isArray, err := payloadShape(payload)
	if err != nil {
		return nil, err
	}

	if !isArray {
		var l Log
		if err := decodeNumbers(data, &l); err != nil {
			return nil, fmt.Errorf("unmarshal log: %w", err)
		}
		return []Log{l}, nil
	}

	var logs []Log
	if err := decodeNumbers(data, &logs); err != nil {
		return nil, fmt.Errorf("unmarshal logs: %w", err)
	}
	return logs, nil
}

// decodeNumbers decodes exactly one JSON value from data into v, keeping
// numbers as json.Number. Anything after that value is an error.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON value", ErrInvalidPayload)
	}
	return nil
}

// payloadShape trims payload and reports whether it is a JSON array.
func payloadShape(payload []byte) ([]byte, bool, error) {
	data := bytes.TrimSpace(payload)
	if len(data) == 0 {
		return nil, false, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	switch data[0] {
	case '[':
		return data, true, nil
	case '{':
		return data, false, nil
	default:
		return nil, false, fmt.Errorf("%w: expected object or array", ErrInvalidPayload)
	}
}

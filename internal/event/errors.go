package event

import "errors"

// Domain errors for the event package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, event.ErrInvalidMetric) {
//	    // drop the payload
//	}
var (
	// ErrInvalidMetric is returned when a metric has no name or not exactly one value.
	ErrInvalidMetric = errors.New("event: invalid metric")

	// ErrInvalidPayload is returned when a payload is neither a JSON object nor an array.
	ErrInvalidPayload = errors.New("event: invalid payload")
)

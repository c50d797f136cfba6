package lineprotocol

import "time"

// Clock supplies the current time for records without a timestamp.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// EncodeTimestamp returns t as nanoseconds since the Unix epoch. A nil t
// is replaced by clock.Now(); a nil clock means SystemClock.
func EncodeTimestamp(t *time.Time, clock Clock) int64 {
	if t != nil {
		return t.UnixNano()
	}
	if clock == nil {
		clock = SystemClock
	}
	return clock.Now().UnixNano()
}

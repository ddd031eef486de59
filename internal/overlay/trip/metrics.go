package trip

import (
	"fmt"
	"math"
)

// InvalidMetricsError reports malformed raw telemetry. The update carrying it
// is rejected and the previously displayed snapshot is retained.
type InvalidMetricsError struct {
	Field string
	Value float64
}

func (e *InvalidMetricsError) Error() string {
	return fmt.Sprintf("invalid trip metrics: %s = %v", e.Field, e.Value)
}

// Metrics is an immutable snapshot of trip progress. A new snapshot is created
// for every telemetry update; prior snapshots are discarded.
type Metrics struct {
	traveled float64
	today    float64
}

// New validates raw telemetry and returns a normalized snapshot.
// Negative or non-finite input yields an *InvalidMetricsError.
func New(traveled, today float64) (Metrics, error) {
	if err := checkField("traveled", traveled); err != nil {
		return Metrics{}, err
	}
	if err := checkField("today", today); err != nil {
		return Metrics{}, err
	}

	return Metrics{traveled: traveled, today: today}, nil
}

func checkField(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &InvalidMetricsError{Field: name, Value: v}
	}
	return nil
}

// Traveled returns the distance covered so far.
func (m Metrics) Traveled() float64 {
	return m.traveled
}

// Today returns the target distance for the current session.
func (m Metrics) Today() float64 {
	return m.today
}

// Remaining returns max(today - traveled, 0).
func (m Metrics) Remaining() float64 {
	return math.Max(m.today-m.traveled, 0)
}

// PercentComplete returns the completion ratio as a percentage in [0, 100].
// A zero target is defined as 0% complete.
func (m Metrics) PercentComplete() float64 {
	if m.today == 0 {
		return 0
	}
	return math.Min(math.Max(m.traveled/m.today*100, 0), 100)
}

// Package source provides the trip data source collaborators the update loop
// polls: an HTTP endpoint and an MQTT push feed.
package source

import (
	"context"
	"errors"
)

// Raw is the unvalidated telemetry payload published by the data source.
// Validation and derivation happen in trip.New.
type Raw struct {
	Traveled float64 `json:"traveled"`
	Today    float64 `json:"today"`
}

// Source is the data source collaborator.
type Source interface {
	// GetCurrentTripMetrics returns the latest raw telemetry. Implementations
	// must honor ctx cancellation and return promptly on deadline expiry.
	GetCurrentTripMetrics(ctx context.Context) (Raw, error)
}

var (
	// ErrFetchTimeout indicates the fetch exceeded its deadline.
	// Recovered by retrying on the next interval; the stale display is kept.
	ErrFetchTimeout = errors.New("trip data fetch timed out")

	// ErrUnavailable indicates the data source cannot be reached or has not
	// produced data yet. Same recovery as ErrFetchTimeout.
	ErrUnavailable = errors.New("trip data source unavailable")
)

package topic

import (
	"fmt"
)

// Constants defining the standard topic segments.
// These act as the protocol contract between the telemetry producer and the
// overlay service. Changing these values breaks existing producers.
const (
	// SuffixTripMetrics carries trip telemetry snapshots (producer -> overlay).
	// Structure: {root}/trip/metrics/{streamID}
	SuffixTripMetrics = "trip/metrics"

	// SuffixCommandAck carries operator command results (action collaborator -> overlay).
	// Structure: {root}/command/ack/{streamID}
	SuffixCommandAck = "command/ack"

	// SuffixOverlayStatus carries the overlay's own online status, used as the
	// client's last-will topic so producers can stop publishing to a dead overlay.
	// Structure: {root}/overlay/status/{streamID}
	SuffixOverlayStatus = "overlay/status"
)

// Builder encapsulates the construction of MQTT topic strings.
// It keeps topic assembly in one place so producers and the overlay agree.
type Builder struct {
	// root is the base namespace for all topics (e.g. "tripcast/v1").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// TripMetrics returns the telemetry topic for a specific stream.
func (b *Builder) TripMetrics(streamID string) string {
	return b.build(SuffixTripMetrics, streamID)
}

// TripMetricsWildcard returns the wildcard filter matching telemetry of all streams.
// Result: {root}/trip/metrics/+
func (b *Builder) TripMetricsWildcard() string {
	return b.build(SuffixTripMetrics, Wildcard)
}

// CommandAck returns the command result topic for a specific stream.
func (b *Builder) CommandAck(streamID string) string {
	return b.build(SuffixCommandAck, streamID)
}

// OverlayStatus returns the overlay liveness topic for a specific stream.
func (b *Builder) OverlayStatus(streamID string) string {
	return b.build(SuffixOverlayStatus, streamID)
}

// build is a private helper to construct the final topic string.
// Pattern: {root}/{suffix}/{identifier}
func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}

package httpapi

import (
	"time"

	"github.com/tripcast-io/tripcast/internal/overlay/render"
	"github.com/tripcast-io/tripcast/internal/overlay/trip"
)

// OverlayState is the wire representation the presentation layer consumes.
// Visual is nil until the first successful render cycle.
type OverlayState struct {
	Visual     *render.VisualUpdate `json:"visual,omitempty"`
	Feedback   trip.Feedback        `json:"feedback"`
	PanelState string               `json:"panelState"`
	UpdatedAt  time.Time            `json:"updatedAt,omitzero"`

	// Stale marks a display older than the configured threshold, so the
	// overlay can dim counters during a source outage.
	Stale bool `json:"stale"`
}

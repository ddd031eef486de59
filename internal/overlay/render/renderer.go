// Package render maps trip metrics snapshots to the visual properties the
// overlay's presentation layer applies: bar fill width, avatar offset, and
// the percent/counter label texts.
package render

import (
	"fmt"
	"math"

	"github.com/tripcast-io/tripcast/internal/overlay/trip"
)

// VisualUpdate is the full set of visual properties for one overlay frame.
// Field names line up with the overlay markup: the fill percent drives
// #progress-bar-traveled, the avatar offset drives #avatar, the label texts
// fill #progress-percent and the .data-box counters.
type VisualUpdate struct {
	FillPercent         float64 `json:"fillPercent"`
	AvatarOffsetPercent float64 `json:"avatarOffsetPercent"`
	PercentLabelText    string  `json:"percentLabelText"`
	TraveledText        string  `json:"traveledText"`
	TodayText           string  `json:"todayText"`
	RemainingText       string  `json:"remainingText"`
}

// Config carries the deployment's display policy.
type Config struct {
	// Unit is the distance unit suffix ("km" or "mi").
	Unit string

	// DistanceDecimals is the number of decimal places for distance counters.
	DistanceDecimals int
}

// Renderer produces VisualUpdates from metrics snapshots. Pure; applying the
// update to the presentation layer is the caller's responsibility.
type Renderer struct {
	cfg Config
}

// New creates a Renderer. An empty unit defaults to km; a negative decimal
// count defaults to 1. Zero decimals is a valid setting and is kept as is.
func New(cfg Config) *Renderer {
	if cfg.Unit == "" {
		cfg.Unit = "km"
	}
	if cfg.DistanceDecimals < 0 {
		cfg.DistanceDecimals = 1
	}
	return &Renderer{cfg: cfg}
}

// Render maps a metrics snapshot to a fully defined VisualUpdate.
// It never fails for a valid snapshot.
func (r *Renderer) Render(m trip.Metrics) VisualUpdate {
	fill := clampPercent(m.PercentComplete())

	return VisualUpdate{
		FillPercent: fill,
		// The avatar rides the fill edge and must never leave the track.
		AvatarOffsetPercent: fill,
		PercentLabelText:    fmt.Sprintf("%d%%", int(math.Round(fill))),
		TraveledText:        r.distance(m.Traveled()),
		TodayText:           r.distance(m.Today()),
		RemainingText:       r.distance(m.Remaining()),
	}
}

func (r *Renderer) distance(v float64) string {
	return fmt.Sprintf("%.*f %s", r.cfg.DistanceDecimals, v, r.cfg.Unit)
}

func clampPercent(p float64) float64 {
	return math.Min(math.Max(p, 0), 100)
}

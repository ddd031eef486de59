// Package loop drives the overlay: on a fixed interval it fetches the latest
// trip telemetry, renders it, and publishes the result for the presentation
// layer. Cycles are strictly serialized; a failed fetch keeps the previous
// display (stale but valid) and the loop recovers on its own once the source
// comes back.
package loop

import (
	"context"
	"errors"
	"time"

	"github.com/tripcast-io/tripcast/internal/overlay/render"
	"github.com/tripcast-io/tripcast/internal/overlay/source"
	"github.com/tripcast-io/tripcast/internal/overlay/trip"
	"github.com/tripcast-io/tripcast/internal/pkg/metrics"
	"github.com/tripcast-io/tripcast/pkg/log"
)

// Config carries the loop's timing policy.
type Config struct {
	// Interval between fetch->render cycles.
	Interval time.Duration

	// FetchTimeout bounds a single telemetry fetch.
	FetchTimeout time.Duration
}

// Option configures optional Loop collaborators.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(logger log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithOnUpdate registers a callback fired after every successful render,
// e.g. to push the frame to overlay subscribers.
func WithOnUpdate(fn func(render.VisualUpdate)) Option {
	return func(l *Loop) { l.onUpdate = fn }
}

// Loop is the overlay update scheduler.
type Loop struct {
	cfg      Config
	src      source.Source
	renderer *render.Renderer
	store    *Store
	logger   log.Logger
	onUpdate func(render.VisualUpdate)
}

// New creates a Loop writing rendered updates to store.
func New(cfg Config, src source.Source, renderer *render.Renderer, store *Store, opts ...Option) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 3 * time.Second
	}

	l := &Loop{
		cfg:      cfg,
		src:      src,
		renderer: renderer,
		store:    store,
		logger:   log.WithName("loop"),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Run executes fetch->render cycles until ctx is cancelled. Cycles never
// overlap: the next tick waits for the previous cycle to finish.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("Starting overlay update loop", "interval", l.cfg.Interval)

	// First cycle immediately, so the overlay fills without waiting a tick.
	l.cycle(ctx)

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Overlay update loop stopped")
			return nil
		case <-ticker.C:
			l.cycle(ctx)
		}
	}
}

// cycle performs one serialized fetch->render pass.
func (l *Loop) cycle(ctx context.Context) {
	metrics.FetchTotal.Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, l.cfg.FetchTimeout)
	raw, err := l.src.GetCurrentTripMetrics(fetchCtx)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return // shutting down
		}
		metrics.FetchFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		l.logger.Warn("Telemetry fetch failed, keeping last display", "reason", failureReason(err), "error", err)
		return
	}

	m, err := trip.New(raw.Traveled, raw.Today)
	if err != nil {
		// Malformed update: reject it and keep the prior snapshot.
		metrics.FetchFailuresTotal.WithLabelValues("invalid").Inc()
		l.logger.Warn("Rejecting malformed telemetry", "error", err, "traveled", raw.Traveled, "today", raw.Today)
		return
	}

	u := l.renderer.Render(m)
	l.store.Set(u, time.Now())

	metrics.RenderCyclesTotal.Inc()
	metrics.OverlayFillPercent.Set(u.FillPercent)

	if l.onUpdate != nil {
		l.onUpdate(u)
	}

	l.logger.Debug("Rendered overlay frame", "fillPercent", u.FillPercent, "traveled", u.TraveledText)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, source.ErrFetchTimeout):
		return "timeout"
	case errors.Is(err, source.ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}

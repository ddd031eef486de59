package source

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tripcast-io/tripcast/pkg/log"
	"github.com/tripcast-io/tripcast/pkg/mqtt"
	"github.com/tripcast-io/tripcast/pkg/mqtt/topic"
)

// MQTTSource consumes trip telemetry pushed over MQTT and serves the latest
// payload to the update loop. A payload older than maxAge counts as the
// source being unavailable, so a dead producer degrades to a stale display
// instead of a frozen "live" one.
type MQTTSource struct {
	client      mqtt.Client
	topic       string
	statusTopic string
	maxAge      time.Duration
	logger      log.Logger

	mu       sync.RWMutex
	latest   Raw
	received time.Time
}

var _ Source = (*MQTTSource)(nil)

// NewMQTTSource creates a push source for the given stream.
func NewMQTTSource(client mqtt.Client, topics *topic.Builder, streamID string, maxAge time.Duration) *MQTTSource {
	return &MQTTSource{
		client:      client,
		topic:       topics.TripMetrics(streamID),
		statusTopic: topics.OverlayStatus(streamID),
		maxAge:      maxAge,
		logger:      log.WithName("source.mqtt"),
	}
}

// Start connects the client and subscribes to the telemetry topic.
func (s *MQTTSource) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("starting mqtt client: %w", err)
	}

	if err := s.client.Subscribe(ctx, s.topic, 1, s.onMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", s.topic, err)
	}

	return nil
}

// AnnounceOnline publishes a retained liveness marker on the status topic.
// The client's last will replaces it with "offline" on unexpected disconnect.
func (s *MQTTSource) AnnounceOnline(ctx context.Context) {
	if err := s.client.Publish(ctx, s.statusTopic, 1, true, []byte("online")); err != nil {
		s.logger.Warn("Failed to announce overlay status", "topic", s.statusTopic, "error", err)
	}
}

// Stop disconnects the underlying client. The will does not fire on a clean
// disconnect, so the offline marker is published explicitly.
func (s *MQTTSource) Stop(ctx context.Context) {
	if err := s.client.Publish(ctx, s.statusTopic, 1, true, []byte("offline")); err != nil {
		s.logger.Warn("Failed to publish offline status", "topic", s.statusTopic, "error", err)
	}
	s.client.Disconnect(ctx)
}

func (s *MQTTSource) onMessage(ctx context.Context, msgTopic string, payload []byte) {
	var raw Raw
	if err := json.Unmarshal(payload, &raw); err != nil {
		s.logger.Error(err, "Dropping malformed telemetry payload", "topic", msgTopic)
		return
	}

	s.mu.Lock()
	s.latest = raw
	s.received = time.Now()
	s.mu.Unlock()

	s.logger.Debug("Telemetry received", "topic", msgTopic, "traveled", raw.Traveled, "today", raw.Today)
}

// GetCurrentTripMetrics returns the most recently pushed telemetry.
func (s *MQTTSource) GetCurrentTripMetrics(ctx context.Context) (Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.received.IsZero() {
		return Raw{}, fmt.Errorf("%w: no telemetry received yet", ErrUnavailable)
	}
	if s.maxAge > 0 && time.Since(s.received) > s.maxAge {
		return Raw{}, fmt.Errorf("%w: last telemetry %s old", ErrUnavailable, time.Since(s.received).Round(time.Second))
	}

	return s.latest, nil
}

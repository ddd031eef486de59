package topic

import "testing"

func TestBuilder(t *testing.T) {
	b := NewBuilder("tripcast/v1")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"trip metrics", b.TripMetrics("stream-1"), "tripcast/v1/trip/metrics/stream-1"},
		{"trip metrics wildcard", b.TripMetricsWildcard(), "tripcast/v1/trip/metrics/+"},
		{"command ack", b.CommandAck("stream-1"), "tripcast/v1/command/ack/stream-1"},
		{"overlay status", b.OverlayStatus("stream-1"), "tripcast/v1/overlay/status/stream-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

package source

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast-io/tripcast/pkg/mqtt"
	"github.com/tripcast-io/tripcast/pkg/mqtt/topic"
)

// fakeMQTTClient records client calls and hands subscription handlers back to
// the test so it can play the broker.
type fakeMQTTClient struct {
	mu           sync.Mutex
	started      bool
	disconnected bool
	handlers     map[string]mqtt.MessageHandler
	published    []fakePublish
}

type fakePublish struct {
	topic   string
	qos     int
	retain  bool
	payload string
}

func newFakeMQTTClient() *fakeMQTTClient {
	return &fakeMQTTClient{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeMQTTClient) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	return nil
}

func (f *fakeMQTTClient) Disconnect(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = true
}

func (f *fakeMQTTClient) Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, fakePublish{topic: topic, qos: qos, retain: retain, payload: string(payload)})
	return nil
}

func (f *fakeMQTTClient) Subscribe(ctx context.Context, topic string, qos int, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = handler
	return nil
}

func (f *fakeMQTTClient) Unsubscribe(ctx context.Context, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, topic)
	return nil
}

func (f *fakeMQTTClient) AwaitConnection(ctx context.Context) error { return nil }

func (f *fakeMQTTClient) handler(t *testing.T, topic string) mqtt.MessageHandler {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.handlers[topic]
	require.True(t, ok, "no subscription for topic %s", topic)
	return h
}

func newTestMQTTSource(t *testing.T, maxAge time.Duration) (*MQTTSource, *fakeMQTTClient, string) {
	t.Helper()

	client := newFakeMQTTClient()
	topics := topic.NewBuilder("tripcast/v1")
	s := NewMQTTSource(client, topics, "default", maxAge)

	require.NoError(t, s.Start(context.Background()))
	require.True(t, client.started)

	return s, client, topics.TripMetrics("default")
}

func TestMQTTSourceDeliversLatestPayload(t *testing.T) {
	s, client, metricsTopic := newTestMQTTSource(t, time.Minute)
	ctx := context.Background()

	push := client.handler(t, metricsTopic)
	push(ctx, metricsTopic, []byte(`{"traveled":42.5,"today":100}`))

	raw, err := s.GetCurrentTripMetrics(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, raw.Traveled, 1e-9)
	assert.InDelta(t, 100, raw.Today, 1e-9)

	// A newer payload replaces the previous one wholesale.
	push(ctx, metricsTopic, []byte(`{"traveled":61,"today":100}`))

	raw, err = s.GetCurrentTripMetrics(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 61, raw.Traveled, 1e-9)
}

func TestMQTTSourceUnavailableBeforeFirstPayload(t *testing.T) {
	s, _, _ := newTestMQTTSource(t, time.Minute)

	_, err := s.GetCurrentTripMetrics(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMQTTSourceStaleTelemetryDegrades(t *testing.T) {
	maxAge := 30 * time.Second
	s, client, metricsTopic := newTestMQTTSource(t, maxAge)
	ctx := context.Background()

	client.handler(t, metricsTopic)(ctx, metricsTopic, []byte(`{"traveled":10,"today":100}`))

	_, err := s.GetCurrentTripMetrics(ctx)
	require.NoError(t, err)

	// Age the payload past maxAge: a dead producer must read as unavailable.
	s.mu.Lock()
	s.received = time.Now().Add(-2 * maxAge)
	s.mu.Unlock()

	_, err = s.GetCurrentTripMetrics(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMQTTSourceDropsMalformedPayload(t *testing.T) {
	s, client, metricsTopic := newTestMQTTSource(t, time.Minute)
	ctx := context.Background()

	push := client.handler(t, metricsTopic)
	push(ctx, metricsTopic, []byte(`{"traveled":10,"today":100}`))
	push(ctx, metricsTopic, []byte(`not json`))

	raw, err := s.GetCurrentTripMetrics(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10, raw.Traveled, 1e-9, "malformed payload must not replace the last good one")
}

func TestMQTTSourceStatusLifecycle(t *testing.T) {
	s, client, _ := newTestMQTTSource(t, time.Minute)
	ctx := context.Background()
	statusTopic := topic.NewBuilder("tripcast/v1").OverlayStatus("default")

	s.AnnounceOnline(ctx)
	s.Stop(ctx)

	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.published, 2)
	assert.Equal(t, fakePublish{topic: statusTopic, qos: 1, retain: true, payload: "online"}, client.published[0])
	assert.Equal(t, fakePublish{topic: statusTopic, qos: 1, retain: true, payload: "offline"}, client.published[1])
	assert.True(t, client.disconnected)
}

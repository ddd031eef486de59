package overlay

import (
	"fmt"
	"time"

	"github.com/tripcast-io/tripcast/internal/overlay/control"
	"github.com/tripcast-io/tripcast/internal/overlay/httpapi"
	"github.com/tripcast-io/tripcast/internal/overlay/loop"
	"github.com/tripcast-io/tripcast/internal/overlay/render"
	"github.com/tripcast-io/tripcast/internal/overlay/source"
	"github.com/tripcast-io/tripcast/pkg/mqtt"
	mqtttopic "github.com/tripcast-io/tripcast/pkg/mqtt/topic"
	"github.com/tripcast-io/tripcast/pkg/options"
)

// A display older than this many poll intervals is flagged stale.
const staleIntervals = 3

// Config assembles the overlay service from its option groups.
type Config struct {
	HttpOptions    *options.HttpOptions
	MqttOptions    *options.MqttOptions
	SourceOptions  *options.SourceOptions
	OverlayOptions *options.OverlayOptions
}

// NewOverlayServer wires the data source, renderer, update loop, control
// panel and HTTP API into a runnable server.
func (cfg *Config) NewOverlayServer() (*OverlayServer, error) {
	store := loop.NewStore()

	renderer := render.New(render.Config{
		Unit:             cfg.OverlayOptions.Unit,
		DistanceDecimals: cfg.OverlayOptions.DistanceDecimals,
	})

	// The API server is created after the controller and loop, but both need
	// to push frames through it; the closure resolves the cycle.
	var api *httpapi.Server
	broadcast := func() {
		if api != nil {
			api.BroadcastFrame()
		}
	}

	ctrl := control.New(control.Config{
		FeedbackDuration: cfg.OverlayOptions.FeedbackDuration,
		ConfirmWindow:    cfg.OverlayOptions.ConfirmWindow,
		ActionTimeout:    cfg.OverlayOptions.ActionTimeout,
	}, control.NewLoopbackExecutor(), control.WithOnChange(broadcast))

	staleAfter := staleIntervals * cfg.SourceOptions.PollInterval

	src, mqttsource, err := cfg.newSource(staleAfter)
	if err != nil {
		return nil, err
	}

	updateloop := loop.New(loop.Config{
		Interval:     cfg.SourceOptions.PollInterval,
		FetchTimeout: cfg.SourceOptions.FetchTimeout,
	}, src, renderer, store, loop.WithOnUpdate(func(render.VisualUpdate) { broadcast() }))

	api = httpapi.NewServer(cfg.HttpOptions, store, ctrl, staleAfter)

	return &OverlayServer{
		httpserver: api,
		updateloop: updateloop,
		mqttsource: mqttsource,
		streamID:   cfg.SourceOptions.StreamID,
	}, nil
}

// newSource builds the telemetry source for the configured mode. The second
// return value is non-nil only in mqtt mode, where the source has its own
// connection lifecycle.
func (cfg *Config) newSource(maxAge time.Duration) (source.Source, *source.MQTTSource, error) {
	switch cfg.SourceOptions.Mode {
	case options.SourceModeHTTP:
		return source.NewHTTPSource(cfg.SourceOptions.Endpoint, cfg.SourceOptions.FetchTimeout), nil, nil

	case options.SourceModeMQTT:
		topics := mqtttopic.NewBuilder(cfg.MqttOptions.TopicRoot)

		clientcfg := cfg.MqttOptions.ToClientConfig()
		// Announce the overlay's death so producers can stop publishing to it.
		clientcfg.WillTopic = topics.OverlayStatus(cfg.SourceOptions.StreamID)
		clientcfg.WillPayload = []byte("offline")
		clientcfg.WillQoS = 1
		clientcfg.WillRetain = true

		mqttclient, err := mqtt.NewClient(clientcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("creating mqtt client: %w", err)
		}

		s := source.NewMQTTSource(mqttclient, topics, cfg.SourceOptions.StreamID, maxAge)
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("unknown source mode %q", cfg.SourceOptions.Mode)
	}
}

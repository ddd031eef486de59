package httpapi

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast-io/tripcast/internal/overlay/control"
	"github.com/tripcast-io/tripcast/internal/overlay/loop"
	"github.com/tripcast-io/tripcast/internal/overlay/render"
	"github.com/tripcast-io/tripcast/internal/overlay/trip"
	"github.com/tripcast-io/tripcast/pkg/options"
)

func newTestServer(t *testing.T) (*Server, *loop.Store, *httptest.Server) {
	t.Helper()

	store := loop.NewStore()
	ctrl := control.New(control.Config{
		FeedbackDuration: 200 * time.Millisecond,
		ConfirmWindow:    200 * time.Millisecond,
		ActionTimeout:    100 * time.Millisecond,
	}, control.NewLoopbackExecutor())

	s := NewServer(options.NewHttpOptions(), store, ctrl, time.Minute)
	ts := httptest.NewServer(s.srv.Handler)
	t.Cleanup(ts.Close)

	return s, store, ts
}

func renderFrame(t *testing.T, store *loop.Store, traveled, today float64) {
	t.Helper()
	m, err := trip.New(traveled, today)
	require.NoError(t, err)
	u := render.New(render.Config{Unit: "km", DistanceDecimals: 1}).Render(m)
	store.Set(u, time.Now())
}

func TestReadyzGatesOnFirstRender(t *testing.T) {
	_, store, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	renderFrame(t, store, 10, 100)

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerHonorsHttpOptions(t *testing.T) {
	opts := options.NewHttpOptions()
	opts.Network = "tcp4"
	opts.Addr = "127.0.0.1:0"
	opts.Timeout = 42 * time.Second

	ctrl := control.New(control.Config{}, control.NewLoopbackExecutor())
	s := NewServer(opts, loop.NewStore(), ctrl, time.Minute)

	assert.Equal(t, "tcp4", s.network)
	assert.Equal(t, "127.0.0.1:0", s.srv.Addr)
	assert.Equal(t, 42*time.Second, s.srv.ReadHeaderTimeout)
	assert.Equal(t, 42*time.Second, s.srv.IdleTimeout)
}

func TestHealthz(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOverlayDocument(t *testing.T) {
	_, store, ts := newTestServer(t)
	renderFrame(t, store, 42.5, 100)

	resp, err := http.Get(ts.URL + "/api/v1/overlay")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state OverlayState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))

	require.NotNil(t, state.Visual)
	assert.Equal(t, "43%", state.Visual.PercentLabelText)
	assert.Equal(t, "57.5 km", state.Visual.RemainingText)
	assert.Equal(t, control.StateIdle, state.PanelState)
	assert.Equal(t, trip.FeedbackNone, state.Feedback.Kind)
	assert.False(t, state.Stale)
}

func TestListCommands(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/commands")
	require.NoError(t, err)
	defer resp.Body.Close()

	var cmds []control.Command
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cmds))

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name] = c.Danger
	}
	assert.Contains(t, names, "start")
	assert.True(t, names["reset"], "reset must be flagged danger")
}

func TestInvokeUnknownCommand(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/commands/does-not-exist", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvokeDangerWithoutConfirmation(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/commands/reset", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body invokeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, trip.FeedbackWarning, body.Feedback.Kind)
	assert.Contains(t, body.Feedback.Message, "confirmation required")
	assert.Equal(t, control.StateIdle, body.PanelState)
}

func TestInvokeCommandResolves(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/commands/start", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/api/v1/overlay")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var state OverlayState
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			return false
		}
		return state.Feedback.Kind == trip.FeedbackSuccess &&
			strings.Contains(state.Feedback.Message, "tracking started")
	}, time.Second, 10*time.Millisecond)
}

func TestInvokeDangerWithConfirmFlag(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/commands/reset?confirm=true", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body invokeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Error)

	require.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/api/v1/overlay")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var state OverlayState
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			return false
		}
		return state.Feedback.Kind == trip.FeedbackSuccess &&
			strings.Contains(state.Feedback.Message, "progress reset")
	}, time.Second, 10*time.Millisecond)
}

func TestOverlayStream(t *testing.T) {
	s, store, ts := newTestServer(t)
	renderFrame(t, store, 25, 100)

	resp, err := http.Get(ts.URL + "/api/v1/overlay/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	readFrame := func() OverlayState {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data: ") {
				var state OverlayState
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &state))
				return state
			}
		}
	}

	// Initial frame arrives on connect.
	first := readFrame()
	require.NotNil(t, first.Visual)
	assert.Equal(t, "25%", first.Visual.PercentLabelText)

	// A new render pushes a fresh frame.
	renderFrame(t, store, 75, 100)
	s.BroadcastFrame()

	second := readFrame()
	require.NotNil(t, second.Visual)
	assert.Equal(t, "75%", second.Visual.PercentLabelText)
}

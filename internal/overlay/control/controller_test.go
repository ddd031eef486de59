package control

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast-io/tripcast/internal/overlay/trip"
)

// fakeExecutor scripts the action collaborator.
type fakeExecutor struct {
	result Result
	err    error
	delay  time.Duration
	calls  atomic.Int64
}

func (f *fakeExecutor) Execute(ctx context.Context, command string) (Result, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func testConfig() Config {
	return Config{
		FeedbackDuration: 80 * time.Millisecond,
		ConfirmWindow:    100 * time.Millisecond,
		ActionTimeout:    60 * time.Millisecond,
	}
}

func waitForFeedback(t *testing.T, c *Controller, kind trip.FeedbackKind) trip.Feedback {
	t.Helper()
	var got trip.Feedback
	require.Eventually(t, func() bool {
		got = c.Feedback()
		return got.Kind == kind
	}, time.Second, 5*time.Millisecond, "expected feedback kind %s", kind)
	return got
}

func TestInvokeSuccessFlow(t *testing.T) {
	exec := &fakeExecutor{result: Result{Status: StatusSuccess, Message: "tracking started"}}
	c := New(testConfig(), exec)

	require.Equal(t, StateIdle, c.State())

	_, err := c.Invoke(context.Background(), "start", false)
	require.NoError(t, err)

	got := waitForFeedback(t, c, trip.FeedbackSuccess)
	assert.Equal(t, "tracking started", got.Message)
	assert.Equal(t, StateFeedback, c.State())
}

func TestInvokeUnknownCommand(t *testing.T) {
	c := New(testConfig(), &fakeExecutor{})

	_, err := c.Invoke(context.Background(), "self-destruct", false)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, StateIdle, c.State())
}

func TestFeedbackExpiresBackToIdle(t *testing.T) {
	exec := &fakeExecutor{result: Result{Status: StatusSuccess}}
	c := New(testConfig(), exec)

	_, err := c.Invoke(context.Background(), "pause", false)
	require.NoError(t, err)

	waitForFeedback(t, c, trip.FeedbackSuccess)

	require.Eventually(t, func() bool {
		return c.State() == StateIdle && c.Feedback().Kind == trip.FeedbackNone
	}, time.Second, 5*time.Millisecond)
}

func TestExecutorFailureSurfacesAsError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("relay unreachable")}
	c := New(testConfig(), exec)

	_, err := c.Invoke(context.Background(), "start", false)
	require.NoError(t, err)

	got := waitForFeedback(t, c, trip.FeedbackError)
	assert.Equal(t, "relay unreachable", got.Message)
}

func TestExecutorWarning(t *testing.T) {
	exec := &fakeExecutor{result: Result{Status: StatusWarning, Message: "already running"}}
	c := New(testConfig(), exec)

	_, err := c.Invoke(context.Background(), "start", false)
	require.NoError(t, err)

	got := waitForFeedback(t, c, trip.FeedbackWarning)
	assert.Equal(t, "already running", got.Message)
}

func TestActionTimeout(t *testing.T) {
	exec := &fakeExecutor{delay: time.Second, result: Result{Status: StatusSuccess}}
	c := New(testConfig(), exec)

	_, err := c.Invoke(context.Background(), "start", false)
	require.NoError(t, err)
	assert.Equal(t, StatePending, c.State())

	got := waitForFeedback(t, c, trip.FeedbackError)
	assert.Equal(t, "timed out", got.Message)
}

func TestDangerCommandNeedsConfirmation(t *testing.T) {
	exec := &fakeExecutor{result: Result{Status: StatusSuccess, Message: "progress reset"}}
	c := New(testConfig(), exec)

	// First invocation arms the command; the panel stays idle.
	fb, err := c.Invoke(context.Background(), "reset", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, trip.FeedbackWarning, fb.Kind)
	assert.Contains(t, fb.Message, "confirmation required")
	assert.Equal(t, StateIdle, c.State())
	assert.Zero(t, exec.calls.Load())

	// Second invocation within the window runs the command.
	_, err = c.Invoke(context.Background(), "reset", false)
	require.NoError(t, err)

	got := waitForFeedback(t, c, trip.FeedbackSuccess)
	assert.Equal(t, "progress reset", got.Message)
	assert.Equal(t, int64(1), exec.calls.Load())
}

func TestDangerConfirmWindowExpires(t *testing.T) {
	now := time.Now()
	clock := &now
	exec := &fakeExecutor{result: Result{Status: StatusSuccess}}
	c := New(testConfig(), exec, WithClock(func() time.Time { return *clock }))

	_, err := c.Invoke(context.Background(), "reset", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	// Step past the confirm window; the second invocation re-arms instead.
	later := now.Add(time.Minute)
	clock = &later

	_, err = c.Invoke(context.Background(), "reset", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, exec.calls.Load())
}

func TestDangerCommandExplicitConfirmFlag(t *testing.T) {
	exec := &fakeExecutor{result: Result{Status: StatusSuccess, Message: "progress reset"}}
	c := New(testConfig(), exec)

	_, err := c.Invoke(context.Background(), "reset", true)
	require.NoError(t, err)

	waitForFeedback(t, c, trip.FeedbackSuccess)
	assert.Equal(t, int64(1), exec.calls.Load())
}

func TestNewerCommandSupersedesPending(t *testing.T) {
	slow := &fakeExecutor{delay: time.Second, result: Result{Status: StatusFailure, Message: "stale"}}
	c := New(testConfig(), slow)

	_, err := c.Invoke(context.Background(), "start", false)
	require.NoError(t, err)
	require.Equal(t, StatePending, c.State())

	// Swap the collaborator result for the superseding command.
	slow.delay = 0
	slow.result = Result{Status: StatusSuccess, Message: "tracking paused"}

	_, err = c.Invoke(context.Background(), "pause", false)
	require.NoError(t, err)

	got := waitForFeedback(t, c, trip.FeedbackSuccess)
	assert.Equal(t, "tracking paused", got.Message)

	// The superseded result must never replace the newer one.
	time.Sleep(150 * time.Millisecond)
	fb := c.Feedback()
	assert.NotEqual(t, "stale", fb.Message)
}

func TestOnChangeNotification(t *testing.T) {
	exec := &fakeExecutor{result: Result{Status: StatusSuccess}}
	var changes atomic.Int64
	c := New(testConfig(), exec, WithOnChange(func() { changes.Add(1) }))

	_, err := c.Invoke(context.Background(), "start", false)
	require.NoError(t, err)

	waitForFeedback(t, c, trip.FeedbackSuccess)
	require.Eventually(t, func() bool { return changes.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestLoopbackExecutor(t *testing.T) {
	e := NewLoopbackExecutor()
	ctx := context.Background()

	res, err := e.Execute(ctx, "start")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)

	res, err = e.Execute(ctx, "start")
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, res.Status)

	res, err = e.Execute(ctx, "toggle-source")
	require.NoError(t, err)
	assert.Equal(t, "switched to source B", res.Message)

	res, err = e.Execute(ctx, "reset")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)

	res, err = e.Execute(ctx, "pause")
	require.NoError(t, err)
	assert.Equal(t, StatusWarning, res.Status)

	res, err = e.Execute(ctx, "warp")
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, res.Status)
}

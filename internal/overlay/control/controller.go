// Package control implements the operator control panel: a small state
// machine that dispatches commands to the external action collaborator and
// owns the feedback message shown on the overlay.
package control

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/tripcast-io/tripcast/internal/overlay/trip"
	"github.com/tripcast-io/tripcast/internal/pkg/metrics"
	"github.com/tripcast-io/tripcast/pkg/log"
)

// Config carries the controller's timing policy and command set.
type Config struct {
	// Commands is the registered command set. Defaults to DefaultCommands.
	Commands []Command

	// FeedbackDuration is how long a result stays visible before the panel
	// reverts to idle.
	FeedbackDuration time.Duration

	// ConfirmWindow is how long a danger command stays armed awaiting its
	// confirming second invocation.
	ConfirmWindow time.Duration

	// ActionTimeout bounds the wait on the action collaborator. On expiry the
	// command resolves to error feedback instead of pending forever.
	ActionTimeout time.Duration
}

func (cfg *Config) setDefaults() {
	if len(cfg.Commands) == 0 {
		cfg.Commands = DefaultCommands()
	}
	if cfg.FeedbackDuration <= 0 {
		cfg.FeedbackDuration = 4 * time.Second
	}
	if cfg.ConfirmWindow <= 0 {
		cfg.ConfirmWindow = 5 * time.Second
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = 3 * time.Second
	}
}

// Option configures optional Controller collaborators.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithOnChange registers a callback fired after every state or feedback
// change, e.g. to push a fresh frame to overlay subscribers.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller handles discrete operator commands and exposes the resulting
// feedback state. It is safe for concurrent use.
type Controller struct {
	cfg      Config
	exec     Executor
	logger   log.Logger
	onChange func()
	now      func() time.Time

	mu       sync.Mutex
	machine  *fsm.FSM
	commands map[string]Command
	feedback trip.Feedback

	// confirmDeadlines tracks armed danger commands awaiting confirmation.
	confirmDeadlines map[string]time.Time

	// gen identifies the current in-flight command; results carrying an older
	// generation were superseded and are discarded.
	gen           uint64
	cancelPending context.CancelFunc

	expireTimer *time.Timer
}

// New creates a Controller dispatching to the given action collaborator.
func New(cfg Config, exec Executor, opts ...Option) *Controller {
	cfg.setDefaults()

	c := &Controller{
		cfg:              cfg,
		exec:             exec,
		logger:           log.WithName("control"),
		now:              time.Now,
		commands:         make(map[string]Command, len(cfg.Commands)),
		feedback:         trip.NoFeedback,
		confirmDeadlines: make(map[string]time.Time),
	}
	for _, cmd := range cfg.Commands {
		c.commands[cmd.Name] = cmd
	}
	c.machine = newMachine(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Commands returns the registered command set in configuration order.
func (c *Controller) Commands() []Command {
	out := make([]Command, len(c.cfg.Commands))
	copy(out, c.cfg.Commands)
	return out
}

// State returns the current control panel state.
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Feedback returns the currently displayed feedback, already cleared if its
// display duration elapsed.
func (c *Controller) Feedback() trip.Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feedback.Expired(c.now()) {
		return trip.NoFeedback
	}
	return c.feedback
}

// Invoke dispatches an operator command. It returns the feedback visible
// right after dispatch; the command result arrives asynchronously.
//
// Danger commands require either confirmed=true or a second invocation within
// the confirm window; a lone invocation arms the command and returns
// ErrConfirmationRequired alongside warning feedback, with the panel idle.
// A newer command supersedes a pending one; the superseded result is discarded.
func (c *Controller) Invoke(ctx context.Context, name string, confirmed bool) (trip.Feedback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd, ok := c.commands[name]
	if !ok {
		return c.feedback, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	now := c.now()
	if cmd.Danger && !confirmed {
		deadline, armed := c.confirmDeadlines[name]
		if !armed || now.After(deadline) {
			c.confirmDeadlines[name] = now.Add(c.cfg.ConfirmWindow)
			c.setFeedbackLocked(trip.FeedbackWarning,
				fmt.Sprintf("confirmation required: invoke %q again within %s", name, c.cfg.ConfirmWindow))
			c.logger.Warn("Danger command armed, awaiting confirmation", "command", name)
			return c.feedback, ErrConfirmationRequired
		}
	}
	// Confirmation consumed (or not needed).
	delete(c.confirmDeadlines, name)

	// Supersede any in-flight command.
	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
	c.gen++

	if err := c.machine.Event(ctx, EventInvoke, cmd); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return c.feedback, err
		}
		// Pending -> Pending supersede keeps the state; nothing else to do.
	}

	// The action call outlives the HTTP request that triggered it.
	execCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.ActionTimeout)
	c.cancelPending = cancel

	c.logger.Info("Dispatching operator command", "command", name, "generation", c.gen)
	go c.execute(execCtx, cancel, c.gen, cmd)

	return c.feedback, nil
}

// execute runs the action collaborator call and resolves the state machine
// with its result, unless a newer command superseded this one.
func (c *Controller) execute(ctx context.Context, cancel context.CancelFunc, gen uint64, cmd Command) {
	defer cancel()

	start := time.Now()
	res, err := c.exec.Execute(ctx, cmd.Name)
	metrics.ActionLatency.WithLabelValues(cmd.Name).Observe(time.Since(start).Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.logger.Debug("Discarding result of superseded command", "command", cmd.Name, "generation", gen)
		return
	}
	c.cancelPending = nil

	kind, msg := resolveOutcome(ctx, cmd, res, err)
	if err := c.machine.Event(context.Background(), EventResolve, cmd, kind, msg); err != nil {
		c.logger.Error(err, "Failed to resolve command", "command", cmd.Name)
	}
}

// resolveOutcome maps an executor result to feedback kind and message.
func resolveOutcome(ctx context.Context, cmd Command, res Result, err error) (trip.FeedbackKind, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return trip.FeedbackError, ErrActionTimeout.Error()
	case err != nil:
		return trip.FeedbackError, err.Error()
	case res.Status == StatusWarning:
		return trip.FeedbackWarning, res.Message
	case res.Status == StatusFailure:
		return trip.FeedbackError, res.Message
	default:
		if res.Message == "" {
			return trip.FeedbackSuccess, fmt.Sprintf("%s succeeded", cmd.Name)
		}
		return trip.FeedbackSuccess, res.Message
	}
}

// --- State machine callbacks (invoked with c.mu held) ---

func (c *Controller) actionEnterPending(ctx context.Context, e *fsm.Event) error {
	c.feedback = trip.NoFeedback
	c.stopExpireTimerLocked()
	c.notify()
	return nil
}

func (c *Controller) actionEnterFeedback(ctx context.Context, e *fsm.Event) error {
	cmd := e.Args[0].(Command)
	kind := e.Args[1].(trip.FeedbackKind)
	msg := e.Args[2].(string)

	c.setFeedbackLocked(kind, msg)
	metrics.CommandResultsTotal.WithLabelValues(cmd.Name, string(kind)).Inc()
	c.logger.Info("Command resolved", "command", cmd.Name, "kind", string(kind), "message", msg)
	return nil
}

func (c *Controller) actionEnterIdle(ctx context.Context, e *fsm.Event) error {
	c.feedback = trip.NoFeedback
	c.notify()
	return nil
}

// setFeedbackLocked installs transient feedback and schedules its expiry.
func (c *Controller) setFeedbackLocked(kind trip.FeedbackKind, msg string) {
	c.feedback = trip.Feedback{
		Kind:      kind,
		Message:   msg,
		ExpiresAt: c.now().Add(c.cfg.FeedbackDuration),
	}

	c.stopExpireTimerLocked()
	c.expireTimer = time.AfterFunc(c.cfg.FeedbackDuration, c.expire)
	c.notify()
}

func (c *Controller) stopExpireTimerLocked() {
	if c.expireTimer != nil {
		c.expireTimer.Stop()
		c.expireTimer = nil
	}
}

// expire reverts displayed feedback to idle after the display duration.
func (c *Controller) expire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.Current() == StateFeedback {
		if err := c.machine.Event(context.Background(), EventExpire); err != nil {
			c.logger.Error(err, "Failed to expire feedback")
		}
		return
	}

	// Confirmation warnings display while the panel is still idle.
	if c.feedback.Kind != trip.FeedbackNone {
		c.feedback = trip.NoFeedback
		c.notify()
	}
}

func (c *Controller) notify() {
	if c.onChange != nil {
		go c.onChange()
	}
}

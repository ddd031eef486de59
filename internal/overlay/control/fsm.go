package control

import (
	"github.com/looplab/fsm"

	fsmutil "github.com/tripcast-io/tripcast/internal/pkg/util/fsm"
)

// Control panel states.
const (
	// StateIdle means no command is in flight and no feedback is shown
	// (a pending danger confirmation may still display a warning).
	StateIdle = "Idle"

	// StatePending means a command was dispatched to the action collaborator
	// and its result is awaited (bounded by the action timeout).
	StatePending = "ActionPending"

	// StateFeedback means a command result is displayed to the operator.
	StateFeedback = "Feedback"
)

// Control panel events.
const (
	// EventInvoke dispatches a command. Allowed from Idle and Feedback
	// (replacing the display) and from Pending (superseding the in-flight call).
	EventInvoke = "event_invoke"

	// EventResolve records the action collaborator's result.
	EventResolve = "event_resolve"

	// EventExpire clears displayed feedback after its display duration.
	EventExpire = "event_expire"
)

// newMachine builds the control panel state machine. Callbacks mutate the
// owning controller, which holds its lock across every Event call.
func newMachine(c *Controller) *fsm.FSM {
	events := fsm.Events{
		{Name: EventInvoke, Src: []string{StateIdle, StateFeedback, StatePending}, Dst: StatePending},
		{Name: EventResolve, Src: []string{StatePending}, Dst: StateFeedback},
		{Name: EventExpire, Src: []string{StateFeedback}, Dst: StateIdle},
	}

	callbacks := fsm.Callbacks{
		"enter_" + StatePending:  fsmutil.WrapEvent(c.actionEnterPending),
		"enter_" + StateFeedback: fsmutil.WrapEvent(c.actionEnterFeedback),
		"enter_" + StateIdle:     fsmutil.WrapEvent(c.actionEnterIdle),
	}

	return fsm.NewFSM(StateIdle, events, callbacks)
}

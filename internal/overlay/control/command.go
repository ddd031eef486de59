package control

import (
	"context"
	"errors"
)

// Status classifies the outcome reported by the action collaborator.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusWarning Status = "Warning"
	StatusFailure Status = "Failure"
)

// Result is what the action collaborator reports for an executed command.
type Result struct {
	Status  Status
	Message string
}

// Executor is the external action collaborator. Execute must honor ctx
// cancellation; the controller bounds every call with a timeout.
type Executor interface {
	Execute(ctx context.Context, command string) (Result, error)
}

// Command describes an operator control panel action.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Danger marks destructive commands that require a confirming second
	// invocation before they run.
	Danger bool `json:"danger"`
}

// DefaultCommands is the command set the overlay control panel exposes.
func DefaultCommands() []Command {
	return []Command{
		{Name: "start", Description: "Start trip progress tracking."},
		{Name: "pause", Description: "Pause trip progress tracking."},
		{Name: "toggle-source", Description: "Toggle the stream's active video source."},
		{Name: "reset", Description: "Reset today's trip progress.", Danger: true},
	}
}

var (
	// ErrUnknownCommand is returned when the invoked command is not registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrConfirmationRequired is returned when a danger command is invoked
	// without confirmation. The operator sees it as warning feedback.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrActionTimeout is surfaced as error feedback when the action
	// collaborator does not answer within the action timeout.
	ErrActionTimeout = errors.New("timed out")
)

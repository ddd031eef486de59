package control

import (
	"context"
	"fmt"
	"sync"
)

// LoopbackExecutor is an in-process action collaborator for local development
// and single-binary deployments. It tracks tracking/source toggles in memory
// and reports results the way a remote collaborator would.
type LoopbackExecutor struct {
	mu       sync.Mutex
	tracking bool
	sourceB  bool
}

var _ Executor = (*LoopbackExecutor)(nil)

// NewLoopbackExecutor creates a LoopbackExecutor with tracking stopped.
func NewLoopbackExecutor() *LoopbackExecutor {
	return &LoopbackExecutor{}
}

// Execute applies the command to the in-memory state.
func (e *LoopbackExecutor) Execute(ctx context.Context, command string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch command {
	case "start":
		if e.tracking {
			return Result{Status: StatusWarning, Message: "tracking already running"}, nil
		}
		e.tracking = true
		return Result{Status: StatusSuccess, Message: "tracking started"}, nil

	case "pause":
		if !e.tracking {
			return Result{Status: StatusWarning, Message: "tracking not running"}, nil
		}
		e.tracking = false
		return Result{Status: StatusSuccess, Message: "tracking paused"}, nil

	case "toggle-source":
		e.sourceB = !e.sourceB
		src := "A"
		if e.sourceB {
			src = "B"
		}
		return Result{Status: StatusSuccess, Message: fmt.Sprintf("switched to source %s", src)}, nil

	case "reset":
		e.tracking = false
		return Result{Status: StatusSuccess, Message: "progress reset"}, nil

	default:
		return Result{Status: StatusFailure, Message: fmt.Sprintf("unsupported command %q", command)}, nil
	}
}

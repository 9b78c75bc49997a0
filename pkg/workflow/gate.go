package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/remote"
)

// GateState is the confirmation gate's position.
type GateState string

const (
	GateClosed GateState = "closed"
	GateOpen   GateState = "open"
)

// Delay between a successful publish settling and the gate auto-closing, so
// the terminal state is perceivable before dismissal.
const defaultGraceDelay = 400 * time.Millisecond

// ConfirmationGate wraps Publish with a mandatory confirmation step. Every
// user-initiated publish must pass through it; programmatic callers may call
// Orchestrator.Publish directly.
//
// While the underlying publish is in flight the gate cannot be dismissed.
// After a successful publish it closes itself once the grace delay elapses.
// After a failed publish it stays open so the error remains visible.
type ConfirmationGate struct {
	mu    sync.Mutex
	state GateState
	orch  *Orchestrator
	grace time.Duration
	timer *time.Timer
}

// NewConfirmationGate creates a closed gate around the orchestrator. A
// non-positive grace falls back to the default delay.
func NewConfirmationGate(orch *Orchestrator, grace time.Duration) *ConfirmationGate {
	if grace <= 0 {
		grace = defaultGraceDelay
	}

	return &ConfirmationGate{
		state: GateClosed,
		orch:  orch,
		grace: grace,
	}
}

// State returns the gate's current position.
func (g *ConfirmationGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Request asks to open the gate for a user-initiated publish. It opens only
// when the workflow allows publishing and the editable content is currently
// valid; otherwise nothing changes. Reports whether the gate is now open.
func (g *ConfirmationGate) Request(contentValid bool) bool {
	if !contentValid || !g.orch.State().CanPublish() {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopTimerLocked()
	g.state = GateOpen

	return true
}

// Dismiss handles cancel, backdrop and escape signals. Ignored while the
// underlying publish is in flight. Reports whether the gate closed.
func (g *ConfirmationGate) Dismiss() bool {
	if g.orch.State().IsPublishing {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != GateOpen {
		return false
	}

	g.stopTimerLocked()
	g.state = GateClosed

	return true
}

// Confirm runs the publish. It does not re-check CanPublish itself; the
// orchestrator's guard is authoritative. On success the gate schedules its
// own close after the grace delay; on failure it stays open.
func (g *ConfirmationGate) Confirm(ctx context.Context, payload models.AssignmentPayload) *remote.MutationResult {
	g.mu.Lock()

	if g.state != GateOpen {
		g.mu.Unlock()

		return nil
	}

	g.mu.Unlock()

	result := g.orch.Publish(ctx, payload)
	if result == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopTimerLocked()
	g.timer = time.AfterFunc(g.grace, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		g.state = GateClosed
		g.timer = nil
	})

	return result
}

// stopTimerLocked cancels a pending auto-close. Callers must hold the lock.
func (g *ConfirmationGate) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

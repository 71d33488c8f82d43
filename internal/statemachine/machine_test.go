package statemachine

import (
	"errors"
	"testing"

	"reactor/internal/coreerr"
)

func newIdleBusyDoneMachine(t *testing.T) *StateMachine {
	t.Helper()
	m := New("test")
	for _, label := range []string{"idle", "busy", "done"} {
		if err := m.AddState(label, nil, false); err != nil {
			t.Fatalf("AddState(%s): %v", label, err)
		}
	}
	return m
}

// TestStateMachineScenario mirrors a bounded three-step transition that
// succeeds and a five-step transition capped at two steps that exceeds
// its budget and rolls back via cancel.
func TestStateMachineScenario(t *testing.T) {
	m := newIdleBusyDoneMachine(t)

	steps := 0
	if err := m.AddTransition("idle", "busy", TransitionOptions{
		Transition: &Transition{
			Step: func(in StepInput) (StepResult, error) {
				steps++
				return StepResult{Done: steps >= 3}, nil
			},
		},
	}); err != nil {
		t.Fatalf("AddTransition idle->busy: %v", err)
	}

	cancelled := false
	required := 0
	if err := m.AddTransition("busy", "done", TransitionOptions{
		Transition: &Transition{
			MaxSteps: 2,
			Step: func(in StepInput) (StepResult, error) {
				required++
				return StepResult{Done: required >= 5}, nil
			},
			Cancel: func(to, from *StateNode) error {
				cancelled = true
				return nil
			},
		},
	}); err != nil {
		t.Fatalf("AddTransition busy->done: %v", err)
	}

	if err := m.JumpTo("idle"); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}

	if err := m.GotoState("busy"); err != nil {
		t.Fatalf("GotoState(busy): %v", err)
	}
	cn, _ := m.Get()
	if cn.Current == nil || cn.Current.Label != "busy" || cn.Next != nil {
		t.Fatalf("expected {current: busy, next: nil}, got %+v", cn)
	}

	err := m.GotoState("done")
	if err == nil {
		t.Fatal("expected GotoState(done) to fail with budget exceeded")
	}
	if !errors.Is(err, coreerr.ErrTransitionBudgetExceeded) {
		t.Fatalf("expected ErrTransitionBudgetExceeded in chain, got %v", err)
	}
	if !cancelled {
		t.Fatal("expected cancel to have been invoked")
	}
	cn, _ = m.Get()
	if cn.Current == nil || cn.Current.Label != "busy" || cn.Next != nil {
		t.Fatalf("expected machine to settle back at {current: busy, next: nil}, got %+v", cn)
	}
}

func TestStateMachineGotoStateNoOpWhenAlreadyThere(t *testing.T) {
	m := newIdleBusyDoneMachine(t)
	m.JumpTo("idle")
	calls := 0
	m.AddTransition("idle", "idle", TransitionOptions{
		Transition: &Transition{Step: func(StepInput) (StepResult, error) {
			calls++
			return StepResult{Done: true}, nil
		}},
	})
	if err := m.GotoState("idle"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no-op transition to current state, got %d step calls", calls)
	}
}

func TestStateMachineGotoStateWithoutTransitionActsLikeJumpTo(t *testing.T) {
	m := newIdleBusyDoneMachine(t)
	m.JumpTo("idle")
	if err := m.GotoState("done"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.CurrentLabel() != "done" {
		t.Fatalf("expected current label done, got %s", m.CurrentLabel())
	}
}

func TestStateMachineDelayTransition(t *testing.T) {
	m := newIdleBusyDoneMachine(t)
	delay := int64(5)
	if err := m.AddTransition("idle", "busy", TransitionOptions{DelayMs: &delay}); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}
	m.JumpTo("idle")
	if err := m.GotoState("busy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStateMachineAddTransitionRejectsBothDelayAndTransition(t *testing.T) {
	m := newIdleBusyDoneMachine(t)
	delay := int64(5)
	err := m.AddTransition("idle", "busy", TransitionOptions{
		DelayMs:    &delay,
		Transition: &Transition{Step: func(StepInput) (StepResult, error) { return StepResult{Done: true}, nil }},
	})
	if !errors.Is(err, coreerr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestStateMachineAddStateRejectsDuplicateWithoutOverwrite(t *testing.T) {
	m := New("test")
	if err := m.AddState("idle", nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddState("idle", nil, false); !errors.Is(err, coreerr.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if err := m.AddState("idle", map[string]any{"k": "v"}, true); err != nil {
		t.Fatalf("expected overwrite to succeed, got %v", err)
	}
}

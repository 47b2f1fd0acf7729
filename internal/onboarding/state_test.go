package onboarding

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func init() {
	// Freeze time for deterministic tests.
	timeNow = func() time.Time {
		return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	}
}

// --- Transition table ---

func TestTransitions_AllTargetsValid(t *testing.T) {
	for from, events := range Transitions {
		if err := ValidateState(from); err != nil {
			t.Errorf("source state: %v", err)
		}
		for e, to := range events {
			if err := ValidateEvent(e); err != nil {
				t.Errorf("%s: %v", from, err)
			}
			if err := ValidateState(to); err != nil {
				t.Errorf("%s --%s--> %v", from, e, err)
			}
		}
	}
}

func TestTransitions_DoneReachableFromWelcome(t *testing.T) {
	p := NewProgress("u1")
	for _, e := range []Event{EventNext, EventNext, EventNext, EventNext, EventSkip} {
		if err := Apply(p, e); err != nil {
			t.Fatalf("Apply(%s) from %s: %v", e, p.State, err)
		}
	}
	if p.State != StateDone {
		t.Errorf("State = %s, want done", p.State)
	}
}

func TestApply_NextWalksEveryScreen(t *testing.T) {
	want := []State{StateFeature, StateBeta, StateSignup, StateKeyboardSetup}
	p := NewProgress("u1")
	for i, s := range want {
		if err := Apply(p, EventNext); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if p.State != s {
			t.Fatalf("step %d: State = %s, want %s", i, p.State, s)
		}
	}
}

func TestApply_BackReturnsToPrevious(t *testing.T) {
	p := &Progress{UserID: "u1", State: StateBeta}
	if err := Apply(p, EventBack); err != nil {
		t.Fatalf("Apply(back): %v", err)
	}
	if p.State != StateFeature {
		t.Errorf("State = %s, want feature", p.State)
	}
	if p.UpdatedAt != "2026-03-02T09:30:00Z" {
		t.Errorf("UpdatedAt = %s, want frozen time", p.UpdatedAt)
	}
}

func TestApply_SkipFromWelcome(t *testing.T) {
	p := NewProgress("u1")
	if err := Apply(p, EventSkip); err != nil {
		t.Fatalf("Apply(skip): %v", err)
	}
	if p.State != StateSignup {
		t.Errorf("State = %s, want signup", p.State)
	}
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		state State
		event Event
		want  string
	}{
		{"back from welcome", StateWelcome, EventBack, "not allowed"},
		{"skip beta", StateBeta, EventSkip, "not allowed"},
		{"unknown event", StateWelcome, Event("jump"), "invalid onboarding event"},
		{"unknown state", State("limbo"), EventNext, "invalid onboarding state"},
		{"complete without setup", StateKeyboardSetup, EventComplete, "not finished"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Progress{UserID: "u1", State: tt.state}
			err := Apply(p, tt.event)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err.Error(), tt.want)
			}
			if p.State != tt.state {
				t.Errorf("rejected event moved state to %s", p.State)
			}
		})
	}
}

func TestApply_DoneIsTerminal(t *testing.T) {
	p := &Progress{UserID: "u1", State: StateDone}
	for _, e := range []Event{EventNext, EventBack, EventSkip, EventComplete} {
		if err := Apply(p, e); !errors.Is(err, ErrFinished) {
			t.Errorf("Apply(%s) on done = %v, want ErrFinished", e, err)
		}
	}
}

func TestAllowedEvents(t *testing.T) {
	got := AllowedEvents(StateFeature)
	want := []Event{EventNext, EventBack, EventSkip}
	if len(got) != len(want) {
		t.Fatalf("AllowedEvents(feature) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllowedEvents[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if len(AllowedEvents(StateDone)) != 0 {
		t.Error("done should allow no events")
	}
}

// --- Keyboard setup wizard ---

func TestCompleteSetupStep_InOrderFinishes(t *testing.T) {
	p := &Progress{UserID: "u1", State: StateKeyboardSetup}
	for _, s := range SetupSteps {
		if err := CompleteSetupStep(p, s); err != nil {
			t.Fatalf("CompleteSetupStep(%s): %v", s, err)
		}
	}
	if p.State != StateDone {
		t.Errorf("State = %s, want done after last step", p.State)
	}
	if len(p.Completed) != len(SetupSteps) {
		t.Errorf("Completed = %v", p.Completed)
	}
}

func TestCompleteSetupStep_OutOfOrder(t *testing.T) {
	p := &Progress{UserID: "u1", State: StateKeyboardSetup}
	err := CompleteSetupStep(p, StepTryIt)
	if err == nil || !strings.Contains(err.Error(), "out of order") {
		t.Fatalf("expected out-of-order error, got %v", err)
	}
	if len(p.Completed) != 0 {
		t.Error("rejected step should not be recorded")
	}
}

func TestCompleteSetupStep_WrongScreen(t *testing.T) {
	p := NewProgress("u1")
	if err := CompleteSetupStep(p, StepAddKeyboard); err == nil {
		t.Error("setup steps should be rejected outside keyboard_setup")
	}
}

func TestNextSetupStep(t *testing.T) {
	p := &Progress{State: StateKeyboardSetup, Completed: []SetupStep{StepAddKeyboard}}
	next, ok := NextSetupStep(p)
	if !ok || next != StepAllowFullAccess {
		t.Errorf("NextSetupStep = %s/%v, want allow_full_access/true", next, ok)
	}
}

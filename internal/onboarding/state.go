package onboarding

import (
	"errors"
	"fmt"
	"slices"
)

// ErrFinished is returned for any event once onboarding is done.
var ErrFinished = errors.New("onboarding is already complete")

// CanApply checks whether event is legal from the current state.
func CanApply(p *Progress, e Event) error {
	if err := ValidateEvent(e); err != nil {
		return err
	}
	if err := ValidateState(p.State); err != nil {
		return err
	}
	if p.State == StateDone {
		return ErrFinished
	}
	if _, ok := Transitions[p.State][e]; !ok {
		return fmt.Errorf("event %q is not allowed from %q (allowed: %v)", e, p.State, AllowedEvents(p.State))
	}
	return nil
}

// Apply moves the progress along the transition table.
//
// The keyboard setup screen only accepts "complete" once every wizard step
// has been recorded; "skip" leaves it without setup.
func Apply(p *Progress, e Event) error {
	if err := CanApply(p, e); err != nil {
		return err
	}
	if p.State == StateKeyboardSetup && e == EventComplete {
		if next, ok := NextSetupStep(p); ok {
			return fmt.Errorf("keyboard setup is not finished: next step is %q", next)
		}
	}

	p.State = Transitions[p.State][e]
	p.UpdatedAt = timeNow().UTC().Format("2006-01-02T15:04:05Z07:00")
	return nil
}

// NextSetupStep returns the first wizard step not yet completed.
func NextSetupStep(p *Progress) (SetupStep, bool) {
	for _, s := range SetupSteps {
		if !slices.Contains(p.Completed, s) {
			return s, true
		}
	}
	return "", false
}

// CompleteSetupStep records a wizard step. Steps must be done in order.
// Finishing the last step applies EventComplete.
func CompleteSetupStep(p *Progress, step SetupStep) error {
	if p.State != StateKeyboardSetup {
		return fmt.Errorf("keyboard setup steps are only accepted on %q (current: %q)", StateKeyboardSetup, p.State)
	}
	next, ok := NextSetupStep(p)
	if !ok {
		return fmt.Errorf("keyboard setup already finished")
	}
	if step != next {
		return fmt.Errorf("step %q is out of order: next step is %q", step, next)
	}

	p.Completed = append(p.Completed, step)
	p.UpdatedAt = timeNow().UTC().Format("2006-01-02T15:04:05Z07:00")

	if _, more := NextSetupStep(p); !more {
		return Apply(p, EventComplete)
	}
	return nil
}

// Package onboarding models the first-run flow as an explicit state machine.
//
// Screens are named states and user actions are events; the transition
// table in flows.go is the only source of truth for which moves are legal.
package onboarding

import "fmt"

// --- State enum ---

// State is one onboarding screen.
type State string

const (
	StateWelcome       State = "welcome"
	StateFeature       State = "feature"
	StateBeta          State = "beta"
	StateSignup        State = "signup"
	StateKeyboardSetup State = "keyboard_setup"
	StateDone          State = "done"
)

var validStates = map[State]bool{
	StateWelcome:       true,
	StateFeature:       true,
	StateBeta:          true,
	StateSignup:        true,
	StateKeyboardSetup: true,
	StateDone:          true,
}

// ValidateState returns an error if the state is not recognized.
func ValidateState(s State) error {
	if !validStates[s] {
		return fmt.Errorf("invalid onboarding state %q", s)
	}
	return nil
}

// --- Event enum ---

// Event is a user action that may move the flow.
type Event string

const (
	EventNext     Event = "next"
	EventBack     Event = "back"
	EventSkip     Event = "skip"
	EventComplete Event = "complete"
)

var validEvents = map[Event]bool{
	EventNext:     true,
	EventBack:     true,
	EventSkip:     true,
	EventComplete: true,
}

// ValidateEvent returns an error if the event is not recognized.
func ValidateEvent(e Event) error {
	if !validEvents[e] {
		return fmt.Errorf("invalid onboarding event %q: must be one of: next, back, skip, complete", e)
	}
	return nil
}

// --- Keyboard setup steps ---

// SetupStep is one step of the keyboard setup wizard.
type SetupStep string

const (
	StepAddKeyboard     SetupStep = "add_keyboard"
	StepAllowFullAccess SetupStep = "allow_full_access"
	StepTryIt           SetupStep = "try_it"
)

// SetupSteps is the wizard's fixed order.
var SetupSteps = []SetupStep{StepAddKeyboard, StepAllowFullAccess, StepTryIt}

// --- Core record ---

// Progress is the persisted onboarding position for one user.
type Progress struct {
	UserID    string      `json:"user_id"`
	State     State       `json:"state"`
	Completed []SetupStep `json:"completed_steps"`
	UpdatedAt string      `json:"updated_at"`
}

// NewProgress returns a fresh record at the welcome screen.
func NewProgress(userID string) *Progress {
	return &Progress{
		UserID:    userID,
		State:     StateWelcome,
		Completed: []SetupStep{},
		UpdatedAt: timeNow().UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

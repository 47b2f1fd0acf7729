package onboarding

// Transitions is the onboarding transition table: state → event → next state.
// A missing entry means the event is not allowed from that state. StateDone
// has no outgoing transitions.
var Transitions = map[State]map[Event]State{
	StateWelcome: {
		EventNext: StateFeature,
		EventSkip: StateSignup,
	},
	StateFeature: {
		EventNext: StateBeta,
		EventBack: StateWelcome,
		EventSkip: StateSignup,
	},
	StateBeta: {
		EventNext: StateSignup,
		EventBack: StateFeature,
	},
	StateSignup: {
		EventNext: StateKeyboardSetup,
		EventBack: StateBeta,
	},
	StateKeyboardSetup: {
		EventComplete: StateDone,
		EventSkip:     StateDone,
		EventBack:     StateSignup,
	},
}

// AllowedEvents returns the events accepted from s, in a stable order.
func AllowedEvents(s State) []Event {
	var out []Event
	for _, e := range []Event{EventNext, EventBack, EventSkip, EventComplete} {
		if _, ok := Transitions[s][e]; ok {
			out = append(out, e)
		}
	}
	return out
}

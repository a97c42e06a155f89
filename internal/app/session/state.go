package session

// State is the stage a raid session has reached.
type State string

const (
	StateIdle      State = "idle"
	StateLoggedIn  State = "logged_in"
	StateScanning  State = "scanning"
	StateAttacking State = "attacking"
	StateFlushing  State = "flushing"
	StateLoggedOut State = "logged_out"
	StateFailed    State = "failed"
)

type event string

const (
	eventLoginSucceeded  event = "login_succeeded"
	eventLoginFailed     event = "login_failed"
	eventScanStarted     event = "scan_started"
	eventTargetsSelected event = "targets_selected"
	eventAttacksDone     event = "attacks_done"
	eventLoggedOut       event = "logged_out"
)

var transitions = map[State]map[event]State{
	StateIdle: {
		eventLoginSucceeded: StateLoggedIn,
		eventLoginFailed:    StateFailed,
	},
	StateLoggedIn: {
		eventScanStarted: StateScanning,
		eventLoggedOut:   StateLoggedOut,
	},
	StateScanning: {
		eventTargetsSelected: StateAttacking,
		eventLoggedOut:       StateLoggedOut,
	},
	StateAttacking: {
		eventAttacksDone: StateFlushing,
		eventLoggedOut:   StateLoggedOut,
	},
	StateFlushing: {
		eventLoggedOut: StateLoggedOut,
	},
}

// next returns the state reached from s on ev. ok is false when ev is not
// expected in s; s is returned unchanged then.
func (s State) next(ev event) (State, bool) {
	to, ok := transitions[s][ev]
	if !ok {
		return s, false
	}
	return to, true
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

package patchbay

// State is the patch interaction state. An empty Pending means Idle.
type State struct {
	Pending string
}

// Idle reports whether no patch is in progress.
func (s State) Idle() bool { return s.Pending == "" }

// GestureKind enumerates the inputs of the interaction machine.
type GestureKind int

const (
	// ActivateOutput is a primary gesture on an output jack.
	ActivateOutput GestureKind = iota
	// ActivateInput is a primary gesture on an input jack.
	ActivateInput
	// Cancel is the cancel key or a click outside any jack.
	Cancel
	// JackRemoved reports that a jack was unregistered.
	JackRemoved
)

// Role distinguishes output from input jacks.
type Role int

const (
	RoleOutput Role = iota
	RoleInput
)

func (r Role) String() string {
	if r == RoleInput {
		return "input"
	}
	return "output"
}

// Gesture is one input to Transition.
type Gesture struct {
	Kind GestureKind
	Jack string
	Role Role // JackRemoved only
}

// Effect lists what the caller must do, in order: connect, tear down the
// previous pending visuals, then start new pending visuals.
type Effect struct {
	ConnectOutput string
	ConnectInput  string
	CancelPending bool
	StartPending  string
}

// Transition is the patch interaction machine:
//
//	Idle        --ActivateOutput(o)--> Pending(o)
//	Pending(p)  --ActivateOutput(o)--> Pending(o)   cancel p first
//	Pending(p)  --ActivateInput(i)---> Idle         connect p -> i, cancel
//	Pending(p)  --Cancel-------------> Idle         cancel
//	Pending(p)  --JackRemoved(p)-----> Idle         cancel
//	Pending(p)  --JackRemoved(input)-> Idle         cancel
//
// Everything else leaves the state unchanged with no effect.
func Transition(s State, g Gesture) (State, Effect) {
	switch g.Kind {
	case ActivateOutput:
		if g.Jack == "" {
			return s, Effect{}
		}
		return State{Pending: g.Jack}, Effect{CancelPending: !s.Idle(), StartPending: g.Jack}

	case ActivateInput:
		if s.Idle() || g.Jack == "" {
			return s, Effect{}
		}
		return State{}, Effect{ConnectOutput: s.Pending, ConnectInput: g.Jack, CancelPending: true}

	case Cancel:
		if s.Idle() {
			return s, Effect{}
		}
		return State{}, Effect{CancelPending: true}

	case JackRemoved:
		if s.Idle() {
			return s, Effect{}
		}
		if g.Role == RoleInput || g.Jack == s.Pending {
			return State{}, Effect{CancelPending: true}
		}
	}

	return s, Effect{}
}

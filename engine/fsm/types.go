package fsm

import "github.com/lixenwraith/color-mixer/event"

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Machine is a hierarchical finite state machine
// T is the context passed to actions and guards
// Not safe for concurrent use; the owner serializes access
type Machine[T any] struct {
	// Graph, immutable after load
	nodes          map[StateID]*Node[T]
	InitialStateID StateID

	// Runtime state
	activeStateID StateID
	activePath    []StateID // Root -> ... -> Leaf

	guardReg  map[string]GuardFunc[T]
	actionReg map[string]ActionFunc[T]
}

// Node is a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Path from Root to this node, used for LCA lookup
	Path []StateID

	OnEnter []Action[T]
	OnExit  []Action[T]

	// Evaluated in declaration order, first passing guard wins
	Transitions []Transition[T]
}

// Transition links a state to a target on an event
type Transition[T any] struct {
	TargetID StateID
	Event    event.EventType
	Guard    GuardFunc[T] // nil = always
}

// Action is a side effect bound to its static arguments
type Action[T any] struct {
	Func ActionFunc[T]
	Args map[string]any
}

// GuardFunc returns true if the transition may fire
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, state string, args map[string]any)

package fsm

// RootConfig is the top-level TOML document
type RootConfig struct {
	InitialState string                  `toml:"initial"`
	States       map[string]*StateConfig `toml:"states"`
}

// StateConfig is a single state definition
type StateConfig struct {
	Parent      string             `toml:"parent"`
	OnEnter     []ActionConfig     `toml:"on_enter"`
	OnExit      []ActionConfig     `toml:"on_exit"`
	Transitions []TransitionConfig `toml:"transitions"`
}

// TransitionConfig is a transition definition
type TransitionConfig struct {
	Trigger string `toml:"trigger"` // Event name, "Event" prefix optional
	Target  string `toml:"target"`
	Guard   string `toml:"guard"`
}

// ActionConfig is an action invocation with static arguments
type ActionConfig struct {
	Action string         `toml:"action"`
	Args   map[string]any `toml:"args"`
}

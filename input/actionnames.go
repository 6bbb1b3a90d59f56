package input

import "fmt"

// actionRegistry maps canonical action names to KeyEntry structs
// Used by the key override loader to resolve config action strings to bindings
var actionRegistry map[string]KeyEntry

func init() {
	actionRegistry = buildActionRegistry()
}

func buildActionRegistry() map[string]KeyEntry {
	reg := map[string]KeyEntry{
		// Unbind sentinel
		"none": {},

		// System
		"quit":        {IntentType: IntentQuit},
		"toggle_mute": {IntentType: IntentToggleMute},

		// Session
		"mix":     {IntentType: IntentMix},
		"eject":   {IntentType: IntentEject},
		"restart": {IntentType: IntentRestart},
		"next":    {IntentType: IntentNext},
	}

	// Shelf slots, 1-based in config
	for i := 0; i < MaxSlotKeys; i++ {
		reg[fmt.Sprintf("place_%d", i+1)] = KeyEntry{IntentType: IntentPlace, Slot: i}
	}

	return reg
}

// ActionEntry returns the binding registered under name
func ActionEntry(name string) (KeyEntry, bool) {
	e, ok := actionRegistry[name]
	return e, ok
}

// ActionNames returns every registered action name
func ActionNames() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	return names
}

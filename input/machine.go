package input

import (
	"github.com/gdamore/tcell/v2"
)

// Machine translates terminal events into intents
type Machine struct {
	keyTable *KeyTable
}

// NewMachine creates a machine using kt, or the default bindings when kt is nil
func NewMachine(kt *KeyTable) *Machine {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	return &Machine{keyTable: kt}
}

// SetKeyTable swaps the active bindings
func (m *Machine) SetKeyTable(kt *KeyTable) {
	m.keyTable = kt
}

// Process converts a terminal event to an intent
// Returns nil for events with no binding
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return m.processKey(ev)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	if ev.Key() == tcell.KeyRune {
		// Modified runes are reserved for the terminal
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			return nil
		}
		return m.lookup(m.keyTable.Runes[ev.Rune()])
	}
	return m.lookup(m.keyTable.SpecialKeys[ev.Key()])
}

func (m *Machine) lookup(entry KeyEntry) *Intent {
	if entry.IntentType == IntentNone {
		return nil
	}
	return &Intent{Type: entry.IntentType, Slot: entry.Slot}
}

package input

import (
	"maps"

	"github.com/gdamore/tcell/v2"
)

// KeyEntry describes what a key does without function pointers
type KeyEntry struct {
	IntentType IntentType
	Slot       int
}

// KeyTable maps keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, Enter, Esc)
	SpecialKeys map[tcell.Key]KeyEntry

	// Printable rune bindings
	Runes map[rune]KeyEntry
}

// MaxSlotKeys is the number of digit keys bound to shelf slots
const MaxSlotKeys = 9

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	kt := &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlC: {IntentType: IntentQuit},
			tcell.KeyCtrlQ: {IntentType: IntentQuit},
			tcell.KeyEnter: {IntentType: IntentMix},
		},
		Runes: map[rune]KeyEntry{
			' ': {IntentType: IntentMix},
			'm': {IntentType: IntentMix},
			'x': {IntentType: IntentEject},
			'r': {IntentType: IntentRestart},
			'n': {IntentType: IntentNext},
			's': {IntentType: IntentToggleMute},
			'q': {IntentType: IntentQuit},
		},
	}
	for i := 0; i < MaxSlotKeys; i++ {
		kt.Runes[rune('1'+i)] = KeyEntry{IntentType: IntentPlace, Slot: i}
	}
	return kt
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SpecialKeys: cloneOrEmpty(kt.SpecialKeys),
		Runes:       cloneOrEmpty(kt.Runes),
	}
}

func cloneOrEmpty[K comparable](m map[K]KeyEntry) map[K]KeyEntry {
	if m == nil {
		return make(map[K]KeyEntry)
	}
	return maps.Clone(m)
}

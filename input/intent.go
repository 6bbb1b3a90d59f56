package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit       // q, Ctrl+C
	IntentToggleMute // s
	IntentResize     // Terminal resize event

	// Session intents
	IntentPlace   // 1-9, Slot carries the zero-based index
	IntentMix     // Space, m, Enter
	IntentEject   // x
	IntentRestart // r
	IntentNext    // n
)

var intentNames = map[IntentType]string{
	IntentNone:       "none",
	IntentQuit:       "quit",
	IntentToggleMute: "toggle_mute",
	IntentResize:     "resize",
	IntentPlace:      "place",
	IntentMix:        "mix",
	IntentEject:      "eject",
	IntentRestart:    "restart",
	IntentNext:       "next",
}

func (t IntentType) String() string {
	if s, ok := intentNames[t]; ok {
		return s
	}
	return "unknown"
}

// Intent is a resolved user action
type Intent struct {
	Type IntentType
	Slot int
}

package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/input"
)

type fakeSession struct {
	posted  []event.EventType
	placed  []int
	ejects  int
	slotsOK bool
}

func (f *fakeSession) Post(ev event.GameEvent) { f.posted = append(f.posted, ev.Type) }

func (f *fakeSession) PostPlaceSlot(i int) bool {
	f.placed = append(f.placed, i)
	return f.slotsOK
}

func (f *fakeSession) PostEjectLast() bool {
	f.ejects++
	return false
}

func TestControllerRoutesIntents(t *testing.T) {
	s := &fakeSession{slotsOK: true}
	cues := audio.NewMutable(audio.Silent{})
	resized := 0
	c := &controller{session: s, cues: cues, onResize: func() { resized++ }, log: zerolog.Nop()}

	intents := []*input.Intent{
		nil,
		{Type: input.IntentPlace, Slot: 2},
		{Type: input.IntentMix},
		{Type: input.IntentEject},
		{Type: input.IntentRestart},
		{Type: input.IntentNext},
		{Type: input.IntentToggleMute},
		{Type: input.IntentResize},
	}
	for _, in := range intents {
		assert.True(t, c.apply(in))
	}

	assert.Equal(t, []int{2}, s.placed)
	assert.Equal(t, 1, s.ejects)
	assert.Equal(t, []event.EventType{event.EventMixTrigger, event.EventLevelRestart, event.EventLevelNext}, s.posted)
	assert.True(t, cues.Muted())
	assert.Equal(t, 1, resized)

	assert.False(t, c.apply(&input.Intent{Type: input.IntentQuit}))
}

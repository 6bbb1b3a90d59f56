package event

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/color-mixer/parameter"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Consume())

	id := uuid.New()
	q.Push(GameEvent{Type: EventPlacementStart, Payload: &PlacementPayload{HandleID: id}})
	q.Push(GameEvent{Type: EventMixTrigger})
	assert.Equal(t, 2, q.Len())

	evs := q.Consume()
	require.Len(t, evs, 2)
	assert.Equal(t, EventPlacementStart, evs[0].Type)
	assert.Equal(t, id, evs[0].Payload.(*PlacementPayload).HandleID)
	assert.Equal(t, EventMixTrigger, evs[1].Type)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Consume())
}

func TestQueue_OverflowDropsOldest(t *testing.T) {
	q := NewQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventMixTrigger, Payload: i})
	}
	assert.Equal(t, parameter.EventQueueSize, q.Len())

	evs := q.Consume()
	require.Len(t, evs, parameter.EventQueueSize)
	assert.Equal(t, 10, evs[0].Payload)
	assert.Equal(t, total-1, evs[len(evs)-1].Payload)
	assert.Equal(t, uint64(10), q.Dropped())
}

func TestQueue_DrainReusesBatch(t *testing.T) {
	q := NewQueue()
	assert.Equal(t, 0, q.Drain(func(GameEvent) { t.Fatal("empty queue delivered an event") }))

	for round := 0; round < 3; round++ {
		q.Push(GameEvent{Type: EventPlacementStart})
		q.Push(GameEvent{Type: EventMixTrigger})

		var got []EventType
		n := q.Drain(func(ev GameEvent) { got = append(got, ev.Type) })
		assert.Equal(t, 2, n)
		assert.Equal(t, []EventType{EventPlacementStart, EventMixTrigger}, got)
		assert.Equal(t, 0, q.Len())
	}
	assert.Zero(t, q.Dropped())
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, each = 4, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(GameEvent{Type: EventMixTrigger})
			}
		}()
	}
	wg.Wait()

	got := 0
	for {
		evs := q.Consume()
		if evs == nil {
			break
		}
		got += len(evs)
	}
	assert.Equal(t, producers*each, got)
}

func TestRegistry_Names(t *testing.T) {
	tests := []struct {
		name string
		want EventType
	}{
		{"EventPlacementStart", EventPlacementStart},
		{"PlacementStart", EventPlacementStart},
		{"MixTrigger", EventMixTrigger},
		{"SettleComplete", EventSettleComplete},
		{"LevelReset", EventLevelReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			et, ok := GetEventType(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, et)
		})
	}

	_, ok := GetEventType("NoSuchEvent")
	assert.False(t, ok)
	_, ok = GetEventType("Tick")
	assert.False(t, ok)
	assert.Equal(t, "EventMixStart", EventMixStart.String())
	assert.Equal(t, "Unknown", EventType(999).String())
}

func TestRegistry_Payloads(t *testing.T) {
	assert.IsType(t, &PlacementPayload{}, NewPayloadStruct(EventPlacementStart))
	assert.IsType(t, &IngredientPayload{}, NewPayloadStruct(EventIngredientExit))
	assert.Nil(t, NewPayloadStruct(EventMixTrigger))
}

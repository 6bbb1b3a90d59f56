package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/color-mixer/audio"
	"github.com/lixenwraith/color-mixer/blend"
	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/event"
	"github.com/lixenwraith/color-mixer/level"
	"github.com/lixenwraith/color-mixer/pool"
	"github.com/lixenwraith/color-mixer/status"
	"github.com/lixenwraith/color-mixer/vessel"
)

var (
	red   = core.RGB(1, 0, 0)
	green = core.RGB(0, 1, 0)
	blue  = core.RGB(0, 0, 1)
	olive = core.Color{R: 0.5, G: 0.5, B: 0, A: 1}
)

// gateMover completes moves instantly, or one per release when gated
type gateMover struct {
	gated   bool
	release chan struct{}

	mu    sync.Mutex
	moved []uuid.UUID
}

func newGateMover(gated bool) *gateMover {
	return &gateMover{gated: gated, release: make(chan struct{})}
}

func (m *gateMover) MoveTo(ctx context.Context, h *pool.Handle, dest core.Vec3) error {
	if m.gated {
		select {
		case <-m.release:
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
	h.SetPosition(dest)
	m.mu.Lock()
	m.moved = append(m.moved, h.ID())
	m.mu.Unlock()
	return nil
}

func (m *gateMover) Moved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.moved)
}

type recordingView struct {
	mu      sync.Mutex
	orders  []level.Level
	preview core.Color
	count   int
	results []blend.MixResult
	passed  []bool
	resets  int
	notices []string
}

func (v *recordingView) ShowOrder(lvl level.Level, _ core.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orders = append(v.orders, lvl)
}

func (v *recordingView) ContentChanged(preview core.Color, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview, v.count = preview, count
}

func (v *recordingView) ShowResults(_ context.Context, res blend.MixResult, passed bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = append(v.results, res)
	v.passed = append(v.passed, passed)
	return nil
}

func (v *recordingView) ResetView(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resets++
	return nil
}

func (v *recordingView) Notice(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, msg)
}

func (v *recordingView) snapshot() recordingView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return recordingView{
		orders:  append([]level.Level(nil), v.orders...),
		preview: v.preview,
		count:   v.count,
		results: append([]blend.MixResult(nil), v.results...),
		passed:  append([]bool(nil), v.passed...),
		resets:  v.resets,
		notices: append([]string(nil), v.notices...),
	}
}

type recordingCues struct {
	mu     sync.Mutex
	played []audio.Cue
}

func (c *recordingCues) Play(cue audio.Cue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.played = append(c.played, cue)
}

func (c *recordingCues) Has(cue audio.Cue) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.played {
		if p == cue {
			return true
		}
	}
	return false
}

type harness struct {
	o      *Orchestrator
	vessel *vessel.Vessel
	mover  *gateMover
	view   *recordingView
	cues   *recordingCues
	status *status.Registry
}

func ingredient(name string, c core.Color) level.Entry {
	return level.Entry{Ingredient: level.Ingredient{Name: name, Color: c, RenewDelay: 5 * time.Millisecond}, Count: 1}
}

func oliveLevel() level.Level {
	return level.Level{Name: "Olive", Entries: []level.Entry{ingredient("red", red), ingredient("green", green)}}
}

func blueLevel() level.Level {
	return level.Level{Name: "Ocean", Entries: []level.Entry{ingredient("blue", blue)}}
}

func newHarness(t *testing.T, gated bool, levels ...level.Level) *harness {
	t.Helper()
	if len(levels) == 0 {
		levels = []level.Level{oliveLevel()}
	}
	reg := status.NewRegistry()
	v := vessel.New(vessel.Options{
		LidDuration:            10 * time.Millisecond,
		MixDuration:            40 * time.Millisecond,
		ResetContentDuration:   10 * time.Millisecond,
		ResetTransformDuration: 5 * time.Millisecond,
		Status:                 reg,
	})
	mgr, err := level.NewManager(levels)
	require.NoError(t, err)

	h := &harness{
		vessel: v,
		mover:  newGateMover(gated),
		view:   &recordingView{},
		cues:   &recordingCues{},
		status: reg,
	}
	h.o, err = New(Options{
		Vessel:             v,
		Mover:              h.mover,
		View:               h.view,
		Levels:             mgr,
		Cues:               h.cues,
		PoolSize:           4,
		WaitBeforeCloseLid: 30 * time.Millisecond,
		DispatchInterval:   5 * time.Millisecond,
		Status:             reg,
	})
	require.NoError(t, err)
	t.Cleanup(h.o.Close)

	started, err := h.o.RestartLevel()
	require.NoError(t, err)
	await(t, started)
	return h
}

func await[T any](t *testing.T, f *engine.Future[T]) T {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := f.Wait(ctx)
	require.NoError(t, err)
	return v
}

// slotHandle waits until slot index holds a ready handle
func (h *harness) slotHandle(t *testing.T, index int) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.Eventually(t, func() bool {
		shelf := h.o.Shelf()
		if index >= len(shelf) || !shelf[index].Ready {
			return false
		}
		id = shelf[index].HandleID
		return true
	}, time.Second, time.Millisecond)
	return id
}

func TestStartLevelLaysOutShelf(t *testing.T) {
	h := newHarness(t, false)

	shelf := h.o.Shelf()
	require.Len(t, shelf, 2)
	assert.Equal(t, "red", shelf[0].Kind)
	assert.Equal(t, "green", shelf[1].Kind)
	assert.True(t, shelf[0].Ready)
	assert.True(t, shelf[1].Ready)

	assert.Equal(t, olive, h.o.Target())
	assert.Equal(t, PhaseIdle, h.o.Phase())
	assert.Equal(t, "Idle", h.status.String("orchestrator.phase"))
	assert.Equal(t, "Olive", h.status.String("level.name"))
	assert.Len(t, h.view.snapshot().orders, 1)
	assert.Equal(t, 0, h.view.snapshot().resets, "first start does not reset the scene")
	assert.Equal(t, 1, h.o.Pool("red").Active())
}

func assertQuatNear(t *testing.T, want, got core.Quat) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
	assert.InDelta(t, want.W, got.W, 1e-9)
}

func TestSlotTransforms(t *testing.T) {
	single := slotTransforms(1, 0.6, 1)
	assert.Equal(t, 0.0, single[0].Position.X)
	assertQuatNear(t, core.LookRotation(core.Vec3{Z: -1}, core.Vec3{Y: 1}), single[0].Orientation)

	// Segment centres: pad = 0.2, first slot at -0.3 + 0.1
	three := slotTransforms(3, 0.6, 1)
	assert.InDelta(t, -0.2, three[0].Position.X, 1e-9)
	assert.InDelta(t, 0.0, three[1].Position.X, 1e-9)
	assert.InDelta(t, 0.2, three[2].Position.X, 1e-9)
	for _, tr := range three {
		assert.Equal(t, 1.0, tr.Position.Z)
		assert.Equal(t, "shelf", tr.Parent)
	}

	up := core.Vec3{Y: 1}
	assertQuatNear(t, core.LookRotation(core.Vec3{Z: -1}, up), three[1].Orientation)
	assertQuatNear(t, core.LookRotation(core.Vec3{X: 0.2, Z: -1}, up), three[0].Orientation)
	assertQuatNear(t, core.LookRotation(core.Vec3{X: -0.2, Z: -1}, up), three[2].Orientation)
	assert.NotEqual(t, three[0].Orientation, three[2].Orientation, "outer slots angle inward")

	two := slotTransforms(2, 0.5, 1)
	assert.InDelta(t, -0.125, two[0].Position.X, 1e-9)
	assert.InDelta(t, 0.125, two[1].Position.X, 1e-9)
}

func TestMixWithoutPlacementForbidden(t *testing.T) {
	h := newHarness(t, false)

	res, err := h.o.TriggerMix()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, vessel.ErrEmptyMixForbidden)

	assert.Equal(t, PhaseIdle, h.o.Phase())
	assert.Equal(t, vessel.LidClosed, h.vessel.LidState())
	assert.Equal(t, vessel.ContentEmpty, h.vessel.ContentState())
	assert.False(t, h.vessel.MixButtonPressed())
	assert.True(t, h.cues.Has(audio.CueError))
}

func TestPlaceErrors(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.o.Place(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownHandle)

	id := h.slotHandle(t, 0)
	_, err = h.o.Place(id)
	require.NoError(t, err)

	// The claimed handle left the shelf
	_, err = h.o.Place(id)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestRedGreenScenario(t *testing.T) {
	h := newHarness(t, false)

	redMove, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)
	await(t, redMove)
	assert.Equal(t, red, h.vessel.PreviewColor())

	greenMove, err := h.o.Place(h.slotHandle(t, 1))
	require.NoError(t, err)
	await(t, greenMove)

	assert.Equal(t, []core.Color{red, green}, h.vessel.Colors())
	assert.Equal(t, olive, h.vessel.PreviewColor())
	assert.Equal(t, 2, h.view.snapshot().count)

	mix, err := h.o.TriggerMix()
	require.NoError(t, err)
	res := await(t, mix)

	assert.Equal(t, olive, res.FinalColor)
	assert.InDelta(t, 1.0, res.Similarity, 1e-9)
	assert.Equal(t, 100, res.Percent())

	assert.Equal(t, PhaseIdle, h.o.Phase())
	last, ok := h.o.LastResult()
	require.True(t, ok)
	assert.Equal(t, res, last)

	snap := h.view.snapshot()
	require.Len(t, snap.results, 1)
	assert.True(t, snap.passed[0])
	assert.True(t, h.cues.Has(audio.CueSuccess))

	assert.Equal(t, vessel.LidOpen, h.vessel.LidState(), "the lid reopens after the results")
	assert.Equal(t, 0, h.vessel.Count())
	assert.Equal(t, int64(1), h.status.Int("mix.count"))
	assert.InDelta(t, 1.0, h.status.Float("mix.last_similarity"), 1e-9)

	// Mixed ingredients returned to their pools, shelf replacements remain
	require.Eventually(t, func() bool {
		return h.o.Pool("red").Active() == 1 && h.o.Pool("green").Active() == 1
	}, time.Second, time.Millisecond)
}

func TestSecondPlacementCancelsFirstWaitOnce(t *testing.T) {
	h := newHarness(t, true)

	first, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)
	assert.Equal(t, PhasePlacing, h.o.Phase())
	assert.Equal(t, int64(0), h.o.Cancellations())

	second, err := h.o.Place(h.slotHandle(t, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.o.Cancellations())

	h.mover.release <- struct{}{}
	h.mover.release <- struct{}{}

	// Neither committed move is cancelled
	await(t, first)
	await(t, second)
	assert.Equal(t, 2, h.mover.Moved())
	assert.Equal(t, 2, h.vessel.Count())

	require.Eventually(t, func() bool {
		return h.o.Phase() == PhaseIdle && h.vessel.LidState() == vessel.LidClosed
	}, time.Second, time.Millisecond)

	assert.Equal(t, int64(1), h.o.Cancellations())
	assert.Equal(t, int64(1), h.status.Int("orchestrator.cancellations"))
	assert.Equal(t, int64(2), h.status.Int("orchestrator.placements"))
}

func TestMixChainsAfterMovement(t *testing.T) {
	h := newHarness(t, true)

	move, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)

	mix, err := h.o.TriggerMix()
	require.NoError(t, err)
	assert.Equal(t, PhaseMixRequested, h.o.Phase())

	// Still in flight, the mix must not start
	time.Sleep(20 * time.Millisecond)
	assert.False(t, h.vessel.MixButtonPressed())
	assert.False(t, mix.Settled())

	h.mover.release <- struct{}{}
	await(t, move)

	res := await(t, mix)
	assert.Equal(t, red, res.FinalColor)
	assert.Less(t, res.Similarity, 1.0)
	assert.False(t, h.view.snapshot().passed[0])
	assert.True(t, h.cues.Has(audio.CueFailure))
	assert.Equal(t, int64(1), h.o.Cancellations(), "the mix cut the pending close-lid wait")
}

func TestMixIgnoredWhileMixing(t *testing.T) {
	h := newHarness(t, false)

	move, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)
	await(t, move)

	mix, err := h.o.TriggerMix()
	require.NoError(t, err)

	_, err = h.o.TriggerMix()
	assert.ErrorIs(t, err, ErrSessionBusy)

	_, err = h.o.Place(h.slotHandle(t, 1))
	assert.ErrorIs(t, err, ErrSessionBusy)
	assert.True(t, h.o.Shelf()[1].Ready, "a refused placement leaves the ingredient on the shelf")

	_, err = h.o.RestartLevel()
	assert.ErrorIs(t, err, ErrSessionBusy)

	await(t, mix)
	assert.Equal(t, int64(1), h.status.Int("mix.count"))
	assert.Len(t, h.view.snapshot().results, 1)
}

func TestReplenishmentSurvivesCancellation(t *testing.T) {
	h := newHarness(t, true)

	placed := h.slotHandle(t, 0)
	_, err := h.o.Place(placed)
	require.NoError(t, err)

	// Supersede the first placement before its move completes
	_, err = h.o.Place(h.slotHandle(t, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.o.Cancellations())

	replacement := h.slotHandle(t, 0)
	assert.NotEqual(t, placed, replacement)
	assert.Equal(t, 2, h.o.Pool("red").Active())
}

func TestPoolExhaustionLeavesSlotEmpty(t *testing.T) {
	h := newHarness(t, false)
	// Drain the red pool so the replacement cannot be created
	for h.o.Pool("red").Active() < 4 {
		_, err := h.o.Pool("red").Acquire(core.Transform{})
		require.NoError(t, err)
	}

	move, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)
	await(t, move)

	require.Eventually(t, func() bool {
		return len(h.view.snapshot().notices) == 1
	}, time.Second, time.Millisecond)
	assert.False(t, h.o.Shelf()[0].Ready)
	assert.Equal(t, int64(1), h.status.Int("pool.red.exhausted"))
}

func TestIngredientExit(t *testing.T) {
	h := newHarness(t, false)

	redID := h.slotHandle(t, 0)
	move, err := h.o.Place(redID)
	require.NoError(t, err)
	await(t, move)
	move, err = h.o.Place(h.slotHandle(t, 1))
	require.NoError(t, err)
	await(t, move)

	require.NoError(t, h.o.IngredientExited(redID))
	assert.Equal(t, []core.Color{green}, h.vessel.Colors())
	assert.Equal(t, green, h.vessel.PreviewColor())
	assert.Equal(t, green, h.view.snapshot().preview)

	assert.ErrorIs(t, h.o.IngredientExited(redID), ErrUnknownHandle)
}

func TestNextLevelRequiresPass(t *testing.T) {
	h := newHarness(t, false, oliveLevel(), blueLevel())

	_, err := h.o.NextLevel()
	assert.ErrorIs(t, err, ErrSessionBusy)

	for i := 0; i < 2; i++ {
		move, err := h.o.Place(h.slotHandle(t, i))
		require.NoError(t, err)
		await(t, move)
	}
	mix, err := h.o.TriggerMix()
	require.NoError(t, err)
	require.True(t, await(t, mix).Passed(0.85))

	next, err := h.o.NextLevel()
	require.NoError(t, err)
	await(t, next)

	assert.Equal(t, "Ocean", h.o.Level().Name)
	assert.Equal(t, blue, h.o.Target())
	assert.Equal(t, PhaseIdle, h.o.Phase())
	assert.Equal(t, 1, h.view.snapshot().resets)
	assert.Equal(t, vessel.LidClosed, h.vessel.LidState())
	assert.Equal(t, vessel.ContentEmpty, h.vessel.ContentState())
	assert.Equal(t, 0, h.o.Pool("red").Active(), "old shelf handles return to their pools")

	shelf := h.o.Shelf()
	require.Len(t, shelf, 1)
	assert.Equal(t, "blue", shelf[0].Kind)

	_, ok := h.o.LastResult()
	assert.False(t, ok)

	// A fresh level needs a placement again before mixing
	_, err = h.o.TriggerMix()
	assert.ErrorIs(t, err, vessel.ErrEmptyMixForbidden)
}

func TestRestartLevelClearsVessel(t *testing.T) {
	h := newHarness(t, false)

	move, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)
	await(t, move)
	require.Equal(t, 1, h.vessel.Count())

	restarted, err := h.o.RestartLevel()
	require.NoError(t, err)
	await(t, restarted)

	assert.Equal(t, 0, h.vessel.Count())
	assert.Equal(t, "Olive", h.o.Level().Name)
	assert.Len(t, h.o.Shelf(), 2)
	require.Eventually(t, func() bool {
		return h.o.Pool("red").Active() == 1
	}, time.Second, time.Millisecond)
}

func TestDispatchRoutesQueuedEvents(t *testing.T) {
	h := newHarness(t, false)
	h.slotHandle(t, 0)

	assert.False(t, h.o.PostPlaceSlot(5))
	require.True(t, h.o.PostPlaceSlot(0))
	assert.Equal(t, 1, h.o.Dispatch())

	require.Eventually(t, func() bool { return h.vessel.Count() == 1 }, time.Second, time.Millisecond)

	h.o.Post(event.GameEvent{Type: event.EventMixTrigger})
	h.o.Post(event.GameEvent{Type: event.EventPlacementStart})
	assert.Equal(t, 2, h.o.Dispatch())
	assert.Zero(t, h.status.Int("events.dropped"))

	require.Eventually(t, func() bool {
		return h.status.Int("mix.count") == 1 && h.o.Phase() == PhaseIdle
	}, 2*time.Second, time.Millisecond)
}

func TestRunDispatchesUntilCancelled(t *testing.T) {
	h := newHarness(t, false)
	h.slotHandle(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.o.Run(ctx) }()

	require.True(t, h.o.PostPlaceSlot(0))
	require.Eventually(t, func() bool { return h.vessel.Count() == 1 }, time.Second, time.Millisecond)

	require.True(t, h.o.PostEjectLast())
	require.Eventually(t, func() bool { return h.vessel.Count() == 0 }, time.Second, time.Millisecond)
	assert.False(t, h.o.PostEjectLast())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestClosedOrchestratorRefuses(t *testing.T) {
	h := newHarness(t, true)
	_, err := h.o.Place(h.slotHandle(t, 0))
	require.NoError(t, err)

	h.o.Close()
	h.o.Close()

	_, err = h.o.TriggerMix()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = h.o.RestartLevel()
	assert.ErrorIs(t, err, ErrClosed)
}

package vessel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/engine"
	"github.com/lixenwraith/color-mixer/pool"
	"github.com/lixenwraith/color-mixer/status"
)

var (
	red   = core.RGB(1, 0, 0)
	green = core.RGB(0, 1, 0)
)

func newTestVessel(t *testing.T) (*Vessel, *engine.MockTimeProvider, *status.Registry) {
	t.Helper()
	mock := engine.NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	reg := status.NewRegistry()
	v := New(Options{
		TimeProvider: mock,
		LidDuration:  time.Second,
		MixDuration:  3 * time.Second,
		Home:         core.Transform{Position: core.Vec3{Y: 1}},
		Status:       reg,
	})
	return v, mock, reg
}

func newTestPool(t *testing.T, mock *engine.MockTimeProvider, kind string, c core.Color) *pool.Pool {
	t.Helper()
	p := pool.New(pool.Spec{Kind: kind, Color: c}, pool.Options{MaxSize: 4, TimeProvider: mock})
	t.Cleanup(p.Close)
	return p
}

// drive advances the mock clock until done closes
func drive(t *testing.T, mock *engine.MockTimeProvider, done <-chan struct{}, step time.Duration) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		select {
		case <-done:
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("effect did not settle")
		}
		mock.Advance(step)
		time.Sleep(time.Millisecond)
	}
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLidOpenCoalesces(t *testing.T) {
	v, mock, reg := newTestVessel(t)

	first := v.OpenLid()
	assert.Equal(t, LidOpening, v.LidState())
	assert.Same(t, first, v.OpenLid(), "open while opening shares the in-flight transition")
	assert.Equal(t, "opening", reg.String("vessel.lid"))

	mock.Advance(time.Second)
	require.NoError(t, engine.Await(waitCtx(t), first))
	assert.Equal(t, LidOpen, v.LidState())
	assert.Equal(t, 1.0, v.Lid().Openness())

	again := v.OpenLid()
	assert.True(t, again.Settled(), "open while open is a no-op")
	assert.Equal(t, LidOpen, v.LidState())
}

func TestLidReversalKillsTransition(t *testing.T) {
	v, mock, _ := newTestVessel(t)

	opening := v.OpenLid()
	mock.Advance(400 * time.Millisecond)
	assert.InDelta(t, 0.4, v.Lid().Openness(), 1e-9)

	closing := v.CloseLid()
	assert.Equal(t, LidClosing, v.LidState())
	err := engine.Await(waitCtx(t), opening)
	assert.ErrorIs(t, err, engine.ErrKilled)
	assert.True(t, engine.IsInterruption(err))

	// Close resumes from 0.4, so it needs only 40% of the full duration
	assert.InDelta(t, 0.4, v.Lid().Openness(), 1e-9)
	mock.Advance(399 * time.Millisecond)
	assert.False(t, closing.Settled())
	mock.Advance(time.Millisecond)
	require.NoError(t, engine.Await(waitCtx(t), closing))
	assert.Equal(t, LidClosed, v.LidState())
	assert.True(t, v.CloseLid().Settled())
}

func TestEnterRequiresCheckout(t *testing.T) {
	v, mock, _ := newTestVessel(t)
	p := newTestPool(t, mock, "red", red)

	h, err := p.Acquire(core.Transform{})
	require.NoError(t, err)

	added, err := v.Enter(h)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = v.Enter(h)
	require.NoError(t, err)
	assert.False(t, added, "an ingredient is never inside twice")
	assert.Equal(t, 1, v.Count())

	idle, err := p.Acquire(core.Transform{})
	require.NoError(t, err)
	require.True(t, p.Release(idle))
	_, err = v.Enter(idle)
	assert.ErrorIs(t, err, ErrNotCheckedOut)
	assert.Equal(t, 1, v.Count())
}

func TestPreviewFollowsArrivalOrder(t *testing.T) {
	v, mock, _ := newTestVessel(t)
	reds := newTestPool(t, mock, "red", red)
	greens := newTestPool(t, mock, "green", green)

	r, _ := reds.Acquire(core.Transform{})
	g, _ := greens.Acquire(core.Transform{})

	assert.Equal(t, ContentEmpty, v.ContentState())

	_, err := v.Enter(r)
	require.NoError(t, err)
	assert.Equal(t, red, v.PreviewColor())
	assert.Equal(t, ContentFilling, v.ContentState())

	_, err = v.Enter(g)
	require.NoError(t, err)
	assert.Equal(t, core.Color{R: 0.5, G: 0.5, B: 0, A: 1}, v.PreviewColor())
	assert.Equal(t, []core.Color{red, green}, v.Colors())

	assert.True(t, v.Exit(r))
	assert.False(t, v.Exit(r))
	assert.Equal(t, green, v.PreviewColor())

	assert.True(t, v.Exit(g))
	assert.Equal(t, ContentEmpty, v.ContentState())
}

func TestBeginMixEmptyForbidden(t *testing.T) {
	v, _, _ := newTestVessel(t)

	m, err := v.BeginMix(context.Background(), nil, red)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrEmptyMixForbidden)

	assert.Equal(t, ContentEmpty, v.ContentState())
	assert.Equal(t, LidClosed, v.LidState())
	assert.False(t, v.MixButtonPressed())
	assert.Equal(t, 0.0, v.Fill())
}

func TestBeginMixScenario(t *testing.T) {
	v, mock, _ := newTestVessel(t)
	reds := newTestPool(t, mock, "red", red)
	greens := newTestPool(t, mock, "green", green)

	r, _ := reds.Acquire(core.Transform{})
	g, _ := greens.Acquire(core.Transform{})
	_, err := v.Enter(r)
	require.NoError(t, err)
	_, err = v.Enter(g)
	require.NoError(t, err)

	target := core.RGB(0.5, 0.5, 0)
	m, err := v.BeginMix(context.Background(), v.Colors(), target)
	require.NoError(t, err)
	assert.True(t, v.MixButtonPressed())
	assert.Equal(t, []core.Color{red, {R: 0.5, G: 0.5, A: 1}}, m.Steps())

	_, err = v.BeginMix(context.Background(), v.Colors(), target)
	assert.ErrorIs(t, err, ErrMixInProgress)

	drive(t, mock, m.Done(), 50*time.Millisecond)

	res, err := m.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Color{R: 0.5, G: 0.5, B: 0, A: 1}, res.FinalColor)
	assert.InDelta(t, 1.0, res.Similarity, 1e-9)
	assert.Equal(t, target, res.TargetColor)

	assert.False(t, v.MixButtonPressed())
	assert.False(t, v.Agitating())
	assert.Equal(t, ContentMixed, v.ContentState())
	assert.Equal(t, res.FinalColor, v.PreviewColor())
	assert.Equal(t, 0, v.Count(), "dispersal empties the vessel")
	assert.Equal(t, 0, reds.Active())
	assert.Equal(t, 0, greens.Active())
	assert.Equal(t, 1.0, v.Fill())
}

func TestBeginMixCancelled(t *testing.T) {
	v, mock, _ := newTestVessel(t)
	reds := newTestPool(t, mock, "red", red)
	r, _ := reds.Acquire(core.Transform{})
	_, err := v.Enter(r)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	m, err := v.BeginMix(ctx, v.Colors(), red)
	require.NoError(t, err)

	cancel()
	_, err = m.Wait(context.Background())
	assert.True(t, engine.IsInterruption(err))
	assert.False(t, v.MixButtonPressed())
	assert.NotEqual(t, ContentMixed, v.ContentState())
}

func TestDispersalSkipsIngredientsThatLeft(t *testing.T) {
	v, mock, _ := newTestVessel(t)
	reds := newTestPool(t, mock, "red", red)

	a, _ := reds.Acquire(core.Transform{})
	b, _ := reds.Acquire(core.Transform{})
	_, err := v.Enter(a)
	require.NoError(t, err)
	_, err = v.Enter(b)
	require.NoError(t, err)

	m, err := v.BeginMix(context.Background(), v.Colors(), red)
	require.NoError(t, err)

	// b leaves mid-mix, is released by its owner and reissued to the shelf
	require.True(t, v.Exit(b))
	require.True(t, b.Release())
	shelf, err := reds.Acquire(core.Transform{})
	require.NoError(t, err)
	require.Same(t, b, shelf)

	drive(t, mock, m.Done(), 50*time.Millisecond)
	_, err = m.Wait(context.Background())
	require.NoError(t, err)

	assert.True(t, shelf.CheckedOut(), "reissued handle stays with its new owner")
	assert.True(t, shelf.Interactable())
	assert.Equal(t, 1, reds.Active())
	assert.Equal(t, 0, v.Count())
}

func TestResetContent(t *testing.T) {
	v, mock, reg := newTestVessel(t)
	reds := newTestPool(t, mock, "red", red)
	r, _ := reds.Acquire(core.Transform{})
	_, err := v.Enter(r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reg.Int("vessel.count"))

	done := make(chan struct{})
	var resetErr error
	go func() {
		resetErr = v.ResetContent(context.Background())
		close(done)
	}()
	drive(t, mock, done, 100*time.Millisecond)

	require.NoError(t, resetErr)
	assert.Equal(t, 0, v.Count())
	assert.Equal(t, 0, reds.Active())
	assert.False(t, r.CheckedOut())
	assert.Equal(t, 0.0, v.Fill())
	assert.Equal(t, ContentEmpty, v.ContentState())
	assert.Equal(t, core.Clear, v.PreviewColor())
	assert.Equal(t, int64(0), reg.Int("vessel.count"))
}

func TestResetTransform(t *testing.T) {
	v, mock, _ := newTestVessel(t)
	home := v.Transform()

	// Already home resolves immediately
	require.NoError(t, v.ResetTransform(context.Background()))

	knocked := home
	knocked.Position = core.Vec3{X: 2, Y: 1}
	v.SetTransform(knocked)
	assert.Equal(t, knocked, v.Transform())

	done := make(chan struct{})
	go func() {
		assert.NoError(t, v.ResetTransform(context.Background()))
		close(done)
	}()
	drive(t, mock, done, 50*time.Millisecond)

	assert.Equal(t, home, v.Transform())
	assert.Equal(t, pool.Physics{}, v.Physics())
}

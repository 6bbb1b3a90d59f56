package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads s to completion and returns the sample count and peak amplitude
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Abs(smp[0]))
			assert.Equal(t, smp[0], smp[1], "cues are mono")
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer did not finish")
	return 0, 0
}

func TestEveryCueIsFiniteAndAudible(t *testing.T) {
	sr := beep.SampleRate(44100)

	for _, cue := range Cues {
		t.Run(string(cue), func(t *testing.T) {
			s, ok := Stream(cue, sr)
			require.True(t, ok)

			n, peak := drain(t, s)
			assert.Greater(t, n, 0)
			assert.Less(t, n, sr.N(2e9))
			assert.Greater(t, peak, 0.001)
			assert.LessOrEqual(t, peak, 1.0)
		})
	}

	_, ok := Stream(Cue("nope"), sr)
	assert.False(t, ok)
}

func TestVolumeScalesCue(t *testing.T) {
	loud := NewSoundManager(1, zerolog.Nop())
	quiet := NewSoundManager(0.25, zerolog.Nop())
	mute := NewSoundManager(0, zerolog.Nop())

	ls, ok := loud.streamer(CueSuccess)
	require.True(t, ok)
	qs, ok := quiet.streamer(CueSuccess)
	require.True(t, ok)
	ms, ok := mute.streamer(CueSuccess)
	require.True(t, ok)

	_, lp := drain(t, ls)
	_, qp := drain(t, qs)
	_, mp := drain(t, ms)

	assert.InDelta(t, lp*0.25, qp, 1e-9)
	assert.Equal(t, 0.0, mp)
}

// Operations must be safe without an audio device
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(0.5, zerolog.Nop())

	assert.NotPanics(t, func() {
		for _, cue := range Cues {
			sm.Play(cue)
		}
		sm.Play(Cue("nope"))
		sm.Cleanup()
		Silent{}.Play(CueMix)
	})
}

func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager(0.5, zerolog.Nop())

	if err := sm.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}
	// Second initialization is a no-op
	assert.NoError(t, sm.Initialize())
	sm.Play(CueDrop)
	sm.Cleanup()
}

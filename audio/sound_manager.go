// Package audio synthesizes the short cues played on lid, drop and mix events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/color-mixer/parameter"
)

// SoundManager plays cues through a shared mixer on the speaker
// Every Play is a no-op until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool
	log         zerolog.Logger
}

// NewSoundManager creates a sound manager, volume is linear gain in [0,1]
func NewSoundManager(volume float64, log zerolog.Logger) *SoundManager {
	return &SoundManager{
		sr:     beep.SampleRate(parameter.AudioSampleRate),
		volume: math.Min(math.Max(volume, 0), 1),
		mixer:  &beep.Mixer{},
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// Initialize opens the speaker; failure leaves the manager silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.sr, sm.sr.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Play mixes cue in; unknown cues are logged and dropped
func (sm *SoundManager) Play(cue Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	s, ok := sm.streamer(cue)
	if !ok {
		sm.log.Warn().Str("cue", string(cue)).Msg("unknown cue")
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// streamer builds the volume-scaled cue stream
func (sm *SoundManager) streamer(cue Cue) (beep.Streamer, bool) {
	s, ok := Stream(cue, sm.sr)
	if !ok {
		return nil, false
	}
	if sm.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}, true
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(sm.volume)}, true
}

// Silent is a cue sink that plays nothing, used when audio is disabled
type Silent struct{}

func (Silent) Play(Cue) {}

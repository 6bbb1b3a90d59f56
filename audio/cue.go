package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue names a short sound played on a game event
type Cue string

const (
	CueLidOpen  Cue = "lid_open"
	CueLidClose Cue = "lid_close"
	CueDrop     Cue = "drop"
	CueMix      Cue = "mix"
	CueSuccess  Cue = "success"
	CueFailure  Cue = "failure"
	CueError    Cue = "error"
)

// Cues lists every known cue
var Cues = []Cue{CueLidOpen, CueLidClose, CueDrop, CueMix, CueSuccess, CueFailure, CueError}

// Stream builds a finite streamer for cue at sr, false for unknown cues
func Stream(cue Cue, sr beep.SampleRate) (beep.Streamer, bool) {
	switch cue {
	case CueLidOpen:
		return beep.Take(sr.N(180*time.Millisecond), NewChirpGenerator(sr, 220, 440)), true
	case CueLidClose:
		return beep.Take(sr.N(180*time.Millisecond), NewChirpGenerator(sr, 440, 220)), true
	case CueDrop:
		return beep.Take(sr.N(120*time.Millisecond), NewNoiseGenerator(sr, 1)), true
	case CueMix:
		return beep.Take(sr.N(600*time.Millisecond), NewRumbleGenerator(sr)), true
	case CueSuccess:
		return beep.Seq(
			beep.Take(sr.N(120*time.Millisecond), NewToneGenerator(sr, 523.25)),
			beep.Take(sr.N(120*time.Millisecond), NewToneGenerator(sr, 659.25)),
			beep.Take(sr.N(240*time.Millisecond), NewToneGenerator(sr, 783.99)),
		), true
	case CueFailure:
		return beep.Seq(
			beep.Take(sr.N(200*time.Millisecond), NewToneGenerator(sr, 392)),
			beep.Take(sr.N(300*time.Millisecond), NewToneGenerator(sr, 311.13)),
		), true
	case CueError:
		return beep.Take(sr.N(150*time.Millisecond), NewBuzzGenerator(sr, 120)), true
	}
	return nil, false
}

package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// ToneGenerator is a sine tone with a short attack and exponential release
type ToneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewToneGenerator creates a tone generator
func NewToneGenerator(sr beep.SampleRate, freq float64) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Min(t/0.01, 1.0) * math.Exp(-t*6)
		sample := 0.3 * envelope * math.Sin(2*math.Pi*g.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// ChirpGenerator sweeps linearly from one frequency to another over 200ms
type ChirpGenerator struct {
	sr       beep.SampleRate
	from, to float64
	pos      int
	phase    float64
}

// NewChirpGenerator creates a sweep generator
func NewChirpGenerator(sr beep.SampleRate, from, to float64) *ChirpGenerator {
	return &ChirpGenerator{sr: sr, from: from, to: to}
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		p := math.Min(t/0.2, 1.0)
		freq := g.from + (g.to-g.from)*p

		// Integrate phase so the sweep stays continuous
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		envelope := math.Min(t/0.01, 1.0) * (1 - p*0.8)
		sample := 0.2 * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error {
	return nil
}

// NoiseGenerator is a decaying burst of filtered noise, a soft thud
type NoiseGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
	prev float64
}

// NewNoiseGenerator creates a noise generator with a fixed seed
func NewNoiseGenerator(sr beep.SampleRate, seed int64) *NoiseGenerator {
	return &NoiseGenerator{sr: sr, seed: seed}
}

func (g *NoiseGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 30)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		// One-pole low-pass
		g.prev += 0.15 * (noise - g.prev)
		sample := envelope * (0.5*g.prev + 0.3*math.Sin(2*math.Pi*90*t))

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *NoiseGenerator) Err() error {
	return nil
}

// RumbleGenerator is a low wobbling drone for the blender motor
type RumbleGenerator struct {
	sr  beep.SampleRate
	pos int
}

// NewRumbleGenerator creates a rumble generator
func NewRumbleGenerator(sr beep.SampleRate) *RumbleGenerator {
	return &RumbleGenerator{sr: sr}
}

func (g *RumbleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := 70 + 15*math.Sin(2*math.Pi*6*t)
		sample := 0.2 * math.Min(t/0.05, 1.0) * math.Sin(2*math.Pi*freq*t)
		sample += 0.05 * math.Sin(2*math.Pi*freq*2*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *RumbleGenerator) Err() error {
	return nil
}

// BuzzGenerator generates a low-pitch buzz sound
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.0
		sample += 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}

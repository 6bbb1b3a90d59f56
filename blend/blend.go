// Package blend computes running and final color mixes and scores them against a target.
// All functions are pure and deterministic.
package blend

import (
	"math"

	"github.com/lixenwraith/color-mixer/core"
)

// maxDistance is the RGB distance between white and black, the diagonal of the unit cube
var maxDistance = core.White.Colorful().DistanceRgb(core.Black.Colorful())

// Counted pairs a color with how many units of it go into a mix
type Counted struct {
	Color core.Color
	Count int
}

// RunningMix returns the incremental average as colors arrive
// The i-th output is the mean of the first i+1 inputs with alpha forced to 1,
// so the path depends on arrival order even though the last element does not
func RunningMix(colors []core.Color) []core.Color {
	steps := make([]core.Color, len(colors))
	sum := core.Clear
	for i, c := range colors {
		sum = sum.Add(c)
		steps[i] = sum.Scale(1 / float64(i+1)).Opaque()
	}
	return steps
}

// FinalMix returns the count-weighted average with alpha forced to 1
// Zero total weight yields white; non-positive counts contribute nothing
func FinalMix(items []Counted) core.Color {
	total := core.Clear
	weights := 0
	for _, it := range items {
		if it.Count <= 0 {
			continue
		}
		total = total.Add(it.Color.Scale(float64(it.Count)))
		weights += it.Count
	}
	if weights == 0 {
		return core.White
	}
	return total.Scale(1 / float64(weights)).Opaque()
}

// Similarity maps the RGB distance of a and b into [0,1], 1 meaning identical
// Alpha is ignored
func Similarity(a, b core.Color) float64 {
	d := a.Colorful().DistanceRgb(b.Colorful())
	s := 1 - d/maxDistance
	return math.Min(math.Max(s, 0), 1)
}

// MixResult is the outcome of one mix invocation
type MixResult struct {
	FinalColor  core.Color
	TargetColor core.Color
	Similarity  float64
}

// Score builds the result of mixing final against target
func Score(final, target core.Color) MixResult {
	return MixResult{
		FinalColor:  final,
		TargetColor: target,
		Similarity:  Similarity(final, target),
	}
}

// Percent returns the similarity as a floored percentage
func (r MixResult) Percent() int {
	return int(math.Floor(r.Similarity * 100))
}

// Passed reports whether the similarity reaches threshold
func (r MixResult) Passed(threshold float64) bool {
	return r.Similarity >= threshold
}

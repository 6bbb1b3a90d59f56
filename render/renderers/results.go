package renderers

import (
	"fmt"

	"github.com/lixenwraith/color-mixer/render"
)

// ResultsRenderer slides the results panel in with the camera
type ResultsRenderer struct{}

// NewResultsRenderer creates the results panel renderer
func NewResultsRenderer() *ResultsRenderer {
	return &ResultsRenderer{}
}

// IsVisible implements render.VisibilityToggle
func (r *ResultsRenderer) IsVisible(ctx render.RenderContext) bool {
	v := ctx.Scene.View
	return v.Result != nil && v.Camera > 0
}

// Render implements render.SystemRenderer
func (r *ResultsRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	v := ctx.Scene.View
	rect := render.ComputeLayout(ctx.Width, ctx.Height).Results

	// Offscreen at camera 0, in place at 1
	offset := int(float64(ctx.Width-rect.X) * (1 - v.Camera))
	x := rect.X + offset

	buf.Fill(x, rect.Y, rect.W, rect.H, ' ', render.RGBText, render.DefaultBgRGB)
	buf.Box(x, rect.Y, rect.W, rect.H, render.RGBFrame)
	buf.SetString(x+2, rect.Y, " RESULT ", render.RGBText)

	final := render.FromColor(v.Result.FinalColor, render.DefaultBgRGB)
	target := render.FromColor(v.Result.TargetColor, render.DefaultBgRGB)
	buf.SetString(x+2, rect.Y+2, "yours", render.RGBText)
	buf.Fill(x+9, rect.Y+2, 6, 1, '█', final, render.DefaultBgRGB)
	buf.SetString(x+2, rect.Y+3, "order", render.RGBText)
	buf.Fill(x+9, rect.Y+3, 6, 1, '█', target, render.DefaultBgRGB)

	buf.SetString(x+2, rect.Y+5, fmt.Sprintf("match %d%%", v.Result.Percent()), render.RGBText)
	if v.Passed {
		buf.SetString(x+2, rect.Y+6, "PASSED  n: next  r: retry", render.RGBPass)
	} else {
		buf.SetString(x+2, rect.Y+6, "FAILED  r: retry", render.RGBFail)
	}
}

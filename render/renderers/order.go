package renderers

import (
	"fmt"

	"github.com/lixenwraith/color-mixer/render"
)

// OrderRenderer draws the target swatch and the recipe
type OrderRenderer struct{}

// NewOrderRenderer creates the order panel renderer
func NewOrderRenderer() *OrderRenderer {
	return &OrderRenderer{}
}

// Render implements render.SystemRenderer
func (r *OrderRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	rect := render.ComputeLayout(ctx.Width, ctx.Height).Order
	view := ctx.Scene.View

	buf.Box(rect.X, rect.Y, rect.W, rect.H, render.RGBFrame)
	buf.SetString(rect.X+2, rect.Y, " ORDER ", render.RGBText)

	name := view.Level.Name
	if name == "" {
		name = "-"
	}
	buf.SetString(rect.X+2, rect.Y+1, name, render.RGBText)

	target := render.FromColor(view.Target, render.DefaultBgRGB)
	buf.Fill(rect.X+2, rect.Y+2, rect.W-4, 3, '█', target, render.DefaultBgRGB)

	row := rect.Y + 6
	for _, e := range view.Level.Entries {
		if row >= rect.Y+rect.H-1 {
			break
		}
		buf.SetFg(rect.X+2, row, '■', render.FromColor(e.Color, render.DefaultBgRGB))
		buf.SetString(rect.X+4, row, fmt.Sprintf("%d× %s", e.Count, e.Name), render.RGBText)
		row++
	}
}

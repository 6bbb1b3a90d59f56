package renderers

import (
	"fmt"

	"github.com/lixenwraith/color-mixer/render"
)

const slotWidth = 14

// ShelfRenderer draws the shelf slots with their key hints
type ShelfRenderer struct{}

// NewShelfRenderer creates the shelf renderer
func NewShelfRenderer() *ShelfRenderer {
	return &ShelfRenderer{}
}

// Render implements render.SystemRenderer
func (r *ShelfRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	rect := render.ComputeLayout(ctx.Width, ctx.Height).Shelf

	buf.Box(rect.X, rect.Y, rect.W, rect.H, render.RGBFrame)
	buf.SetString(rect.X+2, rect.Y, " SHELF ", render.RGBText)

	for i, slot := range ctx.Scene.Shelf {
		x := rect.X + 2 + i*slotWidth
		if x+slotWidth > rect.X+rect.W {
			break
		}
		y := rect.Y + 1

		buf.SetString(x, y, fmt.Sprintf("[%d]", slot.Index+1), render.RGBText)
		if slot.Ready {
			buf.SetFg(x+4, y, '●', render.FromColor(slot.Color, render.DefaultBgRGB))
			buf.SetString(x, y+1, slot.Kind, render.RGBText)
		} else {
			buf.SetFg(x+4, y, '○', render.RGBDim)
			buf.SetString(x, y+1, slot.Kind, render.RGBDim)
		}
	}
}

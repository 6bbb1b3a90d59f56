package renderers

import (
	"fmt"
	"math"

	"github.com/lixenwraith/color-mixer/render"
	"github.com/lixenwraith/color-mixer/vessel"
)

// VesselRenderer draws the lid, the liquid and the loose ingredients
type VesselRenderer struct{}

// NewVesselRenderer creates the vessel renderer
func NewVesselRenderer() *VesselRenderer {
	return &VesselRenderer{}
}

// Render implements render.SystemRenderer
func (r *VesselRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	rect := render.ComputeLayout(ctx.Width, ctx.Height).Vessel
	s := ctx.Scene

	buf.Box(rect.X, rect.Y, rect.W, rect.H, render.RGBFrame)
	buf.SetString(rect.X+2, rect.Y, " VESSEL ", render.RGBText)

	innerX, innerW := rect.X+1, rect.W-2

	// Lid slides to the right as it opens
	lidRow := rect.Y + 1
	covered := int(math.Round(float64(innerW) * (1 - s.Openness)))
	for i := 0; i < covered; i++ {
		buf.SetFg(innerX+innerW-covered+i, lidRow, '▀', render.RGBText)
	}
	buf.SetString(innerX+1, lidRow+1, s.Lid.String(), render.RGBDim)

	// Liquid rises from the bottom
	bodyTop := lidRow + 2
	bodyRows := rect.Y + rect.H - 1 - bodyTop - 1
	liquid := render.FromColor(s.Color, render.DefaultBgRGB)
	filled := int(math.Round(float64(bodyRows) * s.Fill))
	glyph := '█'
	if s.Agitating && ctx.Now.UnixMilli()/150%2 == 0 {
		glyph = '▓'
	}
	for i := 0; i < filled; i++ {
		row := bodyTop + bodyRows - 1 - i
		buf.Fill(innerX+1, row, innerW-2, 1, glyph, liquid, render.DefaultBgRGB)
	}

	// Loose ingredients sit above the liquid until mixed
	if s.Content == vessel.ContentFilling && filled == 0 {
		row := bodyTop + bodyRows - 1
		for i := 0; i < s.View.Count && i < innerW-2; i++ {
			buf.SetFg(innerX+1+i, row, '●', liquid)
		}
	}

	label := s.Content.String()
	if s.View.Count > 0 {
		label = fmt.Sprintf("%s (%d)", label, s.View.Count)
	}
	buf.SetString(innerX+1, rect.Y+rect.H-2, label, render.RGBDim)
}

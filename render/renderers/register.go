// Package renderers holds the scene elements drawn by the render pipeline
package renderers

import "github.com/lixenwraith/color-mixer/render"

// RegisterAll adds every scene renderer to o
func RegisterAll(o *render.RenderOrchestrator, help string) {
	o.Register(NewOrderRenderer(), render.PriorityOrder)
	o.Register(NewVesselRenderer(), render.PriorityVessel)
	o.Register(NewShelfRenderer(), render.PriorityShelf)
	o.Register(NewResultsRenderer(), render.PriorityResults)
	o.Register(NewStatusBarRenderer(help), render.PriorityUI)
}

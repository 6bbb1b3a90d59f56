package render

import (
	"time"

	"github.com/lixenwraith/color-mixer/core"
	"github.com/lixenwraith/color-mixer/orchestrator"
	"github.com/lixenwraith/color-mixer/status"
	"github.com/lixenwraith/color-mixer/vessel"
)

// RenderContext provides frame state for renderers, passed by value
type RenderContext struct {
	Now    time.Time
	Width  int
	Height int
	Scene  *Scene
}

// Scene is everything drawn in one frame, captured under the owners' locks
type Scene struct {
	Phase string
	Shelf []orchestrator.SlotView

	// Vessel
	Lid       vessel.LidState
	Openness  float64
	Fill      float64
	Color     core.Color
	Content   vessel.ContentState
	Agitating bool

	View   ViewState
	Status []status.Metric
	Muted  bool
}

// SceneSource is the read side of a running session
type SceneSource interface {
	Phase() string
	Shelf() []orchestrator.SlotView
	Vessel() *vessel.Vessel
}

// Capture snapshots src, view and reg into a Scene
func Capture(src SceneSource, view *TerminalView, reg *status.Registry) *Scene {
	v := src.Vessel()
	s := &Scene{
		Phase:     src.Phase(),
		Shelf:     src.Shelf(),
		Lid:       v.LidState(),
		Openness:  v.Lid().Openness(),
		Fill:      v.Fill(),
		Color:     v.PreviewColor(),
		Content:   v.ContentState(),
		Agitating: v.Agitating(),
		View:      view.State(),
	}
	if reg != nil {
		s.Status = reg.Snapshot()
	}
	return s
}

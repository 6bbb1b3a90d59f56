package renderers

import (
	"strings"

	"github.com/lixenwraith/color-mixer/render"
)

// HelpText lists the default key bindings
const HelpText = "1-9 place  space mix  x eject  r restart  n next  s mute  q quit"

// StatusBarRenderer draws the help line, the current notice and the metrics row
type StatusBarRenderer struct {
	help string
}

// NewStatusBarRenderer creates the status bar renderer
func NewStatusBarRenderer(help string) *StatusBarRenderer {
	return &StatusBarRenderer{help: help}
}

// Render implements render.SystemRenderer
func (r *StatusBarRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	l := render.ComputeLayout(ctx.Width, ctx.Height)
	s := ctx.Scene

	buf.SetString(1, l.Help, r.help, render.RGBDim)

	if s.View.Notice != "" {
		buf.SetString(1, l.Notice, s.View.Notice, render.RGBNotice)
	}

	var sb strings.Builder
	sb.WriteString(s.Phase)
	for _, m := range s.Status {
		sb.WriteString("  ")
		sb.WriteString(m.Key)
		sb.WriteByte('=')
		sb.WriteString(m.Value)
	}
	if s.Muted {
		sb.WriteString("  [muted]")
	}
	buf.Fill(0, l.Status, ctx.Width, 1, ' ', render.RGBText, render.RGBFrame)
	buf.SetString(1, l.Status, sb.String(), render.RGBWhite)
}

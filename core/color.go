package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA color with channels in [0,1]
type Color struct {
	R, G, B, A float64
}

// Predefined colors
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Clear = Color{0, 0, 0, 0}
)

// RGB builds an opaque color
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// ParseHex parses "#rrggbb" into an opaque color
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, alpha set to 1
func FromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// Colorful drops alpha and returns the go-colorful representation
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Hex formats RGB channels as "#rrggbb", alpha ignored
func (c Color) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// RGB255 returns 8-bit channels for terminal output
func (c Color) RGB255() (r, g, b uint8) {
	return c.Colorful().Clamped().RGB255()
}

// Add sums channels including alpha
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale multiplies every channel including alpha
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A * f}
}

// Opaque returns the color with alpha forced to 1
func (c Color) Opaque() Color {
	c.A = 1
	return c
}

// Lerp interpolates RGB towards o by t in [0,1], result is opaque
func (c Color) Lerp(o Color, t float64) Color {
	if t <= 0 {
		return c.Opaque()
	}
	if t >= 1 {
		return o.Opaque()
	}
	return FromColorful(c.Colorful().BlendRgb(o.Colorful(), t))
}

func (c Color) String() string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f,%.3f)", c.R, c.G, c.B, c.A)
}

package render

import (
	"github.com/lixenwraith/color-mixer/core"
)

// RGB is an 8-bit terminal color
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack     = RGB{0, 0, 0}
	RGBWhite     = RGB{255, 255, 255}
	DefaultBgRGB = RGB{26, 27, 38}
	RGBFrame     = RGB{86, 95, 137}
	RGBText      = RGB{192, 202, 245}
	RGBDim       = RGB{84, 92, 126}
	RGBPass      = RGB{158, 206, 106}
	RGBFail      = RGB{247, 118, 142}
	RGBNotice    = RGB{224, 175, 104}
)

// FromColor converts a scene color, alpha composited over bg
func FromColor(c core.Color, bg RGB) RGB {
	r, g, b := c.RGB255()
	fg := RGB{r, g, b}
	if c.A >= 1 {
		return fg
	}
	return Blend(bg, fg, c.A)
}

// clamp converts float to uint8
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}

// Blend mixes src over dst with alpha in [0,1]
func Blend(dst, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1 - alpha
	return RGB{
		R: clamp(float64(dst.R)*inv + float64(src.R)*alpha),
		G: clamp(float64(dst.G)*inv + float64(src.G)*alpha),
		B: clamp(float64(dst.B)*inv + float64(src.B)*alpha),
	}
}

// Contrast returns black or white, whichever reads better on c
func Contrast(c RGB) RGB {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if lum > 140 {
		return RGBBlack
	}
	return RGBWhite
}

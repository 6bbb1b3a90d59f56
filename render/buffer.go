package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal position
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

var emptyCell = Cell{Rune: ' ', Fg: RGBText, Bg: DefaultBgRGB}

// RenderBuffer is a compositor backed by a Cell array
type RenderBuffer struct {
	cells  []Cell
	width  int
	height int
}

// NewRenderBuffer creates a buffer with the specified dimensions
func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = emptyCell
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Bounds returns buffer dimensions
func (b *RenderBuffer) Bounds() (int, int) {
	return b.width, b.height
}

func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at x,y, empty cell if out of bounds
func (b *RenderBuffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return emptyCell
	}
	return b.cells[y*b.width+x]
}

// Set writes a cell, ignoring out of bounds positions
func (b *RenderBuffer) Set(x, y int, r rune, fg, bg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Fg: fg, Bg: bg}
}

// SetFg replaces rune and foreground, keeping the background already drawn
func (b *RenderBuffer) SetFg(x, y int, r rune, fg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Fg = fg
}

// SetString writes s from x,y keeping existing backgrounds, returns the columns used
func (b *RenderBuffer) SetString(x, y int, s string, fg RGB) int {
	col := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.SetFg(col, y, r, fg)
		col += w
	}
	return col - x
}

// Fill paints a rectangle with r on bg
func (b *RenderBuffer) Fill(x, y, w, h int, r rune, fg, bg RGB) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			b.Set(col, row, r, fg, bg)
		}
	}
}

// Box draws a single-line frame around the rectangle
func (b *RenderBuffer) Box(x, y, w, h int, fg RGB) {
	if w < 2 || h < 2 {
		return
	}
	for col := x + 1; col < x+w-1; col++ {
		b.SetFg(col, y, '─', fg)
		b.SetFg(col, y+h-1, '─', fg)
	}
	for row := y + 1; row < y+h-1; row++ {
		b.SetFg(x, row, '│', fg)
		b.SetFg(x+w-1, row, '│', fg)
	}
	b.SetFg(x, y, '┌', fg)
	b.SetFg(x+w-1, y, '┐', fg)
	b.SetFg(x, y+h-1, '└', fg)
	b.SetFg(x+w-1, y+h-1, '┘', fg)
}

// FlushToScreen copies the buffer to screen and shows it
func (b *RenderBuffer) FlushToScreen(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			screen.SetContent(x, y, c.Rune, nil, Style(c.Fg, c.Bg))
		}
	}
	screen.Show()
}

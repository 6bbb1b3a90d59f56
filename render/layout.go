package render

// Rect is a screen rectangle
type Rect struct {
	X, Y, W, H int
}

// Layout places every panel for a screen size
type Layout struct {
	Order   Rect
	Vessel  Rect
	Shelf   Rect
	Results Rect
	Help    int
	Notice  int
	Status  int
}

// Panel dimensions
const (
	OrderWidth    = 26
	VesselWidth   = 20
	PanelHeight   = 12
	ShelfHeight   = 4
	ResultsWidth  = 32
	ResultsHeight = 9
)

// ComputeLayout arranges panels top-down: order and vessel side by side,
// the shelf below them and three text rows at the bottom
func ComputeLayout(w, h int) Layout {
	return Layout{
		Order:   Rect{X: 1, Y: 1, W: OrderWidth, H: PanelHeight},
		Vessel:  Rect{X: OrderWidth + 3, Y: 1, W: VesselWidth, H: PanelHeight},
		Shelf:   Rect{X: 1, Y: PanelHeight + 2, W: max(w-2, 0), H: ShelfHeight},
		Results: Rect{X: max(w-ResultsWidth-1, 0), Y: 2, W: ResultsWidth, H: ResultsHeight},
		Help:    h - 3,
		Notice:  h - 2,
		Status:  h - 1,
	}
}

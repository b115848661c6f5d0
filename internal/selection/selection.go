// Package selection maps a pointer inside the toolbar to a tool change.
package selection

import (
	"image"
	"image/color"
)

// ColorSwatch is one entry of the colour strip.
type ColorSwatch struct {
	Index  int
	Name   string
	Color  color.RGBA
	Bounds image.Rectangle
}

// BrushSwatch is one entry of the brush-size panel.
type BrushSwatch struct {
	Index  int
	Size   int
	Bounds image.Rectangle
}

// Geometry supplies the toolbar layout. BrushSwatches is empty while the
// brush panel is hidden.
type Geometry interface {
	ColorSwatches() []ColorSwatch
	BrushSwatches() []BrushSwatch
}

// Router resolves pointer positions against a Geometry.
type Router struct {
	geometry Geometry
}

// NewRouter creates a Router over g.
func NewRouter(g Geometry) *Router {
	return &Router{geometry: g}
}

// ResolveColorPick returns the colour swatch under p.
func (r *Router) ResolveColorPick(p image.Point) (ColorSwatch, bool) {
	for _, s := range r.geometry.ColorSwatches() {
		if p.In(s.Bounds) {
			return s, true
		}
	}
	return ColorSwatch{}, false
}

// ResolveBrushSizePick returns the brush swatch under p.
func (r *Router) ResolveBrushSizePick(p image.Point) (BrushSwatch, bool) {
	for _, s := range r.geometry.BrushSwatches() {
		if p.In(s.Bounds) {
			return s, true
		}
	}
	return BrushSwatch{}, false
}

// Strip lays out n equal colour swatches of width/n across a strip. Pixels
// left over by the division belong to no swatch.
func Strip(colors []color.RGBA, names []string, width, height int) []ColorSwatch {
	n := len(colors)
	if n == 0 || width <= 0 || height <= 0 {
		return nil
	}

	w := width / n
	swatches := make([]ColorSwatch, n)
	for i, c := range colors {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		swatches[i] = ColorSwatch{
			Index:  i,
			Name:   name,
			Color:  c,
			Bounds: image.Rect(i*w, 0, (i+1)*w, height),
		}
	}
	return swatches
}

// Brush panel layout.
const (
	PanelWidth   = 150
	PanelHeight  = 40
	PanelMargin  = 160
	PanelOffset  = 5
	SwatchWidth  = 20
	SwatchHeight = 15
	SwatchPitch  = 25
	MaxSwatches  = 6
)

// Panel returns the bounds of the brush panel for a frame width and header height.
func Panel(frameWidth, header int) image.Rectangle {
	x := frameWidth - PanelMargin
	y := header + PanelOffset
	return image.Rect(x, y, x+PanelWidth, y+PanelHeight)
}

// Brushes lays out up to six brush swatches inside panel.
func Brushes(sizes []int, panel image.Rectangle) []BrushSwatch {
	n := len(sizes)
	if n > MaxSwatches {
		n = MaxSwatches
	}

	swatches := make([]BrushSwatch, n)
	for i := 0; i < n; i++ {
		x := panel.Min.X + 10 + i*SwatchPitch
		y := panel.Min.Y + 15
		swatches[i] = BrushSwatch{
			Index:  i,
			Size:   sizes[i],
			Bounds: image.Rect(x, y, x+SwatchWidth, y+SwatchHeight),
		}
	}
	return swatches
}

// Package ui draws the toolbar, status and overlays onto the composite frame.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"gocv.io/x/gocv"
	"golang.org/x/image/colornames"

	"github.com/ayusman/tulika/internal/canvas"
	"github.com/ayusman/tulika/internal/config"
	"github.com/ayusman/tulika/internal/mode"
	"github.com/ayusman/tulika/internal/selection"
)

// Overlay is the full-screen panel currently shown, if any.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayInfo
)

// Config holds HUD settings.
type Config struct {
	Width        int
	Height       int
	HeaderHeight int
	Palette      []config.PaletteColor
	BrushSizes   []int
	ShowFPS      bool
	ShowModeText bool
	BrushPanel   bool
}

// ConfigFrom derives a HUD config from the application config.
func ConfigFrom(c config.Config) Config {
	return Config{
		Width:        c.Canvas.Width,
		Height:       c.Canvas.Height,
		HeaderHeight: c.UI.HeaderHeight,
		Palette:      c.Palette,
		BrushSizes:   c.Brush.Sizes,
		ShowFPS:      c.UI.ShowFPS,
		ShowModeText: c.UI.ShowModeText,
		BrushPanel:   c.UI.BrushPanelVisible,
	}
}

// State is what the HUD shows for one frame.
type State struct {
	Info canvas.Info
	Tool canvas.Tool
	// Feedback is the selection rectangle, empty when not selecting.
	Feedback image.Rectangle
	FPS      float64
	// Jitter is the standard deviation of the frame time.
	Jitter time.Duration
}

var (
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black     = color.RGBA{A: 255}
	highlight = colornames.Yellow
	panelGray = color.RGBA{R: 50, G: 50, B: 50, A: 255}
)

const font = gocv.FontHersheySimplex

// HUD renders the toolbar and implements selection.Geometry.
// It is used from the frame loop only.
type HUD struct {
	config     Config
	colors     []selection.ColorSwatch
	brushes    []selection.BrushSwatch
	brushPanel bool
	overlay    Overlay
}

// New creates a HUD.
func New(config Config) *HUD {
	colors := make([]color.RGBA, len(config.Palette))
	names := make([]string, len(config.Palette))
	for i, p := range config.Palette {
		colors[i] = p.Color
		names[i] = p.Name
	}

	return &HUD{
		config:     config,
		colors:     selection.Strip(colors, names, config.Width, config.HeaderHeight),
		brushes:    selection.Brushes(config.BrushSizes, selection.Panel(config.Width, config.HeaderHeight)),
		brushPanel: config.BrushPanel,
	}
}

// ColorSwatches returns the colour strip layout.
func (h *HUD) ColorSwatches() []selection.ColorSwatch {
	return h.colors
}

// BrushSwatches returns the brush panel layout, or nil while it is hidden.
func (h *HUD) BrushSwatches() []selection.BrushSwatch {
	if !h.brushPanel {
		return nil
	}
	return h.brushes
}

// ToggleBrushPanel shows or hides the brush panel and returns the new state.
func (h *HUD) ToggleBrushPanel() bool {
	h.brushPanel = !h.brushPanel
	return h.brushPanel
}

// ToggleHelp shows or hides the help overlay. It replaces the info overlay.
func (h *HUD) ToggleHelp() bool {
	return h.toggle(OverlayHelp)
}

// ToggleInfo shows or hides the info overlay. It replaces the help overlay.
func (h *HUD) ToggleInfo() bool {
	return h.toggle(OverlayInfo)
}

func (h *HUD) toggle(o Overlay) bool {
	if h.overlay == o {
		h.overlay = OverlayNone
		return false
	}
	h.overlay = o
	return true
}

// Overlay returns the overlay being shown.
func (h *HUD) Overlay() Overlay {
	return h.overlay
}

// ColorName returns the palette name of c, or its hex triple.
func (h *HUD) ColorName(c color.RGBA) string {
	for _, s := range h.colors {
		if s.Color == c && s.Name != "" {
			return s.Name
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Draw renders the HUD onto frame in place.
func (h *HUD) Draw(frame *gocv.Mat, s State) {
	if !s.Feedback.Empty() {
		gocv.Rectangle(frame, s.Feedback, s.Tool.Color, -1)
	}

	h.drawHeader(frame, s.Tool)
	if h.brushPanel {
		h.drawBrushPanel(frame, s.Tool)
	}
	h.drawModeStatus(frame, s.Info)

	if h.config.ShowModeText && s.Info.Mode != mode.Idle {
		gocv.PutText(frame, modeLabel(s.Info.Mode)+" Mode", image.Pt(10, 130), font, 0.7, white, 2)
	}
	if h.config.ShowFPS {
		gocv.PutText(frame, fmt.Sprintf("FPS: %d", int(s.FPS)), image.Pt(h.config.Width-120, 25), font, 0.5, colornames.Cyan, 1)
	}

	switch h.overlay {
	case OverlayHelp:
		h.drawPanel(frame, helpLines(), "Help Mode - Press 'H' to exit")
	case OverlayInfo:
		h.drawPanel(frame, h.infoLines(s), "Info Mode - Press 'I' to exit")
	}
}

func (h *HUD) drawHeader(frame *gocv.Mat, tool canvas.Tool) {
	for _, sw := range h.colors {
		gocv.Rectangle(frame, sw.Bounds, sw.Color, -1)
		gocv.Rectangle(frame, sw.Bounds, white, 2)

		text := black
		if sw.Color == black {
			text = white
		}
		gocv.PutText(frame, sw.Name, sw.Bounds.Min.Add(image.Pt(3, 20)), font, 0.4, text, 1)

		if !tool.Eraser && sw.Color == tool.Color {
			gocv.Rectangle(frame, sw.Bounds, highlight, 2)
		}
	}
}

func (h *HUD) drawBrushPanel(frame *gocv.Mat, tool canvas.Tool) {
	panel := selection.Panel(h.config.Width, h.config.HeaderHeight)
	gocv.Rectangle(frame, panel, black, -1)
	gocv.Rectangle(frame, panel, white, 1)
	gocv.PutText(frame, "Brush Size:", panel.Min.Add(image.Pt(5, 12)), font, 0.4, white, 1)

	for _, b := range h.brushes {
		gocv.Rectangle(frame, b.Bounds, panelGray, -1)

		radius := b.Size / 10
		if radius < 1 {
			radius = 1
		}
		if radius > 6 {
			radius = 6
		}
		center := b.Bounds.Min.Add(image.Pt(b.Bounds.Dx()/2, b.Bounds.Dy()/2))
		gocv.Circle(frame, center, radius, white, -1)

		if !tool.Eraser && b.Size == tool.Size {
			gocv.Rectangle(frame, b.Bounds, highlight, 1)
		}
	}
}

func (h *HUD) drawModeStatus(frame *gocv.Mat, info canvas.Info) {
	text := "Mode: " + modeLabel(info.Mode)
	if info.Eraser {
		text += " (ERASER)"
	} else {
		text += fmt.Sprintf(" (Brush: %d)", info.BrushSize)
	}

	thickness := 1
	col := white
	switch {
	case info.Eraser:
		col, thickness = colornames.Red, 2
	case info.Mode == mode.Drawing:
		col = colornames.Lime
	case info.Mode == mode.Selecting:
		col = colornames.Cyan
	}

	size := gocv.GetTextSize(text, font, 0.5, thickness)
	x := h.config.Width - size.X - 15
	y := 35
	box := image.Rect(x-8, y-size.Y-8, x+size.X+8, y+8)
	gocv.Rectangle(frame, box, black, -1)
	gocv.Rectangle(frame, box, white, 1)
	gocv.PutText(frame, text, image.Pt(x, y), font, 0.5, col, thickness)
}

// drawPanel darkens the frame and writes lines over it. The first line is a title.
func (h *HUD) drawPanel(frame *gocv.Mat, lines []string, footer string) {
	gocv.AddWeighted(*frame, 0.3, *frame, 0, 0, frame)

	for i, line := range lines {
		col, thickness := white, 1
		if i == 0 {
			col, thickness = colornames.Cyan, 2
		}
		gocv.PutText(frame, line, image.Pt(30, 60+i*20), font, 0.4, col, thickness)
	}
	gocv.PutText(frame, footer, image.Pt(10, h.config.Height-20), font, 0.7, white, 2)
}

func helpLines() []string {
	return []string{
		"TULIKA - HELP",
		"",
		"GESTURES:",
		"- Index finger up: Draw",
		"- Index + Middle up: Select colour or brush in the toolbar",
		"- Fist: Erase",
		"",
		"KEYBOARD SHORTCUTS:",
		"- C: Clear canvas",
		"- S: Save drawing",
		"- L: Load drawing",
		"- Z / Y: Undo / Redo",
		"- B: Toggle brush sizes",
		"- E: Toggle eraser",
		"- P: Copy canvas to clipboard",
		"- H: Toggle help",
		"- I: Toggle info",
		"- Q: Quit",
	}
}

func (h *HUD) infoLines(s State) []string {
	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}
	return []string{
		"DRAWING INFORMATION",
		"",
		fmt.Sprintf("Canvas Size: %d x %d", s.Info.Width, s.Info.Height),
		fmt.Sprintf("Pixels Drawn: %d", s.Info.PixelsDrawn),
		fmt.Sprintf("Coverage: %.1f%%", s.Info.CoveragePercent),
		fmt.Sprintf("History Size: %d", s.Info.HistorySize),
		"Can Undo: " + yesNo(s.Info.CanUndo),
		"Can Redo: " + yesNo(s.Info.CanRedo),
		"",
		"Current Mode: " + modeLabel(s.Info.Mode),
		"Current Color: " + h.ColorName(s.Tool.Color),
		fmt.Sprintf("Current Brush Size: %d", s.Info.BrushSize),
		"Eraser Active: " + yesNo(s.Info.Eraser),
		"",
		fmt.Sprintf("Frame Rate: %.1f FPS (jitter %s)", s.FPS, s.Jitter.Round(time.Millisecond/10)),
	}
}

func modeLabel(m mode.Mode) string {
	name := m.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

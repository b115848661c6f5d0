// Package painter runs the gesture-to-stroke pipeline for one frame at a time.
package painter

import (
	"image"
	"image/color"
	"log"

	"github.com/ayusman/tulika/internal/canvas"
	"github.com/ayusman/tulika/internal/detector"
	"github.com/ayusman/tulika/internal/gesture"
	"github.com/ayusman/tulika/internal/mode"
	"github.com/ayusman/tulika/internal/selection"
)

// Preferences persists the picked tool between runs.
type Preferences interface {
	LoadTool() (col color.RGBA, size int, ok bool)
	SaveTool(col color.RGBA, size int) error
}

// Config holds painter configuration.
type Config struct {
	Canvas canvas.Config
	Mode   mode.Config
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Canvas: canvas.DefaultConfig(),
		Mode:   mode.DefaultConfig(),
	}
}

// Frame is the outcome of one Step.
type Frame struct {
	Hand    bool
	Gesture gesture.Gesture
	Mode    mode.Mode
	// Transition is nil while the mode is sustained.
	Transition *mode.Transition
	Pointer    image.Point

	ColorPick *selection.ColorSwatch
	BrushPick *selection.BrushSwatch

	// Feedback spans the index and middle fingertips while selecting.
	Feedback image.Rectangle
}

// Painter owns the mode controller, the canvas and the selection router.
// All methods must be called from one goroutine.
type Painter struct {
	controller *mode.Controller
	canvas     *canvas.Canvas
	router     *selection.Router
	prefs      Preferences

	// eraserHeld is set while the eraser was turned on by a command. Idle
	// and Drawing entry then leave it on.
	eraserHeld bool
}

// New creates a Painter. prefs may be nil.
func New(config Config, geometry selection.Geometry, prefs Preferences) *Painter {
	p := &Painter{
		controller: mode.NewController(config.Mode),
		canvas:     canvas.New(config.Canvas),
		router:     selection.NewRouter(geometry),
		prefs:      prefs,
	}

	if prefs != nil {
		if col, size, ok := prefs.LoadTool(); ok {
			p.canvas.SetColor(col)
			p.canvas.SetBrushSize(size)
			log.Printf("Restored tool: %v, size %d", col, size)
		}
	}
	return p
}

// Canvas returns the stroke engine.
func (p *Painter) Canvas() *canvas.Canvas {
	return p.canvas
}

// Mode returns the current mode.
func (p *Painter) Mode() mode.Mode {
	return p.controller.Mode()
}

// Cooldown returns the remaining selection cooldown in frames.
func (p *Painter) Cooldown() int {
	return p.controller.Cooldown()
}

// Step processes the landmarks of one frame. lm is nil when no hand was found.
func (p *Painter) Step(lm []image.Point) Frame {
	in := mode.Input{
		Hand:    len(lm) >= detector.NumLandmarks,
		Gesture: gesture.Classify(lm),
	}
	if in.Hand {
		in.Pointer = lm[detector.IndexTip]
	}

	out := p.controller.Step(in)
	frame := Frame{
		Hand:       in.Hand,
		Gesture:    in.Gesture,
		Mode:       out.Mode,
		Transition: out.Transition,
		Pointer:    in.Pointer,
	}

	if out.Transition != nil {
		p.apply(out.Transition)
		log.Printf("Mode: %s", out.Mode)
	}

	switch out.Action {
	case mode.ActionStroke:
		p.canvas.BeginOrContinue(out.Mode, in.Pointer)
	case mode.ActionSelect:
		p.canvas.BeginOrContinue(out.Mode, in.Pointer)
		p.pick(in.Pointer, &frame)
		frame.Feedback = image.Rectangle{Min: in.Pointer, Max: lm[detector.MiddleTip]}.Canon()
	}

	return frame
}

// Reset drops back to Idle, e.g. while processing is paused.
func (p *Painter) Reset() *mode.Transition {
	t := p.controller.Reset()
	if t != nil {
		p.apply(t)
		log.Printf("Mode: %s", t.To)
	}
	return t
}

func (p *Painter) apply(t *mode.Transition) {
	p.canvas.SetMode(t.To)
	for _, e := range t.Effects {
		switch e {
		case mode.ClearTrail:
			p.canvas.ResetTrail()
		case mode.ReleaseEraser:
			if !p.eraserHeld {
				p.canvas.SetEraser(false)
			}
		case mode.SelectionTool:
			p.setEraser(false)
		case mode.ForceEraser:
			p.canvas.SetEraser(true)
		}
	}
}

// pick applies colour and brush picks under pt and arms the cooldown.
func (p *Painter) pick(pt image.Point, frame *Frame) {
	picked := false

	if s, ok := p.router.ResolveColorPick(pt); ok {
		p.canvas.SetColor(s.Color)
		frame.ColorPick = &s
		picked = true
		log.Printf("Color selected: %s", s.Name)
	}

	if s, ok := p.router.ResolveBrushSizePick(pt); ok {
		p.canvas.SetBrushSize(s.Size)
		frame.BrushPick = &s
		picked = true
		log.Printf("Brush size selected: %d", s.Size)
	}

	if !picked {
		return
	}
	p.eraserHeld = false
	p.controller.StartCooldown()

	if p.prefs != nil {
		tool := p.canvas.Tool()
		if err := p.prefs.SaveTool(tool.Color, tool.Size); err != nil {
			log.Printf("Failed to save tool preferences: %v", err)
		}
	}
}

// setEraser turns the eraser on or off and holds it across mode changes
// while on.
func (p *Painter) setEraser(on bool) {
	p.canvas.SetEraser(on)
	p.eraserHeld = on
}

// Close releases the canvas.
func (p *Painter) Close() error {
	return p.canvas.Close()
}

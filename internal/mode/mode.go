// Package mode turns per-frame gestures into drawing-mode transitions.
package mode

import (
	"fmt"
	"image"

	"github.com/ayusman/tulika/internal/gesture"
)

// Mode is the active drawing behaviour.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Erasing
	Selecting
)

func (m Mode) String() string {
	switch m {
	case Drawing:
		return "drawing"
	case Erasing:
		return "erasing"
	case Selecting:
		return "selecting"
	default:
		return "idle"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name written by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	for _, candidate := range []Mode{Idle, Drawing, Erasing, Selecting} {
		if candidate.String() == string(text) {
			*m = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", text)
}

// Input is what the controller sees of one frame.
type Input struct {
	Hand    bool
	Gesture gesture.Gesture
	// Pointer is the index fingertip in frame pixels.
	Pointer image.Point
}

// Effect is a side effect that runs once when a mode is entered.
type Effect int

const (
	// ClearTrail forgets the last stroke point.
	ClearTrail Effect = iota
	// ReleaseEraser restores the picked colour and width.
	ReleaseEraser
	// ForceEraser switches the tool to the eraser.
	ForceEraser
	// SelectionTool releases the eraser and shows the selection brush.
	SelectionTool
)

func (e Effect) String() string {
	switch e {
	case ClearTrail:
		return "clear-trail"
	case ReleaseEraser:
		return "release-eraser"
	case ForceEraser:
		return "force-eraser"
	case SelectionTool:
		return "selection-tool"
	default:
		return "unknown"
	}
}

// Action is the per-frame work a mode asks for.
type Action int

const (
	ActionNone Action = iota
	// ActionStroke feeds the pointer to the stroke engine.
	ActionStroke
	// ActionSelect routes the pointer to the toolbar.
	ActionSelect
)

// Next is the transition table. Select ignores the threshold so toolbar
// targets inside the header stay reachable.
func Next(in Input, threshold, cooldown int) Mode {
	if !in.Hand {
		return Idle
	}

	switch in.Gesture {
	case gesture.Select:
		if cooldown == 0 {
			return Selecting
		}
	case gesture.Draw:
		if in.Pointer.Y > threshold {
			return Drawing
		}
	case gesture.Erase:
		if in.Pointer.Y > threshold {
			return Erasing
		}
	}
	return Idle
}

// Entry returns the effects of entering m, in order.
func Entry(m Mode) []Effect {
	switch m {
	case Selecting:
		return []Effect{ClearTrail, SelectionTool}
	case Drawing:
		return []Effect{ClearTrail, ReleaseEraser}
	case Erasing:
		return []Effect{ClearTrail, ForceEraser}
	default:
		return []Effect{ClearTrail, ReleaseEraser}
	}
}

// Act returns the per-frame action of m.
func Act(m Mode) Action {
	switch m {
	case Drawing, Erasing:
		return ActionStroke
	case Selecting:
		return ActionSelect
	default:
		return ActionNone
	}
}

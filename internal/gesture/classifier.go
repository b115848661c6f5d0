// Package gesture classifies hand poses into the painter's gestures.
package gesture

import (
	"image"

	"github.com/ayusman/tulika/internal/detector"
)

// Finger indices of a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
)

// FingerState reports, per finger, whether it is extended.
type FingerState [5]bool

// Gesture is a classified finger pose.
type Gesture int

const (
	// None is any pose without an action.
	None Gesture = iota
	// Draw is the index finger alone.
	Draw
	// Select is index and middle fingers together.
	Select
	// Erase is a closed fist.
	Erase
)

func (g Gesture) String() string {
	switch g {
	case Draw:
		return "draw"
	case Select:
		return "select"
	case Erase:
		return "erase"
	default:
		return "none"
	}
}

var tips = [5]int{
	detector.ThumbTip,
	detector.IndexTip,
	detector.MiddleTip,
	detector.RingTip,
	detector.PinkyTip,
}

// Fingers derives the finger state from a pixel landmark set.
// It returns false when the set is shorter than a full hand.
func Fingers(lm []image.Point) (FingerState, bool) {
	var state FingerState
	if len(lm) < detector.NumLandmarks {
		return state, false
	}

	// The thumb folds sideways, so compare horizontal reach from the palm centre.
	palm := lm[detector.MiddleMCP].X
	state[Thumb] = abs(lm[detector.ThumbTip].X-palm) > abs(lm[detector.ThumbIP].X-palm)

	for f := Index; f <= Pinky; f++ {
		tip := tips[f]
		state[f] = lm[tip].Y < lm[tip-2].Y
	}

	return state, true
}

// ClassifyFingers maps a finger state to a gesture. Select wins over Draw, Draw over Erase.
func ClassifyFingers(s FingerState) Gesture {
	switch {
	case s[Index] && s[Middle] && !s[Ring] && !s[Pinky]:
		return Select
	case s[Index] && !s[Middle] && !s[Ring] && !s[Pinky]:
		return Draw
	case !s[Thumb] && !s[Index] && !s[Middle] && !s[Ring] && !s[Pinky]:
		return Erase
	default:
		return None
	}
}

// Classify returns the gesture of a pixel landmark set, or None for an empty or partial set.
func Classify(lm []image.Point) Gesture {
	state, ok := Fingers(lm)
	if !ok {
		return None
	}
	return ClassifyFingers(state)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

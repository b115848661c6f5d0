// Package testdata builds scripted hand sessions for end-to-end tests.
package testdata

import (
	"image"

	"github.com/ayusman/tulika/internal/detector"
)

// Frame size of every scripted session.
const (
	Width  = 800
	Height = 600
)

// Frame is the pixel landmark set of one camera frame. A nil Frame has no hand.
type Frame []image.Point

func place(h detector.HandLandmarks, tip image.Point) Frame {
	return detector.PlaceIndexTip(h.Pixels(Width, Height), tip)
}

// Pointing returns the draw gesture with the index fingertip at tip.
func Pointing(tip image.Point) Frame {
	return place(detector.PointingLandmarks(), tip)
}

// Peace returns the select gesture with the index fingertip at tip.
func Peace(tip image.Point) Frame {
	return place(detector.PeaceLandmarks(), tip)
}

// Fist returns the erase gesture with the index fingertip at tip.
func Fist(tip image.Point) Frame {
	return place(detector.FistLandmarks(), tip)
}

// OpenPalm returns a hand that maps to no gesture.
func OpenPalm(tip image.Point) Frame {
	return place(detector.OpenPalmLandmarks(), tip)
}

// NoHand returns n frames without a hand.
func NoHand(n int) []Frame {
	return make([]Frame, n)
}

// Hold repeats f for n frames.
func Hold(f Frame, n int) []Frame {
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = f
	}
	return frames
}

// Stroke moves a gesture in a straight line from one point to another over
// steps+1 frames, both ends included.
func Stroke(gesture func(image.Point) Frame, from, to image.Point, steps int) []Frame {
	if steps < 1 {
		return []Frame{gesture(from)}
	}

	frames := make([]Frame, 0, steps+1)
	d := to.Sub(from)
	for i := 0; i <= steps; i++ {
		p := from.Add(image.Pt(d.X*i/steps, d.Y*i/steps))
		frames = append(frames, gesture(p))
	}
	return frames
}

// Session concatenates frame runs.
func Session(runs ...[]Frame) []Frame {
	var frames []Frame
	for _, r := range runs {
		frames = append(frames, r...)
	}
	return frames
}

// SwatchCenter returns the centre of colour swatch i of an n-colour strip
// in a header of the given height.
func SwatchCenter(i, n, header int) image.Point {
	w := Width / n
	return image.Pt(i*w+w/2, header/2)
}

package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Finger geometry of the preset hands, in normalized frame units.
var (
	fingerMCPs = [4]Point3D{
		{X: 0.55, Y: 0.68}, // index
		{X: 0.50, Y: 0.66}, // middle
		{X: 0.45, Y: 0.68}, // ring
		{X: 0.40, Y: 0.70}, // pinky
	}
	extendedOffsets = [3]float64{-0.13, -0.23, -0.33}
	curledOffsets   = [3]float64{-0.02, 0.00, 0.02}
)

// presetHand builds a right hand with the given fingers extended.
// fingers holds index, middle, ring and pinky in that order.
func presetHand(thumb bool, fingers [4]bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	if thumb {
		// Thumb reaches sideways, away from the palm
		landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
		landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
		landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
		landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}
	} else {
		// Thumb folded across the palm
		landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
		landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.70}
		landmarks.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.66, Z: -0.02}
		landmarks.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.66, Z: -0.03}
	}

	for f, mcp := range fingerMCPs {
		base := IndexMCP + f*4
		landmarks.Points[base] = mcp

		offsets := curledOffsets
		if fingers[f] {
			offsets = extendedOffsets
		}
		for j, dy := range offsets {
			landmarks.Points[base+1+j] = Point3D{X: mcp.X, Y: mcp.Y + dy, Z: -0.02 * float64(j)}
		}
	}

	return landmarks
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return presetHand(false, [4]bool{true, false, false, false})
}

// PeaceLandmarks returns a hand with the index and middle fingers extended.
func PeaceLandmarks() HandLandmarks {
	return presetHand(false, [4]bool{true, true, false, false})
}

// FistLandmarks returns a closed fist.
func FistLandmarks() HandLandmarks {
	return presetHand(false, [4]bool{})
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return presetHand(true, [4]bool{true, true, true, true})
}

// PlaceIndexTip shifts a pixel landmark set so that its index fingertip lands on tip.
// It returns a new slice; the input is not modified.
func PlaceIndexTip(points []image.Point, tip image.Point) []image.Point {
	if len(points) <= IndexTip {
		return append([]image.Point(nil), points...)
	}

	delta := tip.Sub(points[IndexTip])
	moved := make([]image.Point, len(points))
	for i, p := range points {
		moved[i] = p.Add(delta)
	}
	return moved
}

//go:build matprofile

package app

import (
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/tulika/internal/capture"
)

func TestApp_ProcessFrameReleasesMats(t *testing.T) {
	a := newTestApp(t)
	win, _, _ := newTestWindows()

	frame := capture.SolidFrame(800, 600, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	defer frame.Close()

	// The first frame primes the motion gate and other per-loop state
	a.processFrame(&frame, win)

	before := gocv.MatProfile.Count()
	for i := 0; i < 10; i++ {
		a.processFrame(&frame, win)
	}
	if after := gocv.MatProfile.Count(); after != before {
		t.Errorf("open Mats went from %d to %d over 10 frames", before, after)
	}
}

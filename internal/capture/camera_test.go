package capture

import (
	"errors"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Brightness != 150 {
		t.Errorf("expected brightness 150, got %f", cfg.Brightness)
	}
	if !cfg.Mirror {
		t.Error("expected mirrored preview by default")
	}
}

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{"configured rate", 15, 15},
		{"zero falls back to default", 0, 30},
		{"negative falls back to default", -1, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.FPS = tt.fps
			cam := NewCamera(cfg)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	cam.SetFPS(10)
	if got := cam.FPS(); got != 10 {
		t.Errorf("FPS() = %d, want 10", got)
	}

	cam.SetFPS(0)
	cam.SetFPS(-5)
	if got := cam.FPS(); got != 10 {
		t.Errorf("non-positive rates should be ignored, got %d", got)
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultConfig())
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Cols() != 800 || mat.Rows() != 600 {
			t.Logf("Frame dimensions: %dx%d (camera may not support 800x600)", mat.Cols(), mat.Rows())
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestMirror(t *testing.T) {
	frame := SolidFrame(4, 2, color.RGBA{A: 255})
	defer frame.Close()

	left := frame.Region(imageRect(0, 0, 1, 2))
	left.SetTo(gocv.NewScalar(255, 0, 0, 0))
	left.Close()

	Mirror(&frame)

	if v := frame.GetVecbAt(0, 3); v[0] != 255 {
		t.Errorf("expected marked column on the right after mirroring, got %v", v)
	}
	if v := frame.GetVecbAt(0, 0); v[0] != 0 {
		t.Errorf("expected left column cleared after mirroring, got %v", v)
	}
}

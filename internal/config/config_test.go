package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 {
		t.Errorf("expected 800x600 canvas, got %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background != (color.RGBA{A: 255}) {
		t.Errorf("expected black background, got %v", cfg.Canvas.Background)
	}
	if cfg.Canvas.HistorySize != 50 {
		t.Errorf("expected history size 50, got %d", cfg.Canvas.HistorySize)
	}
	if cfg.Brush.Drawing != 25 || cfg.Brush.Eraser != 100 || cfg.Brush.Selection != 15 {
		t.Errorf("unexpected brush widths: %+v", cfg.Brush)
	}
	if cfg.Gesture.SelectionDelay != 15 {
		t.Errorf("expected selection delay 15, got %d", cfg.Gesture.SelectionDelay)
	}
	if cfg.Gesture.DrawingThreshold != 80 {
		t.Errorf("expected drawing threshold 80, got %d", cfg.Gesture.DrawingThreshold)
	}
	if cfg.UI.HeaderHeight != 80 {
		t.Errorf("expected header height 80, got %d", cfg.UI.HeaderHeight)
	}
	if len(cfg.Palette) != 12 {
		t.Fatalf("expected 12 palette colours, got %d", len(cfg.Palette))
	}
	if cfg.Palette[0].Name != "White" || cfg.Palette[2].Color != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("unexpected palette head: %+v", cfg.Palette[:3])
	}
	if cfg.Palette[3].Color != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("expected pure green at index 3, got %v", cfg.Palette[3].Color)
	}
}

func TestParse(t *testing.T) {
	t.Run("overrides selected values", func(t *testing.T) {
		cfg, err := Parse(`
target_fps = 60

[canvas]
width = 1024
background = "white"

[brush]
drawing = 10
sizes = [1, 2, 3]

[camera]
mirror = false
device = 2

[[palette]]
name = "Sky"
color = "#87ceeb"

[[palette]]
color = "orange"
`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.TargetFPS != 60 {
			t.Errorf("expected target fps 60, got %d", cfg.TargetFPS)
		}
		if cfg.Canvas.Width != 1024 {
			t.Errorf("expected width 1024, got %d", cfg.Canvas.Width)
		}
		if cfg.Canvas.Height != 600 {
			t.Errorf("expected default height 600, got %d", cfg.Canvas.Height)
		}
		if cfg.Canvas.Background != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
			t.Errorf("expected white background, got %v", cfg.Canvas.Background)
		}
		if cfg.Brush.Drawing != 10 || cfg.Brush.Eraser != 100 {
			t.Errorf("unexpected brush: %+v", cfg.Brush)
		}
		if len(cfg.Brush.Sizes) != 3 {
			t.Errorf("expected 3 sizes, got %v", cfg.Brush.Sizes)
		}
		if cfg.Camera.Mirror {
			t.Error("expected mirror disabled")
		}
		if cfg.Camera.DeviceID != 2 {
			t.Errorf("expected device 2, got %d", cfg.Camera.DeviceID)
		}
		if len(cfg.Palette) != 2 {
			t.Fatalf("expected 2 palette entries, got %d", len(cfg.Palette))
		}
		if cfg.Palette[0].Name != "Sky" || cfg.Palette[0].Color != (color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 255}) {
			t.Errorf("unexpected first swatch: %+v", cfg.Palette[0])
		}
		if cfg.Palette[1].Name != "orange" {
			t.Errorf("expected unnamed swatch to use its colour, got %q", cfg.Palette[1].Name)
		}
	})

	t.Run("empty text returns defaults", func(t *testing.T) {
		cfg, err := Parse("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != Default().Addr {
			t.Errorf("expected default addr, got %q", cfg.Addr)
		}
	})

	t.Run("unknown palette colour", func(t *testing.T) {
		_, err := Parse("[[palette]]\ncolor = \"notacolour\"\n")
		if !errors.Is(err, ErrUnknownColor) {
			t.Errorf("expected ErrUnknownColor, got %v", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		if _, err := Parse("[canvas\nwidth = "); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Canvas.Width != 800 {
			t.Errorf("expected default width, got %d", cfg.Canvas.Width)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tulika.toml")
		if err := os.WriteFile(path, []byte("[files]\nformat = \".jpg\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Files.Format != "jpg" {
			t.Errorf("expected format jpg, got %q", cfg.Files.Format)
		}
	})
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"red", color.RGBA{R: 255, A: 255}, false},
		{" Purple ", color.RGBA{R: 128, B: 128, A: 255}, false},
		{"#00ff00", color.RGBA{G: 255, A: 255}, false},
		{"0000ff", color.RGBA{B: 255, A: 255}, false},
		{"#fff", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
		{"blurple", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownColor) {
					t.Errorf("expected ErrUnknownColor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefault_ListensOnLoopback(t *testing.T) {
	if addr := Default().Addr; addr != "localhost:8080" {
		t.Errorf("expected loopback default addr, got %q", addr)
	}
}

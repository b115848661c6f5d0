// Package config holds the tunable constants of the painter and loads overrides from TOML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned when a palette entry names a colour that cannot be resolved.
var ErrUnknownColor = errors.New("unknown color")

// PaletteColor is one swatch of the header strip.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

// Camera holds capture settings.
type Camera struct {
	DeviceID   int
	Width      int
	Height     int
	Brightness float64
	Mirror     bool
	// MotionGate reuses the previous detection when the frame barely changed.
	MotionGate   bool
	MotionThresh float64
}

// Canvas holds surface and history settings.
type Canvas struct {
	Width       int
	Height      int
	Background  color.RGBA
	HistorySize int
}

// Brush holds the mode-specific brush widths.
type Brush struct {
	Drawing   int
	Eraser    int
	Selection int
	Sizes     []int
}

// Gesture holds the gesture timing and placement settings.
type Gesture struct {
	// SelectionDelay is the number of frames a pick blocks further picks.
	SelectionDelay int
	// DrawingThreshold is the Y coordinate below which draw and erase are accepted.
	DrawingThreshold int
}

// UI holds HUD settings.
type UI struct {
	HeaderHeight      int
	ShowFPS           bool
	ShowModeText      bool
	BrushPanelVisible bool
}

// Files holds persistence settings.
type Files struct {
	SaveDir string
	Format  string
}

// Detector holds hand detection settings.
type Detector struct {
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64
}

// Config is the complete application configuration.
type Config struct {
	Camera    Camera
	Canvas    Canvas
	Brush     Brush
	Gesture   Gesture
	UI        UI
	Files     Files
	Detector  Detector
	Palette   []PaletteColor
	TargetFPS int
	Addr      string
	PluginDir string
}

// DefaultPalette returns the twelve header colours in display order.
func DefaultPalette() []PaletteColor {
	return []PaletteColor{
		{Name: "White", Color: colornames.White},
		{Name: "Purple", Color: colornames.Purple},
		{Name: "Red", Color: colornames.Red},
		{Name: "Green", Color: colornames.Lime},
		{Name: "Cyan", Color: colornames.Cyan},
		{Name: "Maroon", Color: colornames.Maroon},
		{Name: "Blue", Color: colornames.Blue},
		{Name: "Black", Color: colornames.Black},
		{Name: "Orange", Color: colornames.Orange},
		{Name: "Pink", Color: colornames.Pink},
		{Name: "Yellow", Color: colornames.Yellow},
		{Name: "Gray", Color: colornames.Gray},
	}
}

// Default returns a Config with the stock values.
func Default() Config {
	return Config{
		Camera: Camera{
			DeviceID:     0,
			Width:        800,
			Height:       600,
			Brightness:   150,
			Mirror:       true,
			MotionGate:   false,
			MotionThresh: 0.5,
		},
		Canvas: Canvas{
			Width:       800,
			Height:      600,
			Background:  color.RGBA{A: 255},
			HistorySize: 50,
		},
		Brush: Brush{
			Drawing:   25,
			Eraser:    100,
			Selection: 15,
			Sizes:     []int{5, 10, 15, 25, 35, 50, 75, 100},
		},
		Gesture: Gesture{
			SelectionDelay:   15,
			DrawingThreshold: 80,
		},
		UI: UI{
			HeaderHeight: 80,
			ShowFPS:      true,
			ShowModeText: true,
		},
		Files: Files{
			SaveDir: "saved_drawings",
			Format:  "png",
		},
		Detector: Detector{
			MaxHands:        2,
			MinConfidence:   0.7,
			MinTrackingConf: 0.5,
		},
		Palette:   DefaultPalette(),
		TargetFPS: 30,
		Addr:      "localhost:8080",
	}
}

// file mirrors Config with TOML-friendly field types. Zero values leave defaults untouched.
type file struct {
	Camera struct {
		Device       *int    `toml:"device"`
		Width        int     `toml:"width"`
		Height       int     `toml:"height"`
		Brightness   float64 `toml:"brightness"`
		Mirror       *bool   `toml:"mirror"`
		MotionGate   *bool   `toml:"motion_gate"`
		MotionThresh float64 `toml:"motion_threshold"`
	} `toml:"camera"`
	Canvas struct {
		Width       int    `toml:"width"`
		Height      int    `toml:"height"`
		Background  string `toml:"background"`
		HistorySize int    `toml:"history_size"`
	} `toml:"canvas"`
	Brush struct {
		Drawing   int   `toml:"drawing"`
		Eraser    int   `toml:"eraser"`
		Selection int   `toml:"selection"`
		Sizes     []int `toml:"sizes"`
	} `toml:"brush"`
	Gesture struct {
		SelectionDelay   int `toml:"selection_delay"`
		DrawingThreshold int `toml:"drawing_threshold"`
	} `toml:"gesture"`
	UI struct {
		HeaderHeight int   `toml:"header_height"`
		ShowFPS      *bool `toml:"show_fps"`
		ShowModeText *bool `toml:"show_mode_text"`
	} `toml:"ui"`
	Files struct {
		SaveDir string `toml:"save_dir"`
		Format  string `toml:"format"`
	} `toml:"files"`
	Detector struct {
		MaxHands        int     `toml:"max_hands"`
		MinConfidence   float64 `toml:"min_confidence"`
		MinTrackingConf float64 `toml:"min_tracking_confidence"`
	} `toml:"detector"`
	Palette []struct {
		Name  string `toml:"name"`
		Color string `toml:"color"`
	} `toml:"palette"`
	TargetFPS int    `toml:"target_fps"`
	Addr      string `toml:"addr"`
	PluginDir string `toml:"plugin_dir"`
}

// Load reads a TOML file and applies it on top of Default.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	return Parse(string(data))
}

// Parse decodes TOML text and applies it on top of Default.
func Parse(text string) (Config, error) {
	cfg := Default()

	var f file
	if _, err := toml.Decode(text, &f); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if err := f.apply(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (f *file) apply(cfg *Config) error {
	if f.Camera.Device != nil {
		cfg.Camera.DeviceID = *f.Camera.Device
	}
	setInt(&cfg.Camera.Width, f.Camera.Width)
	setInt(&cfg.Camera.Height, f.Camera.Height)
	setFloat(&cfg.Camera.Brightness, f.Camera.Brightness)
	setFloat(&cfg.Camera.MotionThresh, f.Camera.MotionThresh)
	if f.Camera.Mirror != nil {
		cfg.Camera.Mirror = *f.Camera.Mirror
	}
	if f.Camera.MotionGate != nil {
		cfg.Camera.MotionGate = *f.Camera.MotionGate
	}

	setInt(&cfg.Canvas.Width, f.Canvas.Width)
	setInt(&cfg.Canvas.Height, f.Canvas.Height)
	setInt(&cfg.Canvas.HistorySize, f.Canvas.HistorySize)
	if f.Canvas.Background != "" {
		bg, err := ParseColor(f.Canvas.Background)
		if err != nil {
			return fmt.Errorf("canvas background: %w", err)
		}
		cfg.Canvas.Background = bg
	}

	setInt(&cfg.Brush.Drawing, f.Brush.Drawing)
	setInt(&cfg.Brush.Eraser, f.Brush.Eraser)
	setInt(&cfg.Brush.Selection, f.Brush.Selection)
	if len(f.Brush.Sizes) > 0 {
		cfg.Brush.Sizes = f.Brush.Sizes
	}

	setInt(&cfg.Gesture.SelectionDelay, f.Gesture.SelectionDelay)
	setInt(&cfg.Gesture.DrawingThreshold, f.Gesture.DrawingThreshold)

	setInt(&cfg.UI.HeaderHeight, f.UI.HeaderHeight)
	if f.UI.ShowFPS != nil {
		cfg.UI.ShowFPS = *f.UI.ShowFPS
	}
	if f.UI.ShowModeText != nil {
		cfg.UI.ShowModeText = *f.UI.ShowModeText
	}

	if f.Files.SaveDir != "" {
		cfg.Files.SaveDir = f.Files.SaveDir
	}
	if f.Files.Format != "" {
		cfg.Files.Format = strings.TrimPrefix(f.Files.Format, ".")
	}

	setInt(&cfg.Detector.MaxHands, f.Detector.MaxHands)
	setFloat(&cfg.Detector.MinConfidence, f.Detector.MinConfidence)
	setFloat(&cfg.Detector.MinTrackingConf, f.Detector.MinTrackingConf)

	if len(f.Palette) > 0 {
		palette := make([]PaletteColor, 0, len(f.Palette))
		for i, p := range f.Palette {
			c, err := ParseColor(p.Color)
			if err != nil {
				return fmt.Errorf("palette entry %d: %w", i, err)
			}
			name := p.Name
			if name == "" {
				name = p.Color
			}
			palette = append(palette, PaletteColor{Name: name, Color: c})
		}
		cfg.Palette = palette
	}

	setInt(&cfg.TargetFPS, f.TargetFPS)
	if f.Addr != "" {
		cfg.Addr = f.Addr
	}
	if f.PluginDir != "" {
		cfg.PluginDir = f.PluginDir
	}
	return nil
}

// ParseColor resolves an SVG colour name ("orange") or a hex triple ("#ffa500").
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

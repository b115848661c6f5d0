// Package canvas owns the raster drawing surface and its undo history.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/tulika/internal/mode"
)

var (
	// ErrSaveFailed is returned when the surface cannot be written.
	ErrSaveFailed = errors.New("save failed")
	// ErrDecode is returned when an image file cannot be read.
	ErrDecode = errors.New("cannot decode image")
	// ErrFormat is returned for an unsupported image extension.
	ErrFormat = errors.New("unsupported image format")
)

var formats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "bmp": true, "tif": true, "tiff": true, "webp": true,
}

// Config holds canvas settings.
type Config struct {
	Width       int
	Height      int
	Background  color.RGBA
	HistorySize int

	// Color and DrawingWidth are the initial tool.
	Color          color.RGBA
	DrawingWidth   int
	EraserWidth    int
	SelectionWidth int

	SaveDir string
	Format  string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:          800,
		Height:         600,
		Background:     color.RGBA{A: 255},
		HistorySize:    50,
		Color:          color.RGBA{R: 255, G: 255, B: 255, A: 255},
		DrawingWidth:   25,
		EraserWidth:    100,
		SelectionWidth: 15,
		SaveDir:        "saved_drawings",
		Format:         "png",
	}
}

// Tool is the user's current colour and width. While Eraser is set the
// stroke uses the background and the eraser width instead.
type Tool struct {
	Color  color.RGBA
	Size   int
	Eraser bool
}

// Info describes the canvas at a point in time.
type Info struct {
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	PixelsDrawn     int       `json:"pixels_drawn"`
	CoveragePercent float64   `json:"coverage_percent"`
	HistorySize     int       `json:"history_size"`
	CanUndo         bool      `json:"can_undo"`
	CanRedo         bool      `json:"can_redo"`
	Mode            mode.Mode `json:"mode"`
	BrushSize       int       `json:"brush_size"`
	Eraser          bool      `json:"eraser"`
}

// Canvas is the stroke engine. It is not safe for concurrent use.
type Canvas struct {
	config  Config
	surface gocv.Mat
	width   int
	height  int
	history *History

	trail    image.Point
	hasTrail bool

	tool Tool
	mode mode.Mode
	// dirty is set once strokes changed the surface after the last snapshot.
	dirty bool
}

// New creates a Canvas filled with the background colour.
func New(config Config) *Canvas {
	c := &Canvas{
		config:  config,
		width:   config.Width,
		height:  config.Height,
		history: NewHistory(config.HistorySize),
		tool: Tool{
			Color: config.Color,
			Size:  config.DrawingWidth,
		},
	}
	c.surface = c.blank(c.width, c.height)
	return c
}

func (c *Canvas) blank(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(scalar(c.config.Background), height, width, gocv.MatTypeCV8UC3)
}

func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}

// BeginOrContinue feeds one pointer position in mode m. The first point of a
// stroke records a snapshot; later points draw a segment from the trail.
// Selecting moves the trail without touching the surface.
func (c *Canvas) BeginOrContinue(m mode.Mode, p image.Point) {
	switch m {
	case mode.Drawing, mode.Erasing, mode.Selecting:
	default:
		c.ResetTrail()
		return
	}

	if !c.hasTrail {
		if m != mode.Selecting {
			c.checkpoint()
		}
		c.trail, c.hasTrail = p, true
		return
	}

	if m != mode.Selecting {
		col, width := c.brush(m)
		gocv.Line(&c.surface, c.trail, p, col, width)
		c.dirty = true
	}
	c.trail = p
}

// checkpoint makes sure the history holds the pre-stroke surface.
func (c *Canvas) checkpoint() {
	if c.history.Len() == 0 || c.dirty {
		c.history.Push(c.surface.Clone())
		c.dirty = false
		return
	}
	// The surface already equals the entry at the cursor
	c.history.Truncate()
}

func (c *Canvas) brush(m mode.Mode) (color.RGBA, int) {
	switch {
	case c.tool.Eraser || m == mode.Erasing:
		return c.config.Background, c.config.EraserWidth
	case m == mode.Selecting:
		return c.tool.Color, c.config.SelectionWidth
	default:
		return c.tool.Color, c.tool.Size
	}
}

// Trail returns the last stroke point.
func (c *Canvas) Trail() (image.Point, bool) {
	return c.trail, c.hasTrail
}

// ResetTrail forgets the last stroke point so the next one starts a new stroke.
func (c *Canvas) ResetTrail() {
	c.hasTrail = false
}

// Clear fills the surface with the background and drops the whole history.
func (c *Canvas) Clear() {
	c.surface.Close()
	c.surface = c.blank(c.width, c.height)
	c.history.Reset()
	c.hasTrail = false
	c.dirty = false
}

// Undo steps back one snapshot. Strokes drawn since the last snapshot are
// recorded first so Redo can return to them.
func (c *Canvas) Undo() bool {
	if c.dirty && c.history.Len() > 0 {
		c.history.Push(c.surface.Clone())
		c.dirty = false
	}

	snap, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.restore(snap)
	return true
}

// Redo steps forward one snapshot.
func (c *Canvas) Redo() bool {
	snap, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.restore(snap)
	return true
}

func (c *Canvas) restore(snap gocv.Mat) {
	next := c.fit(snap, c.width, c.height)
	c.surface.Close()
	c.surface = next
	c.hasTrail = false
	c.dirty = false
}

// fit returns a copy of src resampled to width x height.
func (c *Canvas) fit(src gocv.Mat, width, height int) gocv.Mat {
	if src.Cols() == width && src.Rows() == height {
		return src.Clone()
	}
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	return dst
}

// Resize resamples the surface to new dimensions. History entries keep
// their size and are resampled when restored.
func (c *Canvas) Resize(width, height int) {
	if width <= 0 || height <= 0 || (width == c.width && height == c.height) {
		return
	}
	next := c.fit(c.surface, width, height)
	c.surface.Close()
	c.surface = next
	c.width, c.height = width, height
	c.hasTrail = false
}

// Path resolves a file name for Save and Load. Bare names resolve inside
// the save directory; anything else is used as given.
func (c *Canvas) Path(name string) string {
	if !filepath.IsAbs(name) && filepath.Dir(name) == "." {
		return filepath.Join(c.config.SaveDir, name)
	}
	return name
}

// Save writes the surface to disk and returns the path written. An empty
// name is replaced by a timestamped one.
func (c *Canvas) Save(name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("drawing_%s.%s", time.Now().Format("20060102_150405"), c.config.Format)
	}
	if err := checkFormat(filepath.Ext(name)); err != nil {
		return "", err
	}

	path := c.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if !gocv.IMWrite(path, c.surface) {
		return "", fmt.Errorf("%w: %s", ErrSaveFailed, path)
	}
	return path, nil
}

// Load replaces the surface with an image file, resampled to the canvas
// size, and records it as one snapshot. On failure nothing changes.
func (c *Canvas) Load(path string) error {
	path = c.Path(path)
	if err := checkFormat(filepath.Ext(path)); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return fmt.Errorf("%w: %s", ErrDecode, path)
	}

	next := c.fit(img, c.width, c.height)
	img.Close()

	c.surface.Close()
	c.surface = next
	c.history.Push(next.Clone())
	c.hasTrail = false
	c.dirty = false
	return nil
}

// Encode returns the surface encoded by extension, e.g. ".png".
func (c *Canvas) Encode(ext string) ([]byte, error) {
	if err := checkFormat(ext); err != nil {
		return nil, err
	}
	buf, err := gocv.IMEncode(gocv.FileExt("."+strings.TrimPrefix(ext, ".")), c.surface)
	if err != nil {
		return nil, fmt.Errorf("encode canvas: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func checkFormat(ext string) error {
	if !formats[strings.ToLower(strings.TrimPrefix(ext, "."))] {
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	return nil
}

// CompositeOver returns a new frame showing the surface wherever it differs
// from the background and the input frame everywhere else. The caller owns
// the result.
func (c *Canvas) CompositeOver(frame gocv.Mat) gocv.Mat {
	out := frame.Clone()
	if frame.Empty() {
		return out
	}

	surface := c.fit(c.surface, frame.Cols(), frame.Rows())
	defer surface.Close()

	mask := c.foreground(surface)
	defer mask.Close()

	surface.CopyToWithMask(&out, mask)
	return out
}

// foreground returns a mask of the pixels that are not background.
func (c *Canvas) foreground(surface gocv.Mat) gocv.Mat {
	bg := c.backgroundMask(surface)
	defer bg.Close()

	fg := gocv.NewMat()
	gocv.BitwiseNot(bg, &fg)
	return fg
}

func (c *Canvas) backgroundMask(surface gocv.Mat) gocv.Mat {
	s := scalar(c.config.Background)
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(surface, s, s, &mask)
	return mask
}

// Info returns a snapshot of the canvas state.
func (c *Canvas) Info() Info {
	bg := c.backgroundMask(c.surface)
	total := c.width * c.height
	drawn := total - gocv.CountNonZero(bg)
	bg.Close()

	var coverage float64
	if total > 0 {
		coverage = float64(drawn) / float64(total) * 100
	}

	_, width := c.brush(c.mode)
	return Info{
		Width:           c.width,
		Height:          c.height,
		PixelsDrawn:     drawn,
		CoveragePercent: coverage,
		HistorySize:     c.history.Len(),
		CanUndo:         c.history.CanUndo() || (c.dirty && c.history.Len() > 0),
		CanRedo:         c.history.CanRedo(),
		Mode:            c.mode,
		BrushSize:       width,
		Eraser:          c.tool.Eraser,
	}
}

// Surface returns a copy of the surface. The caller owns the result.
func (c *Canvas) Surface() gocv.Mat {
	return c.surface.Clone()
}

// View lends the surface to fn without copying it. fn must not keep or
// modify the Mat.
func (c *Canvas) View(fn func(surface gocv.Mat)) {
	fn(c.surface)
}

// Background returns the background colour.
func (c *Canvas) Background() color.RGBA {
	return c.config.Background
}

// Tool returns the current tool.
func (c *Canvas) Tool() Tool {
	return c.tool
}

// SetColor picks a drawing colour and leaves the eraser.
func (c *Canvas) SetColor(col color.RGBA) {
	c.tool.Color = col
	c.tool.Eraser = false
}

// SetBrushSize picks a drawing width and leaves the eraser.
func (c *Canvas) SetBrushSize(size int) {
	if size <= 0 {
		return
	}
	c.tool.Size = size
	c.tool.Eraser = false
}

// SetEraser turns the eraser on or off. The picked colour and width are kept.
func (c *Canvas) SetEraser(on bool) {
	c.tool.Eraser = on
}

// SetMode records the active mode for Info and stroke width.
func (c *Canvas) SetMode(m mode.Mode) {
	c.mode = m
}

// Close releases the surface and every snapshot.
func (c *Canvas) Close() error {
	c.history.Reset()
	return c.surface.Close()
}

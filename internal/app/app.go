// Package app runs the capture, gesture and drawing loop and exposes it to the server and tray.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ayusman/tulika/internal/canvas"
	"github.com/ayusman/tulika/internal/capture"
	"github.com/ayusman/tulika/internal/config"
	"github.com/ayusman/tulika/internal/detector"
	"github.com/ayusman/tulika/internal/fps"
	"github.com/ayusman/tulika/internal/mode"
	"github.com/ayusman/tulika/internal/notify"
	"github.com/ayusman/tulika/internal/painter"
	"github.com/ayusman/tulika/internal/plugin"
	"github.com/ayusman/tulika/internal/store"
	"github.com/ayusman/tulika/internal/ui"
)

var (
	// ErrNotRunning is returned for requests made while the frame loop is not running.
	ErrNotRunning = errors.New("app is not running")
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("app is already running")
)

// Window titles.
const (
	WindowComposite = "Tulika"
	WindowCanvas    = "Canvas"
)

// subscriberBuffer is the number of events a slow subscriber may fall behind before events are dropped.
const subscriberBuffer = 16

// Config holds the application dependencies. Nil collaborators are created from Settings.
type Config struct {
	Settings config.Config
	Store    *store.Store
	Camera   capture.Camera
	Detector detector.Detector
	Notifier *notify.Notifier
	// Headless skips the HighGUI windows and keyboard.
	Headless bool
}

// Status is a snapshot of the painter for the API and tray.
type Status struct {
	Running  bool        `json:"running"`
	Enabled  bool        `json:"enabled"`
	Hand     bool        `json:"hand"`
	Gesture  string      `json:"gesture"`
	Mode     mode.Mode   `json:"mode"`
	Color    string      `json:"color"`
	Cooldown int         `json:"cooldown"`
	FPS      float64     `json:"fps"`
	JitterMS float64     `json:"jitter_ms"`
	Frames   int64       `json:"frames"`
	Canvas   canvas.Info `json:"canvas"`
}

// Event types.
const (
	EventMode    = "mode"
	EventCommand = "command"
)

// Event is broadcast to subscribers on mode changes and executed commands.
type Event struct {
	Type    string    `json:"type"`
	From    mode.Mode `json:"from"`
	Mode    mode.Mode `json:"mode"`
	Command string    `json:"command,omitempty"`
	OK      bool      `json:"ok"`
	Message string    `json:"message,omitempty"`
	Time    time.Time `json:"time"`
}

// App is the painter application. Canvas state is owned by the Run goroutine;
// everything else talks to it through the command queue.
type App struct {
	config     Config
	settings   config.Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	painter    *painter.Painter
	hud        *ui.HUD
	meter      *fps.Meter
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	notifier   *notify.Notifier

	commands chan request
	done     chan struct{}

	mu        sync.RWMutex
	enabled   bool
	running   bool
	status    Status
	frame     []byte
	lastHands []detector.HandLandmarks
	quit      chan struct{}

	subMu sync.Mutex
	subs  map[chan Event]struct{}
}

// New creates an App. It does not open the camera.
func New(cfg Config) *App {
	s := cfg.Settings

	a := &App{
		config:     cfg,
		settings:   s,
		camera:     cfg.Camera,
		motion:     capture.NewMotionDetector(s.Camera.MotionThresh),
		detector:   cfg.Detector,
		hud:        ui.New(ui.ConfigFrom(s)),
		meter:      fps.NewMeter(fps.DefaultWindow),
		pluginMgr:  plugin.NewManager(s.PluginDir),
		pluginExec: plugin.NewExecutor(plugin.DefaultTimeout),
		notifier:   cfg.Notifier,
		commands:   make(chan request),
		done:       make(chan struct{}),
		quit:       make(chan struct{}),
		enabled:    true,
		subs:       make(map[chan Event]struct{}),
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Config{
			DeviceID:   s.Camera.DeviceID,
			Width:      s.Camera.Width,
			Height:     s.Camera.Height,
			FPS:        s.TargetFPS,
			Brightness: s.Camera.Brightness,
			Mirror:     s.Camera.Mirror,
		})
	}

	if a.detector == nil {
		if mp, err := detector.NewMediaPipeDetector(detector.Config{
			MaxHands:        s.Detector.MaxHands,
			MinConfidence:   s.Detector.MinConfidence,
			MinTrackingConf: s.Detector.MinTrackingConf,
		}); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	var prefs painter.Preferences
	if cfg.Store != nil {
		prefs = cfg.Store.Settings()
	}
	a.painter = painter.New(painterConfig(s), a.hud, prefs)
	a.status = a.snapshot(painter.Frame{})
	a.status.Enabled = true

	return a
}

// painterConfig maps the application settings onto the painter.
func painterConfig(s config.Config) painter.Config {
	pc := painter.DefaultConfig()

	pc.Canvas.Width = s.Canvas.Width
	pc.Canvas.Height = s.Canvas.Height
	pc.Canvas.Background = s.Canvas.Background
	pc.Canvas.HistorySize = s.Canvas.HistorySize
	pc.Canvas.DrawingWidth = s.Brush.Drawing
	pc.Canvas.EraserWidth = s.Brush.Eraser
	pc.Canvas.SelectionWidth = s.Brush.Selection
	pc.Canvas.SaveDir = s.Files.SaveDir
	pc.Canvas.Format = s.Files.Format
	if len(s.Palette) > 0 {
		pc.Canvas.Color = s.Palette[0].Color
	}

	pc.Mode.Threshold = s.Gesture.DrawingThreshold
	pc.Mode.Cooldown = s.Gesture.SelectionDelay
	return pc
}

// DiscoverPlugins scans the plugin directory.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// SetEnabled pauses or resumes gesture processing. Frames are still shown while paused.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	a.status.Enabled = enabled
	log.Printf("Gesture processing enabled: %v", enabled)
}

// IsEnabled returns whether gesture processing is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// IsRunning reports whether the frame loop is running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Status returns the latest status.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// LatestFrame returns the latest composite frame as JPEG, or nil before the first frame.
func (a *App) LatestFrame() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frame
}

// Quit asks the frame loop to stop.
func (a *App) Quit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
}

// Done is closed when Run returns.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Subscribe registers for events. The returned function unsubscribes.
func (a *App) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	a.subMu.Lock()
	a.subs[ch] = struct{}{}
	a.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.subMu.Lock()
			delete(a.subs, ch)
			a.subMu.Unlock()
			close(ch)
		})
	}
}

// publish delivers e to every subscriber without blocking.
func (a *App) publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	a.subMu.Lock()
	defer a.subMu.Unlock()

	for ch := range a.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// snapshot builds the painter part of a Status. It runs on the loop goroutine.
func (a *App) snapshot(f painter.Frame) Status {
	c := a.painter.Canvas()
	return Status{
		Hand:     f.Hand,
		Gesture:  f.Gesture.String(),
		Mode:     a.painter.Mode(),
		Color:    a.hud.ColorName(c.Tool().Color),
		Cooldown: a.painter.Cooldown(),
		FPS:      a.meter.FPS(),
		JitterMS: float64(a.meter.Jitter()) / float64(time.Millisecond),
		Canvas:   c.Info(),
	}
}

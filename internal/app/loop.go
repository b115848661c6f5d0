package app

import (
	"context"
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/tulika/internal/detector"
	"github.com/ayusman/tulika/internal/mode"
	"github.com/ayusman/tulika/internal/painter"
	"github.com/ayusman/tulika/internal/ui"
)

// Run opens the camera and processes frames until ctx is cancelled, Quit is
// called or the user presses q. It must be called from the main goroutine when
// windows are shown.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	select {
	case <-a.done:
		a.mu.Unlock()
		return ErrAlreadyRunning
	default:
	}
	a.running = true
	a.status.Running = true
	a.mu.Unlock()

	defer a.shutdown()

	if err := a.camera.Open(); err != nil {
		return err
	}
	log.Println("Frame loop started")

	var win *windows
	var composite *gocv.Window
	if !a.config.Headless {
		composite = gocv.NewWindow(WindowComposite)
		defer composite.Close()
		canvasWin := gocv.NewWindow(WindowCanvas)
		defer canvasWin.Close()
		win = &windows{composite: composite, canvas: canvasWin}
	}

	interval := time.Second / time.Duration(max(a.settings.TargetFPS, 1))

	for {
		start := time.Now()

		select {
		case <-ctx.Done():
			return nil
		case <-a.quit:
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			if !a.sleep(ctx, interval) {
				return nil
			}
			continue
		}

		out := a.processFrame(frame, win)
		frame.Close()
		a.meter.Tick()

		if composite != nil {
			key := composite.WaitKey(1)
			if a.handleKey(key) {
				return nil
			}
		}

		a.drainCommands()
		a.publishFrame(out)

		if !a.sleep(ctx, interval-time.Since(start)) {
			return nil
		}
	}
}

// sleep waits for d while still serving commands. It returns false when the loop should stop.
func (a *App) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-a.quit:
			return false
		case req := <-a.commands:
			a.serve(req)
		case <-timer.C:
			return true
		}
	}
}

// display shows images in a window.
type display interface {
	IMShow(img gocv.Mat) error
}

// windows holds the displays used when not headless.
type windows struct {
	composite display
	canvas    display
}

// processFrame runs one frame through detection, the painter and the HUD.
// With win nil nothing is shown.
func (a *App) processFrame(frame *gocv.Mat, win *windows) painter.Frame {
	w, h := a.settings.Canvas.Width, a.settings.Canvas.Height
	if frame.Cols() != w || frame.Rows() != h {
		gocv.Resize(*frame, frame, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
	}

	var out painter.Frame
	if a.IsEnabled() {
		hands := a.detect(frame)
		out = a.painter.Step(detector.Primary(hands).Pixels(w, h))
		if out.Transition != nil {
			a.publish(Event{Type: EventMode, From: out.Transition.From, Mode: out.Transition.To})
		}
	} else if t := a.painter.Reset(); t != nil {
		a.publish(Event{Type: EventMode, From: t.From, Mode: t.To})
	}

	c := a.painter.Canvas()
	view := c.CompositeOver(*frame)
	defer view.Close()

	a.hud.Draw(&view, ui.State{
		Info:     c.Info(),
		Tool:     c.Tool(),
		Feedback: out.Feedback,
		FPS:      a.meter.FPS(),
		Jitter:   a.meter.Jitter(),
	})

	if win != nil {
		win.composite.IMShow(view)
		c.View(func(surface gocv.Mat) { win.canvas.IMShow(surface) })
	}

	a.storeFrame(view)
	return out
}

// detect returns the hands in frame. With the motion gate on, still frames reuse the last result.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	if a.settings.Camera.MotionGate {
		if moved, _ := a.motion.Detect(frame); !moved {
			return a.lastHands
		}
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		hands = nil
	}
	a.lastHands = hands
	return hands
}

func (a *App) storeFrame(view gocv.Mat) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, view)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	a.mu.Lock()
	a.frame = data
	a.mu.Unlock()
}

func (a *App) publishFrame(out painter.Frame) {
	st := a.snapshot(out)

	a.mu.Lock()
	st.Running = a.running
	st.Enabled = a.enabled
	st.Frames = a.status.Frames + 1
	a.status = st
	a.mu.Unlock()
}

// handleKey maps a HighGUI key code to an action. It returns true on quit.
func (a *App) handleKey(key int) bool {
	if key < 0 {
		return false
	}

	switch rune(key & 0xff) {
	case 'q', 'Q':
		log.Println("Quit requested")
		return true
	case 'c', 'C':
		a.execute(painter.Command{Name: painter.CmdClear})
	case 's', 'S':
		a.execute(painter.Command{Name: painter.CmdSave})
	case 'l', 'L':
		a.execute(painter.Command{Name: painter.CmdLoad, Arg: a.pickFile()})
	case 'z', 'Z':
		a.execute(painter.Command{Name: painter.CmdUndo})
	case 'y', 'Y':
		a.execute(painter.Command{Name: painter.CmdRedo})
	case 'e', 'E':
		a.execute(painter.Command{Name: painter.CmdEraser})
	case 'b', 'B':
		log.Printf("Brush panel visible: %v", a.hud.ToggleBrushPanel())
	case 'h', 'H':
		a.hud.ToggleHelp()
	case 'i', 'I':
		a.hud.ToggleInfo()
	case 'p', 'P':
		a.copyToClipboard()
	}
	return false
}

// shutdown releases capture and detection resources once Run returns.
func (a *App) shutdown() {
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if err := a.detector.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	a.mu.Lock()
	a.running = false
	a.status.Running = false
	a.status.Mode = mode.Idle
	a.mu.Unlock()

	close(a.done)
	log.Println("Frame loop stopped")
}

// Close releases the painter. Call it after Run has returned.
func (a *App) Close() error {
	return a.painter.Close()
}

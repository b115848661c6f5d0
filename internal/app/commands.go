package app

import (
	"context"
	"errors"
	"log"

	"github.com/sqweek/dialog"

	"github.com/ayusman/tulika/internal/clipboard"
	"github.com/ayusman/tulika/internal/painter"
	"github.com/ayusman/tulika/internal/plugin"
	"github.com/ayusman/tulika/internal/store"
)

// request is a function to run on the loop goroutine.
type request struct {
	fn   func()
	done chan struct{}
}

func (a *App) serve(req request) {
	req.fn()
	close(req.done)
}

// drainCommands serves every queued request without blocking.
func (a *App) drainCommands() {
	for {
		select {
		case req := <-a.commands:
			a.serve(req)
		default:
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it.
func (a *App) do(ctx context.Context, fn func()) error {
	if !a.IsRunning() {
		return ErrNotRunning
	}

	req := request{fn: fn, done: make(chan struct{})}
	select {
	case a.commands <- req:
	case <-a.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	// Once accepted the request always completes.
	<-req.done
	return nil
}

// Execute queues cmd for the frame loop and waits for its result.
// A load without a path opens the most recently saved drawing.
func (a *App) Execute(ctx context.Context, cmd painter.Command) (painter.Result, error) {
	var r painter.Result
	err := a.do(ctx, func() {
		if cmd.Name == painter.CmdLoad && cmd.Arg == "" {
			cmd.Arg = a.latestDrawing()
		}
		r = a.execute(cmd)
	})
	return r, err
}

// Snapshot returns the drawing surface encoded in format, e.g. "png".
func (a *App) Snapshot(ctx context.Context, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if doErr := a.do(ctx, func() {
		data, err = a.painter.Canvas().Encode(format)
	}); doErr != nil {
		return nil, doErr
	}
	return data, err
}

// execute runs cmd on the loop goroutine and fires the follow-up hooks.
func (a *App) execute(cmd painter.Command) painter.Result {
	r := a.painter.Execute(cmd)

	if r.OK {
		switch cmd.Name {
		case painter.CmdSave:
			a.afterSave(r.Path)
		case painter.CmdClear:
			a.dispatch(&plugin.Request{Event: plugin.EventCleared})
		}
	}

	a.publish(Event{
		Type:    EventCommand,
		Command: cmd.Name,
		OK:      r.OK,
		Message: r.Message,
		Mode:    a.painter.Mode(),
	})
	return r
}

// afterSave records the drawing, notifies the desktop and runs save plugins.
func (a *App) afterSave(path string) {
	info := a.painter.Canvas().Info()

	d := &store.Drawing{
		Path:        path,
		Width:       info.Width,
		Height:      info.Height,
		PixelsDrawn: info.PixelsDrawn,
		Coverage:    info.CoveragePercent,
	}
	if a.config.Store != nil {
		if err := a.config.Store.Drawings().Create(d); err != nil {
			log.Printf("Failed to record drawing: %v", err)
		}
	}

	a.notifier.Saved(path)

	a.dispatch(&plugin.Request{
		Event:     plugin.EventSaved,
		Path:      path,
		DrawingID: d.ID,
		Width:     d.Width,
		Height:    d.Height,
	})
}

// dispatch runs plugins off the frame loop.
func (a *App) dispatch(req *plugin.Request) {
	if len(a.pluginMgr.Subscribers(req.Event)) == 0 {
		return
	}
	go a.pluginExec.Dispatch(context.Background(), a.pluginMgr, req)
}

// latestDrawing returns the path of the most recently saved drawing, or "".
func (a *App) latestDrawing() string {
	if a.config.Store == nil {
		return ""
	}
	d, err := a.config.Store.Drawings().Latest()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to look up latest drawing: %v", err)
		}
		return ""
	}
	return d.Path
}

// pickFile asks the user for an image, falling back to the latest saved drawing.
func (a *App) pickFile() string {
	path, err := dialog.File().
		Title("Load drawing").
		Filter("Images", "png", "jpg", "jpeg", "bmp", "tif", "tiff", "webp").
		SetStartDir(a.settings.Files.SaveDir).
		Load()
	if err == nil {
		return path
	}
	if !errors.Is(err, dialog.ErrCancelled) {
		log.Printf("File dialog unavailable: %v", err)
	}
	return a.latestDrawing()
}

// copyToClipboard puts the drawing surface on the clipboard as PNG.
func (a *App) copyToClipboard() {
	data, err := a.painter.Canvas().Encode("png")
	if err != nil {
		log.Printf("Failed to encode canvas: %v", err)
		return
	}
	if err := clipboard.WritePNG(data); err != nil {
		log.Printf("Failed to copy canvas: %v", err)
		return
	}
	log.Println("Canvas copied to clipboard")
	a.notifier.Copied()
}

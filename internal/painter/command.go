package painter

import (
	"errors"
	"fmt"
	"log"
)

// ErrUnknownCommand is returned for a command name Execute does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Command names.
const (
	CmdClear  = "clear"
	CmdSave   = "save"
	CmdLoad   = "load"
	CmdUndo   = "undo"
	CmdRedo   = "redo"
	CmdEraser = "eraser"
)

// Commands lists every command Execute accepts.
var Commands = []string{CmdClear, CmdSave, CmdLoad, CmdUndo, CmdRedo, CmdEraser}

// Command is a canvas operation requested from outside the frame loop.
type Command struct {
	Name string `json:"name"`
	// Arg is the file name for save and load, or "on"/"off" for eraser.
	Arg string `json:"arg,omitempty"`
}

// Result reports the outcome of a Command. Nothing to undo or redo is
// reported with OK false and no error.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Err     error  `json:"-"`
}

// Execute runs cmd against the canvas.
func (p *Painter) Execute(cmd Command) Result {
	var r Result

	switch cmd.Name {
	case CmdClear:
		p.canvas.Clear()
		r = Result{OK: true, Message: "Canvas cleared"}

	case CmdSave:
		path, err := p.canvas.Save(cmd.Arg)
		if err != nil {
			r = Result{Message: "Failed to save drawing", Err: err}
		} else {
			r = Result{OK: true, Message: "Drawing saved to: " + path, Path: path}
		}

	case CmdLoad:
		if cmd.Arg == "" {
			r = Result{Message: "No file to load", Err: fmt.Errorf("load: empty path")}
			break
		}
		path := p.canvas.Path(cmd.Arg)
		if err := p.canvas.Load(path); err != nil {
			r = Result{Message: "Failed to load drawing", Err: err}
		} else {
			r = Result{OK: true, Message: "Drawing loaded from: " + path, Path: path}
		}

	case CmdUndo:
		if p.canvas.Undo() {
			r = Result{OK: true, Message: "Undo performed"}
		} else {
			r = Result{Message: "Nothing to undo"}
		}

	case CmdRedo:
		if p.canvas.Redo() {
			r = Result{OK: true, Message: "Redo performed"}
		} else {
			r = Result{Message: "Nothing to redo"}
		}

	case CmdEraser:
		on := !p.canvas.Tool().Eraser
		switch cmd.Arg {
		case "on":
			on = true
		case "off":
			on = false
		}
		p.setEraser(on)
		state := "off"
		if on {
			state = "on"
		}
		r = Result{OK: true, Message: "Eraser " + state}

	default:
		r = Result{Message: "Unknown command", Err: fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)}
	}

	if r.Err != nil {
		log.Printf("%s: %v", r.Message, r.Err)
	} else {
		log.Println(r.Message)
	}
	return r
}

// Package clipboard publishes canvas images to the system clipboard.
package clipboard

import (
	"errors"
	"os"
	"runtime"
)

var (
	// ErrNoDisplay is returned on X11/Wayland systems without a display.
	ErrNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrUnsupported is returned when the binary was built without clipboard support.
	ErrUnsupported = errors.New("clipboard operations require cgo support")
	// ErrEmpty is returned when there is nothing to publish.
	ErrEmpty = errors.New("no image data")
)

// hasDisplay reports whether a clipboard owner can exist. Only X11/Wayland systems need one.
func hasDisplay() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return true
}

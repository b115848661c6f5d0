//go:build !cgo

package clipboard

func check() error {
	if !hasDisplay() {
		return ErrNoDisplay
	}
	return ErrUnsupported
}

// WritePNG publishes PNG-encoded image data.
func WritePNG(data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	return check()
}

// WriteText publishes text, such as the path of a saved drawing.
func WriteText(string) error {
	return check()
}

package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if n := binary.BigEndian.Uint32(out[:4]); n != 4 {
		t.Errorf("length prefix = %d, want 4", n)
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %v, want %v", out[4:], payload)
	}
}

func fullHandJSON() string {
	points := make([]string, NumLandmarks)
	for i := range points {
		points[i] = `{"x":0.5,"y":0.25,"z":0}`
	}
	return `{"points":[` + strings.Join(points, ",") + `],"handedness":"Right","score":0.9}`
}

func TestReadHands(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantHands int
		wantErr   bool
	}{
		{"no hands", `{"hands":[]}` + "\n", 0, false},
		{"one hand", `{"hands":[` + fullHandJSON() + `]}` + "\n", 1, false},
		{"partial hand dropped", `{"hands":[{"points":[{"x":0.1,"y":0.1,"z":0}]}]}` + "\n", 0, false},
		{"service error", `{"error":"model failed"}` + "\n", 0, true},
		{"malformed", "not json\n", 0, true},
		{"truncated", `{"hands":[]}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := readHands(bufio.NewReader(strings.NewReader(tt.line)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readHands() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(hands) != tt.wantHands {
				t.Errorf("got %d hands, want %d", len(hands), tt.wantHands)
			}
		})
	}
}

func TestReadHands_Values(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(`{"hands":[` + fullHandJSON() + `]}` + "\n"))

	hands, err := readHands(r)
	if err != nil {
		t.Fatalf("readHands() error = %v", err)
	}

	h := hands[0]
	if h.Handedness != "Right" || h.Score != 0.9 {
		t.Errorf("unexpected metadata: %s %f", h.Handedness, h.Score)
	}
	px := h.Pixels(800, 600)
	if px[IndexTip].X != 400 || px[IndexTip].Y != 150 {
		t.Errorf("unexpected index tip %v", px[IndexTip])
	}
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "service.py")
	if err := os.WriteFile(present, []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := lookup([]string{filepath.Join(dir, "missing.py"), present}); got != present {
		t.Errorf("lookup() = %q, want %q", got, present)
	}
	if got := lookup([]string{filepath.Join(dir, "missing.py")}); got != "" {
		t.Errorf("lookup() = %q, want empty", got)
	}
}

func TestMediaPipeDetector_ImplementsDetector(t *testing.T) {
	var _ Detector = (*MediaPipeDetector)(nil)
}

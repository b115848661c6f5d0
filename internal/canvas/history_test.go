package canvas

import (
	"testing"

	"gocv.io/x/gocv"
)

// marked returns a 1x1 single-channel Mat holding v, so entries can be told apart.
func marked(v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, 0, 0, 0), 1, 1, gocv.MatTypeCV8U)
}

func value(m gocv.Mat) uint8 {
	return m.GetUCharAt(0, 0)
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	defer h.Reset()

	if h.Cursor() != -1 {
		t.Errorf("expected cursor -1, got %d", h.Cursor())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("expected nothing to undo or redo")
	}
	if _, ok := h.Undo(); ok {
		t.Error("expected undo to fail on empty history")
	}
	if _, ok := h.Redo(); ok {
		t.Error("expected redo to fail on empty history")
	}
}

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistory(5)
	defer h.Reset()

	for i := 1; i <= 3; i++ {
		h.Push(marked(float64(i)))
	}
	if h.Len() != 3 || h.Cursor() != 2 {
		t.Fatalf("expected len 3 cursor 2, got len %d cursor %d", h.Len(), h.Cursor())
	}
	if h.CanRedo() {
		t.Error("expected no redo at the end")
	}

	m, ok := h.Undo()
	if !ok || value(m) != 2 {
		t.Errorf("expected undo to entry 2, got %d (ok=%v)", value(m), ok)
	}
	m, ok = h.Undo()
	if !ok || value(m) != 1 {
		t.Errorf("expected undo to entry 1, got %d (ok=%v)", value(m), ok)
	}
	if _, ok := h.Undo(); ok {
		t.Error("expected undo to fail at the first entry")
	}

	m, ok = h.Redo()
	if !ok || value(m) != 2 {
		t.Errorf("expected redo to entry 2, got %d (ok=%v)", value(m), ok)
	}
}

func TestHistory_PushTruncatesRedoBranch(t *testing.T) {
	h := NewHistory(5)
	defer h.Reset()

	h.Push(marked(1))
	h.Push(marked(2))
	h.Push(marked(3))
	h.Undo()
	h.Undo()

	h.Push(marked(9))

	if h.Len() != 2 {
		t.Errorf("expected 2 entries after truncation, got %d", h.Len())
	}
	if h.CanRedo() {
		t.Error("expected redo branch to be discarded")
	}
	m, _ := h.Undo()
	if value(m) != 1 {
		t.Errorf("expected entry 1 before the new push, got %d", value(m))
	}
}

func TestHistory_Truncate(t *testing.T) {
	h := NewHistory(5)
	defer h.Reset()

	h.Push(marked(1))
	h.Push(marked(2))
	h.Undo()
	h.Truncate()

	if h.Len() != 1 || h.Cursor() != 0 {
		t.Errorf("expected len 1 cursor 0, got len %d cursor %d", h.Len(), h.Cursor())
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)
	defer h.Reset()

	for i := 1; i <= 4; i++ {
		h.Push(marked(float64(i)))
		if h.Len() > h.Capacity() {
			t.Fatalf("history exceeded capacity: %d", h.Len())
		}
	}

	if h.Len() != 3 || h.Cursor() != 2 {
		t.Fatalf("expected len 3 cursor 2, got len %d cursor %d", h.Len(), h.Cursor())
	}

	var seen []uint8
	for {
		m, ok := h.Undo()
		if !ok {
			break
		}
		seen = append(seen, value(m))
	}
	if len(seen) != 2 || seen[0] != 3 || seen[1] != 2 {
		t.Errorf("expected undo through 3 and 2, got %v", seen)
	}
}

func TestHistory_EvictionKeepsCursorRelative(t *testing.T) {
	h := NewHistory(3)
	defer h.Reset()

	h.Push(marked(1))
	h.Push(marked(2))
	h.Push(marked(3))
	h.Undo()

	// Pushing from the middle truncates, so nothing is evicted
	h.Push(marked(4))
	if h.Len() != 3 || h.Cursor() != 2 {
		t.Errorf("expected len 3 cursor 2, got len %d cursor %d", h.Len(), h.Cursor())
	}

	h.Push(marked(5))
	m, _ := h.Undo()
	if value(m) != 4 {
		t.Errorf("expected entry 4 after eviction, got %d", value(m))
	}
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(3)
	h.Push(marked(1))
	h.Push(marked(2))

	h.Reset()

	if h.Len() != 0 || h.Cursor() != -1 {
		t.Errorf("expected empty history, got len %d cursor %d", h.Len(), h.Cursor())
	}
}

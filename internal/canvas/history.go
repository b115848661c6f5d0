package canvas

import "gocv.io/x/gocv"

// History is a bounded linear undo list of surface snapshots.
// The cursor is -1 while empty and otherwise points at the current entry.
type History struct {
	entries  []gocv.Mat
	cursor   int
	capacity int
}

// NewHistory creates an empty History holding at most capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		cursor:   -1,
		capacity: capacity,
	}
}

// Push appends a snapshot after the cursor, discarding the redo branch.
// History takes ownership of snap. When full, the oldest entry is evicted.
func (h *History) Push(snap gocv.Mat) {
	h.Truncate()
	h.entries = append(h.entries, snap)
	h.cursor++

	if len(h.entries) > h.capacity {
		h.entries[0].Close()
		h.entries = h.entries[1:]
		h.cursor--
	}
}

// Truncate discards every entry after the cursor.
func (h *History) Truncate() {
	for i := h.cursor + 1; i < len(h.entries); i++ {
		h.entries[i].Close()
	}
	h.entries = h.entries[:h.cursor+1]
}

// Undo moves the cursor back and returns the entry it lands on.
// The returned Mat is owned by History and must not be closed.
func (h *History) Undo() (gocv.Mat, bool) {
	if !h.CanUndo() {
		return gocv.Mat{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward and returns the entry it lands on.
func (h *History) Redo() (gocv.Mat, bool) {
	if !h.CanRedo() {
		return gocv.Mat{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// CanUndo reports whether an earlier entry exists.
func (h *History) CanUndo() bool {
	return h.cursor > 0 && h.cursor < len(h.entries)
}

// CanRedo reports whether a later entry exists.
func (h *History) CanRedo() bool {
	return h.cursor >= 0 && h.cursor < len(h.entries)-1
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the index of the current entry, or -1.
func (h *History) Cursor() int {
	return h.cursor
}

// Capacity returns the maximum number of snapshots.
func (h *History) Capacity() int {
	return h.capacity
}

// Reset discards every snapshot.
func (h *History) Reset() {
	for _, m := range h.entries {
		m.Close()
	}
	h.entries = nil
	h.cursor = -1
}

package server

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/tulika/internal/app"
	"github.com/ayusman/tulika/internal/mode"
	"github.com/ayusman/tulika/internal/painter"
	"github.com/ayusman/tulika/internal/store"
)

// fakePainter is a Painter whose frames and events are fed by the test.
type fakePainter struct {
	mu       sync.Mutex
	commands []painter.Command
	frame    []byte
	enabled  bool
	subs     []chan app.Event
	// subscribed receives a value for every Subscribe call.
	subscribed chan struct{}
}

func newFakePainter() *fakePainter {
	return &fakePainter{enabled: true, subscribed: make(chan struct{}, 8)}
}

func (f *fakePainter) Execute(ctx context.Context, cmd painter.Command) (painter.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return painter.Result{OK: true, Message: cmd.Name}, nil
}

func (f *fakePainter) Snapshot(ctx context.Context, format string) ([]byte, error) {
	return []byte("canvas"), nil
}

func (f *fakePainter) Status() app.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return app.Status{Running: true, Enabled: f.enabled, Mode: mode.Idle}
}

func (f *fakePainter) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

func (f *fakePainter) LatestFrame() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

func (f *fakePainter) setFrame(frame []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frame = frame
}

func (f *fakePainter) Subscribe() (<-chan app.Event, func()) {
	ch := make(chan app.Event, 4)

	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()

	f.subscribed <- struct{}{}
	return ch, func() {}
}

// publish sends e to every subscriber.
func (f *fakePainter) publish(e app.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- e
	}
}

// newTestStore creates a new Store backed by a temporary database file.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStreamHandler_ServesFrames(t *testing.T) {
	p := newFakePainter()
	p.setFrame([]byte("jpeg-one"))

	handler := NewStreamHandler(p, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("unexpected Content-Type %q", got)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: 8\r\n\r\njpeg-one\r\n") {
		t.Errorf("unexpected body start %q", body)
	}
	// An unchanged frame is sent once
	if n := strings.Count(body, "--frame"); n != 1 {
		t.Errorf("expected 1 part, got %d", n)
	}
}

func TestStreamHandler_WaitsForFirstFrame(t *testing.T) {
	p := newFakePainter()
	handler := NewStreamHandler(p, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx))

	if rec.Body.Len() != 0 {
		t.Errorf("expected no parts before the first frame, got %q", rec.Body.String())
	}
}

func TestNewStreamHandler_DefaultInterval(t *testing.T) {
	if h := NewStreamHandler(newFakePainter(), 0); h.interval != DefaultStreamInterval {
		t.Errorf("expected default interval, got %s", h.interval)
	}
}

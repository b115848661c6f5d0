package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/tulika/internal/app"
)

// StatusHandler reports the painter state and pauses or resumes gesture processing.
type StatusHandler struct {
	painter Painter
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(p Painter) *StatusHandler {
	return &StatusHandler{painter: p}
}

type setEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and POST /api/status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.painter.Status())

	case http.MethodPost, http.MethodPut:
		var req setEnabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.painter.SetEnabled(*req.Enabled)
		writeJSON(w, http.StatusOK, h.painter.Status())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CanvasHandler serves the drawing surface as an image.
type CanvasHandler struct {
	painter Painter
}

// NewCanvasHandler creates a new CanvasHandler.
func NewCanvasHandler(p Painter) *CanvasHandler {
	return &CanvasHandler{painter: p}
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// ServeHTTP handles GET /api/canvas?format=png|jpg.
func (h *CanvasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}
	contentType, ok := contentTypes[format]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unsupported format")
		return
	}

	data, err := h.painter.Snapshot(r.Context(), format)
	if err != nil {
		if errors.Is(err, app.ErrNotRunning) {
			writeError(w, http.StatusServiceUnavailable, "Painter is not running")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to encode canvas")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

// Package api provides HTTP API handlers for the Tulika painter.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayusman/tulika/internal/app"
	"github.com/ayusman/tulika/internal/painter"
)

// Painter is the part of the running application the handlers drive.
type Painter interface {
	Execute(ctx context.Context, cmd painter.Command) (painter.Result, error)
	Snapshot(ctx context.Context, format string) ([]byte, error)
	Status() app.Status
	SetEnabled(enabled bool)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

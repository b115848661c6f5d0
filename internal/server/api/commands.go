package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ayusman/tulika/internal/app"
	"github.com/ayusman/tulika/internal/painter"
)

// CommandHandler runs canvas commands such as save, undo and clear.
type CommandHandler struct {
	painter Painter
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(p Painter) *CommandHandler {
	return &CommandHandler{painter: p}
}

type commandRequest struct {
	Arg string `json:"arg"`
}

type listCommandsResponse struct {
	Commands []string `json:"commands"`
}

// ServeHTTP handles GET /api/commands and POST /api/commands/{name}.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/commands")
	name = strings.TrimPrefix(name, "/")

	if name == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, listCommandsResponse{Commands: painter.Commands})
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !slices.Contains(painter.Commands, name) {
		writeError(w, http.StatusNotFound, "Unknown command")
		return
	}

	// The body is optional
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if (name == painter.CmdSave || name == painter.CmdLoad) && req.Arg != "" && !isFileName(req.Arg) {
		writeError(w, http.StatusUnprocessableEntity, "File name must not contain a directory")
		return
	}

	result, err := h.painter.Execute(r.Context(), painter.Command{Name: name, Arg: req.Arg})
	if err != nil {
		if errors.Is(err, app.ErrNotRunning) {
			writeError(w, http.StatusServiceUnavailable, "Painter is not running")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if result.Err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// isFileName reports whether name is a plain file name, so it resolves
// inside the save directory.
func isFileName(name string) bool {
	return name != "." && filepath.IsLocal(name) && filepath.Base(name) == name
}

package api

import (
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ayusman/tulika/internal/store"
)

// MaxThumbnailWidth bounds the width query parameter of the image endpoint.
const MaxThumbnailWidth = 2048

// DrawingHandler handles HTTP requests for saved drawings.
type DrawingHandler struct {
	store *store.Store
}

// NewDrawingHandler creates a new DrawingHandler with the given store.
func NewDrawingHandler(s *store.Store) *DrawingHandler {
	return &DrawingHandler{store: s}
}

type listDrawingsResponse struct {
	Drawings []*store.Drawing `json:"drawings"`
}

// ServeHTTP routes /api/drawings, /api/drawings/{id} and /api/drawings/{id}/image.
func (h *DrawingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/drawings")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "image" && r.Method == http.MethodGet:
		h.image(w, r, id)
	case sub != "":
		writeError(w, http.StatusNotFound, "Not found")
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/drawings, newest first.
func (h *DrawingHandler) list(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.store.Drawings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drawings")
		return
	}
	if drawings == nil {
		drawings = []*store.Drawing{}
	}
	writeJSON(w, http.StatusOK, listDrawingsResponse{Drawings: drawings})
}

// lookup fetches a drawing, writing the error response itself when it fails.
func (h *DrawingHandler) lookup(w http.ResponseWriter, id string) (*store.Drawing, bool) {
	d, err := h.store.Drawings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Drawing not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get drawing")
		return nil, false
	}
	return d, true
}

// get handles GET /api/drawings/{id}.
func (h *DrawingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if d, ok := h.lookup(w, id); ok {
		writeJSON(w, http.StatusOK, d)
	}
}

// delete handles DELETE /api/drawings/{id}. With ?file=true the image file is removed too.
func (h *DrawingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	d, ok := h.lookup(w, id)
	if !ok {
		return
	}

	if err := h.store.Drawings().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete drawing")
		return
	}

	if r.URL.Query().Get("file") == "true" {
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			writeError(w, http.StatusInternalServerError, "Failed to remove image file")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// image handles GET /api/drawings/{id}/image[?width=N]. Without a width the
// file is served as saved; with one it is scaled down and sent as PNG.
func (h *DrawingHandler) image(w http.ResponseWriter, r *http.Request, id string) {
	d, ok := h.lookup(w, id)
	if !ok {
		return
	}

	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > MaxThumbnailWidth {
			writeError(w, http.StatusBadRequest, "Invalid width")
			return
		}
		width = n
	}

	if width == 0 {
		if _, err := os.Stat(d.Path); err != nil {
			writeError(w, http.StatusNotFound, "Image file missing")
			return
		}
		http.ServeFile(w, r, d.Path)
		return
	}

	thumb, err := Thumbnail(d.Path, width)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "Image file missing")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read image")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, thumb)
}

// Thumbnail decodes the image at path and scales it to width, keeping the
// aspect ratio. Images narrower than width are returned unscaled.
func Thumbnail(path string, width int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	if b.Dx() <= width {
		return src, nil
	}

	height := max(b.Dy()*width/b.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst, nil
}

package frames

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/httputil"
)

// Enqueuer triggers background frame generation.
type Enqueuer interface {
	EnqueueFramesMovie(movieID uuid.UUID) (string, error)
	EnqueueFramesLibrary() (string, error)
}

type Handler struct {
	repo     *Repository
	enqueuer Enqueuer
	dataDir  string
}

func NewHandler(repo *Repository, enqueuer Enqueuer, dataDir string) *Handler {
	return &Handler{repo: repo, enqueuer: enqueuer, dataDir: dataDir}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/image", h.image)
	r.Post("/generate", h.generateLibrary)
	r.Get("/{movieID}", h.list)
	r.Post("/{movieID}/generate", h.generateMovie)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	items, err := h.repo.ListByMovie(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load frames")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

// image serves a frame JPEG. Only paths inside the data dir are
// allowed; everything else is a traversal attempt. Symlinks are
// resolved first so a link planted inside the data dir cannot point
// the prefix check at a file outside it.
func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_PATH", "path parameter required")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "path outside data directory")
		return
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "frame not found")
		return
	}
	root := filepath.Clean(h.dataDir)
	if realRoot, err := filepath.EvalSymlinks(root); err == nil {
		root = realRoot
	}
	if !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "path outside data directory")
		return
	}
	http.ServeFile(w, r, resolved)
}

func (h *Handler) generateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	taskID, err := h.enqueuer.EnqueueFramesMovie(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "failed to enqueue frame generation")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

func (h *Handler) generateLibrary(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.enqueuer.EnqueueFramesLibrary()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "failed to enqueue frame generation")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

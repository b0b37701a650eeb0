package paths

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/auth"
	"github.com/reelkeep/reelkeep/internal/httputil"
)

// Enqueuer triggers background scans.
type Enqueuer interface {
	EnqueueScan(pathID uuid.UUID) (string, error)
}

// Refresher is told when the indexed path set changes so the
// filesystem watcher can re-sync its watch list.
type Refresher interface {
	Refresh()
}

type Handler struct {
	repo     *Repository
	enqueuer Enqueuer
	watcher  Refresher
}

func NewHandler(repo *Repository, enqueuer Enqueuer, watcher Refresher) *Handler {
	return &Handler{repo: repo, enqueuer: enqueuer, watcher: watcher}
}

func (h *Handler) refreshWatcher() {
	if h.watcher != nil {
		h.watcher.Refresh()
	}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/scan", h.scanAll)
	r.Patch("/{pathID}", h.setEnabled)
	r.Delete("/{pathID}", h.remove)
	r.Post("/{pathID}/scan", h.scan)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list paths")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil || !u.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	var req struct {
		FolderPath string `json:"folder_path"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || req.FolderPath == "" {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "folder_path required")
		return
	}
	info, err := os.Stat(req.FolderPath)
	if err != nil || !info.IsDir() {
		httputil.WriteError(w, http.StatusBadRequest, "NOT_A_DIRECTORY", "folder_path must be an existing directory")
		return
	}
	p, err := h.repo.Create(req.FolderPath)
	if err != nil {
		httputil.WriteError(w, http.StatusConflict, "CREATE_FAILED", "path already indexed or invalid")
		return
	}
	h.refreshWatcher()
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) setEnabled(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil || !u.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "pathID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid path id")
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.repo.SetEnabled(id, req.Enabled); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update path")
		return
	}
	h.refreshWatcher()
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"id": id, "enabled": req.Enabled})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil || !u.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "pathID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid path id")
		return
	}
	if err := h.repo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete path")
		return
	}
	h.refreshWatcher()
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "pathID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid path id")
		return
	}
	if _, err := h.repo.GetByID(id); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "path not found")
		return
	}
	taskID, err := h.enqueuer.EnqueueScan(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "failed to enqueue scan")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

func (h *Handler) scanAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListEnabled()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list paths")
		return
	}
	taskIDs := make([]string, 0, len(items))
	for _, p := range items {
		taskID, err := h.enqueuer.EnqueueScan(p.ID)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "failed to enqueue scan")
			return
		}
		taskIDs = append(taskIDs, taskID)
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]interface{}{"task_ids": taskIDs})
}

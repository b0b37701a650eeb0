package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reelkeep/reelkeep/internal/auth"
	"github.com/reelkeep/reelkeep/internal/httputil"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.getAll)
	r.Put("/{key}", h.set)
	r.Delete("/{key}", h.remove)
	return r
}

func (h *Handler) getAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.GetAll()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load settings")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil || !u.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	key := chi.URLParam(r, "key")
	if !IsKnownKey(key) {
		httputil.WriteError(w, http.StatusBadRequest, "UNKNOWN_KEY", "unknown setting key")
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if err := h.repo.Set(key, req.Value); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to save setting")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil || !u.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	key := chi.URLParam(r, "key")
	if err := h.repo.Delete(key); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete setting")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": key})
}

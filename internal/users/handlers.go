package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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
	r.Get("/", h.list)
	r.Get("/me", h.me)
	r.Post("/", h.create)
	r.Put("/me/password", h.changePassword)
	r.Put("/{userID}/admin", h.setAdmin)
	r.Delete("/{userID}", h.remove)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil || !u.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}
	items, err := h.repo.List()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list users")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	cu := auth.UserFromContext(r.Context())
	if cu == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}
	u, err := h.repo.GetByID(cu.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	cu := auth.UserFromContext(r.Context())
	if cu == nil || !cu.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	req.Username = auth.NormalizeUsername(req.Username)
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "username and password are required")
		return
	}
	if err := auth.ValidatePassword(req.Password, 8, false); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
		return
	}

	// Cheap duplicate check before paying for a bcrypt hash. The unique
	// constraint still backstops races.
	if existing, err := h.repo.GetByUsername(req.Username); err == nil && existing != nil {
		httputil.WriteError(w, http.StatusConflict, "USERNAME_EXISTS", "username already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to hash password")
		return
	}

	u, err := h.repo.Create(req.Username, hash, req.IsAdmin)
	if err != nil {
		httputil.WriteError(w, http.StatusConflict, "USERNAME_EXISTS", "username already taken")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) setAdmin(w http.ResponseWriter, r *http.Request) {
	cu := auth.UserFromContext(r.Context())
	if cu == nil || !cu.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid user id")
		return
	}
	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if id == cu.UserID && !req.IsAdmin {
		httputil.WriteError(w, http.StatusBadRequest, "SELF_DEMOTE", "cannot remove your own admin access")
		return
	}
	if err := h.repo.SetAdmin(id, req.IsAdmin); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"id": id, "is_admin": req.IsAdmin})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	cu := auth.UserFromContext(r.Context())
	if cu == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	u, err := h.repo.GetByID(cu.UserID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "current password is incorrect")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword, 8, false); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to hash password")
		return
	}
	if err := h.repo.UpdatePassword(cu.UserID, hash); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update password")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	cu := auth.UserFromContext(r.Context())
	if cu == nil || !cu.IsAdmin {
		httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid user id")
		return
	}
	if id == cu.UserID {
		httputil.WriteError(w, http.StatusBadRequest, "SELF_DELETE", "cannot delete your own account")
		return
	}
	if err := h.repo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete user")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

package auth

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/httputil"
)

type Handler struct {
	db      *sql.DB
	auth    *Auth
	limiter *LoginLimiter
}

func NewHandler(db *sql.DB, a *Auth) *Handler {
	return &Handler{db: db, auth: a, limiter: NewLoginLimiter()}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	return r
}

// register creates a new account. The first account on a fresh
// install becomes the admin; after that only admins may register
// further users through the users API.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	req.Username = NormalizeUsername(req.Username)
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "username and password are required")
		return
	}

	if err := ValidatePassword(req.Password, 8, false); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
		return
	}

	var count int
	h.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	isAdmin := count == 0
	if !isAdmin {
		u := UserFromContext(r.Context())
		if u == nil || !u.IsAdmin {
			httputil.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to hash password")
		return
	}

	var userID string
	err = h.db.QueryRow(`
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ($1, $2, $3) RETURNING id`,
		req.Username, hash, isAdmin,
	).Scan(&userID)
	if err != nil {
		httputil.WriteError(w, http.StatusConflict, "USERNAME_EXISTS", "username already taken")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id":  userID,
		"is_admin": isAdmin,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r.RemoteAddr) {
		httputil.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	req.Username = NormalizeUsername(req.Username)

	var userID uuid.UUID
	var passwordHash string
	var isAdmin bool
	err := h.db.QueryRow(
		"SELECT id, password_hash, is_admin FROM users WHERE username=$1", req.Username,
	).Scan(&userID, &passwordHash, &isAdmin)
	if err != nil || !CheckPassword(passwordHash, req.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
		return
	}

	token, err := h.auth.IssueToken(userID, isAdmin)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":  userID,
		"is_admin": isAdmin,
		"token":    token,
	})
}

package watchhistory

import (
	"net/http"
	"strconv"

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
	r.Get("/continue", h.continueWatching)
	r.Post("/events", h.appendEvent)
	r.Get("/{movieID}", h.state)
	r.Get("/{movieID}/events", h.history)
	return r
}

func (h *Handler) continueWatching(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.repo.ContinueWatching(limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load continue watching")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) appendEvent(w http.ResponseWriter, r *http.Request) {
	var req WatchEvent
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.MovieID == uuid.Nil {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_MOVIE", "movie_id required")
		return
	}
	if u := auth.UserFromContext(r.Context()); u != nil {
		req.UserID = &u.UserID
	}
	if err := h.repo.Append(&req); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to record watch event")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	state, err := h.repo.State(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load watch state")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.repo.History(movieID, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load watch history")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

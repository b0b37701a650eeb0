package player

import (
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/auth"
	"github.com/reelkeep/reelkeep/internal/httputil"
	"github.com/reelkeep/reelkeep/internal/movies"
)

type Handler struct {
	launcher  *Launcher
	repo      *Repository
	movieRepo *movies.Repository
}

func NewHandler(launcher *Launcher, repo *Repository, movieRepo *movies.Repository) *Handler {
	return &Handler{launcher: launcher, repo: repo, movieRepo: movieRepo}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/{movieID}/launch", h.launch)
	r.Get("/{movieID}/stream", h.stream)
	r.Get("/{movieID}/launches", h.history)
	r.Get("/recent", h.recent)
	return r
}

func (h *Handler) launch(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	movie, err := h.movieRepo.GetByID(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	if movie.Missing {
		httputil.WriteError(w, http.StatusConflict, "FILE_MISSING", "file is flagged missing on disk")
		return
	}

	var req struct {
		SubtitlePath string `json:"subtitle_path"`
	}
	// Body is optional; a bare POST launches without subtitles.
	_ = httputil.ReadJSON(r, &req)

	if req.SubtitlePath != "" {
		if _, err := os.Stat(req.SubtitlePath); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "SUBTITLE_NOT_FOUND", "subtitle file not found")
			return
		}
	}

	if err := h.launcher.Launch(movie.FilePath, req.SubtitlePath); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "LAUNCH_FAILED", err.Error())
		return
	}

	event := &LaunchEvent{MovieID: movieID}
	if req.SubtitlePath != "" {
		event.SubtitlePath = &req.SubtitlePath
	}
	if u := auth.UserFromContext(r.Context()); u != nil {
		event.UserID = &u.UserID
	}
	if err := h.repo.Append(event); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to record launch")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	movie, err := h.movieRepo.GetByID(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	ServeDirectPlay(w, r, movie.FilePath)
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
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load launch history")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.repo.Recent(limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load recent launches")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

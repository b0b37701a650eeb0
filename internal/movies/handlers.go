package movies

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/httputil"
)

// FrameStore deletes a movie's frame rows when the movie goes away.
type FrameStore interface {
	DeleteByMovie(movieID uuid.UUID) error
}

// FrameRemover deletes a movie's frame images from disk.
type FrameRemover interface {
	RemoveFrames(movieID string) error
}

type Handler struct {
	repo       *Repository
	frameStore FrameStore
	frameFiles FrameRemover
}

func NewHandler(repo *Repository, frameStore FrameStore, frameFiles FrameRemover) *Handler {
	return &Handler{repo: repo, frameStore: frameStore, frameFiles: frameFiles}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/years", h.years)
	r.Get("/shows", h.shows)
	r.Get("/{movieID}", h.get)
	r.Patch("/{movieID}", h.update)
	r.Delete("/{movieID}", h.remove)
	r.Get("/{movieID}/rating", h.getRating)
	r.Put("/{movieID}/rating", h.setRating)
	r.Delete("/{movieID}/rating", h.deleteRating)
	return r
}

// FilterFromQuery translates UI filter state in the query string into
// a MovieFilter.
func FilterFromQuery(r *http.Request) *MovieFilter {
	q := r.URL.Query()
	f := &MovieFilter{
		Query:    q.Get("q"),
		ShowName: q.Get("show"),
		Sort:     q.Get("sort"),
	}
	f.YearFrom, _ = strconv.Atoi(q.Get("year_from"))
	f.YearTo, _ = strconv.Atoi(q.Get("year_to"))
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y > 0 {
		f.YearFrom, f.YearTo = y, y
	}
	if v := q.Get("series"); v != "" {
		b := v == "true"
		f.Series = &b
	}
	if v := q.Get("watched"); v != "" {
		b := v == "true"
		f.Watched = &b
	}
	f.MinRating, _ = strconv.ParseFloat(q.Get("min_rating"), 64)
	if v := q.Get("path_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.IndexedPathID = &id
		}
	}
	f.IncludeMissing = q.Get("include_missing") == "true"
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))
	return f
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := FilterFromQuery(r)
	items, err := h.repo.List(f)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list movies")
		return
	}
	total, err := h.repo.Count(f)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to count movies")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"movies": items,
		"total":  total,
	})
}

func (h *Handler) years(w http.ResponseWriter, r *http.Request) {
	years, err := h.repo.DistinctYears()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load years")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, years)
}

func (h *Handler) shows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.repo.Shows()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load shows")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, shows)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	movie, err := h.repo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movie)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	var req struct {
		DisplayName string `json:"display_name"`
		Year        *int   `json:"year"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil || req.DisplayName == "" {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "display_name required")
		return
	}
	if err := h.repo.UpdateDisplayFields(id, req.DisplayName, req.Year); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to update movie")
		return
	}
	movie, err := h.repo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "movie not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movie)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	if h.frameStore != nil {
		if err := h.frameStore.DeleteByMovie(id); err != nil {
			log.Printf("Movies: failed to clear frame rows for %s: %v", id, err)
		}
	}
	if err := h.repo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete movie")
		return
	}
	if h.frameFiles != nil {
		if err := h.frameFiles.RemoveFrames(id.String()); err != nil {
			log.Printf("Movies: failed to remove frame images for %s: %v", id, err)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

func (h *Handler) getRating(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	rating, err := h.repo.GetRating(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load rating")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rating)
}

func (h *Handler) setRating(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	var req struct {
		Score float64 `json:"score"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}
	if req.Score < 0 || req.Score > 10 {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_SCORE", "score must be between 0 and 10")
		return
	}
	if err := h.repo.SetRating(id, req.Score); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to save rating")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"movie_id": id, "score": req.Score})
}

func (h *Handler) deleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	if err := h.repo.DeleteRating(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete rating")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

package search

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reelkeep/reelkeep/internal/cache"
	"github.com/reelkeep/reelkeep/internal/httputil"
	"github.com/reelkeep/reelkeep/internal/movies"
	"github.com/reelkeep/reelkeep/internal/transcribe"
)

const (
	recentCacheKey = "search:recent"
	recentCacheTTL = 30 * time.Second
)

type Handler struct {
	repo        *Repository
	movieRepo   *movies.Repository
	transcripts *transcribe.Repository
	cache       *cache.Cache
}

func NewHandler(repo *Repository, movieRepo *movies.Repository, transcripts *transcribe.Repository, c *cache.Cache) *Handler {
	return &Handler{repo: repo, movieRepo: movieRepo, transcripts: transcripts, cache: c}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.search)
	r.Get("/dialogue", h.dialogue)
	r.Get("/recent", h.recent)
	r.Get("/top", h.top)
	r.Delete("/history", h.clearHistory)
	return r
}

// search runs a title search. It accepts the same filter parameters
// as the movie list endpoint and records non-empty queries.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	f := movies.FilterFromQuery(r)
	items, err := h.movieRepo.List(f)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "search failed")
		return
	}
	total, err := h.movieRepo.Count(f)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "search failed")
		return
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		if err := h.repo.Append(q, total); err != nil {
			log.Printf("search: failed to record query: %v", err)
		}
		h.cache.Delete(r.Context(), recentCacheKey)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"movies": items,
		"total":  total,
	})
}

// dialogue searches transcript text across the library.
func (h *Handler) dialogue(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_QUERY", "q parameter is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := h.transcripts.SearchDialogue(q, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "dialogue search failed")
		return
	}

	if err := h.repo.Append(q, len(hits)); err != nil {
		log.Printf("search: failed to record query: %v", err)
	}
	h.cache.Delete(r.Context(), recentCacheKey)

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"hits":  hits,
		"total": len(hits),
	})
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	var cached []HistoryEntry
	if hit, err := h.cache.GetJSON(r.Context(), recentCacheKey, &cached); err == nil && hit {
		httputil.WriteJSON(w, http.StatusOK, cached)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.repo.Recent(limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load recent searches")
		return
	}

	if err := h.cache.SetJSON(r.Context(), recentCacheKey, entries, recentCacheTTL); err != nil {
		log.Printf("search: failed to cache recent queries: %v", err)
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.repo.Top(limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load top searches")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Clear(); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to clear search history")
		return
	}
	h.cache.Delete(r.Context(), recentCacheKey)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

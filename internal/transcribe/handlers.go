package transcribe

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/httputil"
)

// Enqueuer triggers background transcription.
type Enqueuer interface {
	EnqueueTranscribeMovie(movieID uuid.UUID) (string, error)
	EnqueueTranscribeLibrary() (string, error)
}

type Handler struct {
	repo        *Repository
	enqueuer    Enqueuer
	transcriber *Transcriber
}

func NewHandler(repo *Repository, enqueuer Enqueuer, transcriber *Transcriber) *Handler {
	return &Handler{repo: repo, enqueuer: enqueuer, transcriber: transcriber}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/search", h.searchDialogue)
	r.Post("/generate", h.generateLibrary)
	r.Get("/{movieID}", h.transcript)
	r.Post("/{movieID}/generate", h.generateMovie)
	return r
}

func (h *Handler) searchDialogue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteError(w, http.StatusBadRequest, "MISSING_QUERY", "q parameter required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.repo.SearchDialogue(query, limit)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "dialogue search failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"hits":  hits,
		"total": len(hits),
	})
}

func (h *Handler) transcript(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	lines, err := h.repo.ListByMovie(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load transcript")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, lines)
}

func (h *Handler) generateMovie(w http.ResponseWriter, r *http.Request) {
	if !h.transcriber.Enabled() {
		httputil.WriteError(w, http.StatusConflict, "NOT_CONFIGURED", "transcription is not configured")
		return
	}
	movieID, err := uuid.Parse(chi.URLParam(r, "movieID"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "INVALID_ID", "invalid movie id")
		return
	}
	if r.URL.Query().Get("force") != "true" {
		if exists, err := h.repo.HasTranscript(movieID); err == nil && exists {
			httputil.WriteError(w, http.StatusConflict, "ALREADY_TRANSCRIBED", "transcript exists, pass force=true to regenerate")
			return
		}
	}
	taskID, err := h.enqueuer.EnqueueTranscribeMovie(movieID)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "failed to enqueue transcription")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

func (h *Handler) generateLibrary(w http.ResponseWriter, r *http.Request) {
	if !h.transcriber.Enabled() {
		httputil.WriteError(w, http.StatusConflict, "NOT_CONFIGURED", "transcription is not configured")
		return
	}
	taskID, err := h.enqueuer.EnqueueTranscribeLibrary()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "failed to enqueue transcription")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

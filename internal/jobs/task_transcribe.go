package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/reelkeep/reelkeep/internal/movies"
	"github.com/reelkeep/reelkeep/internal/transcribe"
)

type TranscribeMovieHandler struct {
	movieRepo      *movies.Repository
	transcriptRepo *transcribe.Repository
	transcriber    *transcribe.Transcriber
	notifier       EventNotifier
}

func NewTranscribeMovieHandler(movieRepo *movies.Repository, transcriptRepo *transcribe.Repository,
	transcriber *transcribe.Transcriber, notifier EventNotifier) *TranscribeMovieHandler {
	return &TranscribeMovieHandler{movieRepo: movieRepo, transcriptRepo: transcriptRepo,
		transcriber: transcriber, notifier: notifier}
}

func (h *TranscribeMovieHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p TranscribeMoviePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	if !h.transcriber.Enabled() {
		log.Println("Transcribe: whisper binary not configured, skipping")
		return nil
	}

	movieID, _ := uuid.Parse(p.MovieID)
	movie, err := h.movieRepo.GetByID(movieID)
	if err != nil {
		return fmt.Errorf("get movie: %w", err)
	}
	if movie.Missing {
		log.Printf("Transcribe: skipping missing file %s", movie.DisplayName)
		return nil
	}

	taskID := "transcribe:" + p.MovieID
	taskDesc := "Transcribing: " + movie.DisplayName

	log.Printf("Transcribe: starting %q", movie.DisplayName)
	if h.notifier != nil {
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": taskID, "task_type": TaskTranscribeMovie,
			"status": "running", "progress": 0, "description": taskDesc,
		})
	}

	lines, err := h.transcriber.Transcribe(ctx, movie.FilePath)
	if err != nil {
		if h.notifier != nil {
			h.notifier.Broadcast("task:update", map[string]interface{}{
				"task_id": taskID, "task_type": TaskTranscribeMovie,
				"status": "failed", "progress": 0, "description": taskDesc,
			})
		}
		return fmt.Errorf("transcribe %s: %w", movie.DisplayName, err)
	}

	if err := h.transcriptRepo.Replace(movieID, lines); err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}

	log.Printf("Transcribe: stored %d lines for %q", len(lines), movie.DisplayName)
	if h.notifier != nil {
		h.notifier.Broadcast("transcribe:complete", map[string]interface{}{
			"movie_id": p.MovieID,
			"lines":    len(lines),
		})
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": taskID, "task_type": TaskTranscribeMovie,
			"status": "complete", "progress": 100, "description": taskDesc,
		})
	}
	return nil
}

// ──────── Library-wide transcription ────────

type TranscribeLibraryHandler struct {
	transcriptRepo *transcribe.Repository
	queue          *Queue
	notifier       EventNotifier
}

func NewTranscribeLibraryHandler(transcriptRepo *transcribe.Repository, queue *Queue, notifier EventNotifier) *TranscribeLibraryHandler {
	return &TranscribeLibraryHandler{transcriptRepo: transcriptRepo, queue: queue, notifier: notifier}
}

func (h *TranscribeLibraryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	ids, err := h.transcriptRepo.MoviesWithoutTranscript()
	if err != nil {
		return fmt.Errorf("list movies without transcript: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Transcribe: library is fully covered")
		return nil
	}

	log.Printf("Transcribe: enqueueing %d movies", len(ids))
	enqueued := 0
	var lastBroadcast time.Time
	for i, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := h.queue.EnqueueTranscribeMovie(id); err != nil {
			log.Printf("Transcribe: failed to enqueue %s: %v", id, err)
			continue
		}
		enqueued++

		if h.notifier != nil {
			now := time.Now()
			if now.Sub(lastBroadcast) >= 500*time.Millisecond || i == len(ids)-1 {
				lastBroadcast = now
				h.notifier.Broadcast("task:update", map[string]interface{}{
					"task_id": "transcribe:library", "task_type": TaskTranscribeLibrary,
					"status":      "running",
					"progress":    int(float64(i+1) / float64(len(ids)) * 100),
					"description": fmt.Sprintf("Queueing transcription (%d/%d)", i+1, len(ids)),
				})
			}
		}
	}

	log.Printf("Transcribe: enqueued %d of %d movies", enqueued, len(ids))
	if h.notifier != nil {
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": "transcribe:library", "task_type": TaskTranscribeLibrary,
			"status": "complete", "progress": 100,
			"description": fmt.Sprintf("Queued transcription for %d movies", enqueued),
		})
	}
	return nil
}

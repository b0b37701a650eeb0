package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/reelkeep/reelkeep/internal/config"
	"github.com/reelkeep/reelkeep/internal/ffmpeg"
	"github.com/reelkeep/reelkeep/internal/frames"
	"github.com/reelkeep/reelkeep/internal/models"
	"github.com/reelkeep/reelkeep/internal/movies"
	"github.com/reelkeep/reelkeep/internal/settings"
)

type FramesMovieHandler struct {
	movieRepo    *movies.Repository
	frameRepo    *frames.Repository
	extractor    *ffmpeg.FrameExtractor
	settingsRepo *settings.Repository
	cfg          *config.Config
	notifier     EventNotifier
}

func NewFramesMovieHandler(movieRepo *movies.Repository, frameRepo *frames.Repository,
	extractor *ffmpeg.FrameExtractor, settingsRepo *settings.Repository,
	cfg *config.Config, notifier EventNotifier) *FramesMovieHandler {
	return &FramesMovieHandler{movieRepo: movieRepo, frameRepo: frameRepo, extractor: extractor,
		settingsRepo: settingsRepo, cfg: cfg, notifier: notifier}
}

func (h *FramesMovieHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p FramesMoviePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	movieID, _ := uuid.Parse(p.MovieID)
	movie, err := h.movieRepo.GetByID(movieID)
	if err != nil {
		return fmt.Errorf("get movie: %w", err)
	}
	if movie.Missing {
		log.Printf("Frames: skipping missing file %s", movie.DisplayName)
		return nil
	}
	if movie.DurationSeconds <= 0 {
		log.Printf("Frames: no duration for %s, skipping", movie.DisplayName)
		return nil
	}

	count := h.cfg.FrameCount
	if h.settingsRepo != nil {
		count = h.settingsRepo.GetInt("frame_count", count)
	}

	taskID := "frames:" + p.MovieID
	taskDesc := "Timeline frames: " + movie.DisplayName

	log.Printf("Frames: extracting %d frames for %q", count, movie.DisplayName)
	if h.notifier != nil {
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": taskID, "task_type": TaskFramesMovie,
			"status": "running", "progress": 0, "description": taskDesc,
		})
	}

	timestamps := ffmpeg.FrameTimestamps(movie.DurationSeconds, count)
	extracted := make([]models.MovieFrame, 0, len(timestamps))
	for i, ts := range timestamps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		imagePath, err := h.extractor.ExtractFrame(p.MovieID, movie.FilePath, i, ts)
		if err != nil {
			log.Printf("Frames: frame %d of %s: %v", i, movie.DisplayName, err)
			continue
		}
		extracted = append(extracted, models.MovieFrame{
			MovieID:          movieID,
			FrameIndex:       i,
			TimestampSeconds: ts,
			ImagePath:        imagePath,
		})

		if h.notifier != nil {
			pct := int(float64(i+1) / float64(len(timestamps)) * 100)
			h.notifier.Broadcast("task:update", map[string]interface{}{
				"task_id": taskID, "task_type": TaskFramesMovie,
				"status": "running", "progress": pct, "description": taskDesc,
			})
		}
	}

	if len(extracted) == 0 {
		if h.notifier != nil {
			h.notifier.Broadcast("task:update", map[string]interface{}{
				"task_id": taskID, "task_type": TaskFramesMovie,
				"status": "failed", "progress": 0, "description": taskDesc,
			})
		}
		return fmt.Errorf("frames: no frames extracted for %s", movie.DisplayName)
	}

	if err := h.frameRepo.Replace(movieID, extracted); err != nil {
		return fmt.Errorf("store frames: %w", err)
	}

	log.Printf("Frames: stored %d frames for %q", len(extracted), movie.DisplayName)
	if h.notifier != nil {
		h.notifier.Broadcast("frames:complete", map[string]interface{}{
			"movie_id": p.MovieID,
			"count":    len(extracted),
		})
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": taskID, "task_type": TaskFramesMovie,
			"status": "complete", "progress": 100, "description": taskDesc,
		})
	}
	return nil
}

// ──────── Library-wide frame generation ────────

type FramesLibraryHandler struct {
	frameRepo *frames.Repository
	queue     *Queue
	notifier  EventNotifier
}

func NewFramesLibraryHandler(frameRepo *frames.Repository, queue *Queue, notifier EventNotifier) *FramesLibraryHandler {
	return &FramesLibraryHandler{frameRepo: frameRepo, queue: queue, notifier: notifier}
}

// ProcessTask fans out one per-movie frame job for every movie with no
// frames yet. The per-movie task IDs deduplicate against jobs enqueued
// directly from the API.
func (h *FramesLibraryHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	ids, err := h.frameRepo.MoviesWithoutFrames()
	if err != nil {
		return fmt.Errorf("list movies without frames: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Frames: library is fully covered")
		return nil
	}

	log.Printf("Frames: enqueueing generation for %d movies", len(ids))
	enqueued := 0
	var lastBroadcast time.Time
	for i, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := h.queue.EnqueueFramesMovie(id); err != nil {
			log.Printf("Frames: failed to enqueue %s: %v", id, err)
			continue
		}
		enqueued++

		if h.notifier != nil {
			now := time.Now()
			if now.Sub(lastBroadcast) >= 500*time.Millisecond || i == len(ids)-1 {
				lastBroadcast = now
				h.notifier.Broadcast("task:update", map[string]interface{}{
					"task_id": "frames:library", "task_type": TaskFramesLibrary,
					"status":      "running",
					"progress":    int(float64(i+1) / float64(len(ids)) * 100),
					"description": fmt.Sprintf("Queueing timeline frames (%d/%d)", i+1, len(ids)),
				})
			}
		}
	}

	log.Printf("Frames: enqueued %d of %d movies", enqueued, len(ids))
	if h.notifier != nil {
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": "frames:library", "task_type": TaskFramesLibrary,
			"status": "complete", "progress": 100,
			"description": fmt.Sprintf("Queued timeline frames for %d movies", enqueued),
		})
	}
	return nil
}

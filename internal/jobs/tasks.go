package jobs

import (
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/reelkeep/reelkeep/internal/config"
	"github.com/reelkeep/reelkeep/internal/ffmpeg"
	"github.com/reelkeep/reelkeep/internal/frames"
	"github.com/reelkeep/reelkeep/internal/movies"
	"github.com/reelkeep/reelkeep/internal/paths"
	"github.com/reelkeep/reelkeep/internal/scanner"
	"github.com/reelkeep/reelkeep/internal/settings"
	"github.com/reelkeep/reelkeep/internal/transcribe"
)

// ──────── Payloads ────────

type ScanPayload struct {
	PathID string `json:"path_id"`
}

type FramesMoviePayload struct {
	MovieID string `json:"movie_id"`
}

type FramesLibraryPayload struct{}

type TranscribeMoviePayload struct {
	MovieID string `json:"movie_id"`
}

type TranscribeLibraryPayload struct{}

// EventNotifier receives task lifecycle events for live progress in
// connected clients.
type EventNotifier interface {
	Broadcast(event string, data interface{})
}

// ──────── Enqueue helpers ────────
//
// HTTP handlers enqueue through these; the deterministic IDs keep one
// job per target.

func (q *Queue) EnqueueScan(pathID uuid.UUID) (string, error) {
	return q.EnqueueUnique(TaskScanPath, ScanPayload{PathID: pathID.String()},
		"scan:"+pathID.String(),
		asynq.Timeout(4*time.Hour), asynq.Retention(time.Hour))
}

func (q *Queue) EnqueueFramesMovie(movieID uuid.UUID) (string, error) {
	return q.EnqueueUnique(TaskFramesMovie, FramesMoviePayload{MovieID: movieID.String()},
		"frames:"+movieID.String(),
		asynq.Timeout(time.Hour), asynq.Retention(time.Hour), asynq.Queue("low"))
}

func (q *Queue) EnqueueFramesLibrary() (string, error) {
	return q.EnqueueUnique(TaskFramesLibrary, FramesLibraryPayload{},
		"frames:library",
		asynq.Timeout(12*time.Hour), asynq.Retention(time.Hour), asynq.Queue("low"))
}

func (q *Queue) EnqueueTranscribeMovie(movieID uuid.UUID) (string, error) {
	return q.EnqueueUnique(TaskTranscribeMovie, TranscribeMoviePayload{MovieID: movieID.String()},
		"transcribe:"+movieID.String(),
		asynq.Timeout(2*time.Hour), asynq.Retention(time.Hour), asynq.Queue("low"))
}

func (q *Queue) EnqueueTranscribeLibrary() (string, error) {
	return q.EnqueueUnique(TaskTranscribeLibrary, TranscribeLibraryPayload{},
		"transcribe:library",
		asynq.Timeout(24*time.Hour), asynq.Retention(time.Hour), asynq.Queue("low"))
}

// ──────── Register all handlers ────────

func RegisterHandlers(q *Queue, sc *scanner.Scanner, pathRepo *paths.Repository,
	movieRepo *movies.Repository, frameRepo *frames.Repository,
	transcriptRepo *transcribe.Repository, transcriber *transcribe.Transcriber,
	extractor *ffmpeg.FrameExtractor, settingsRepo *settings.Repository,
	cfg *config.Config, notifier EventNotifier) {

	q.RegisterHandler(TaskScanPath, NewScanHandler(sc, pathRepo, settingsRepo, q, cfg, notifier))
	q.RegisterHandler(TaskFramesMovie, NewFramesMovieHandler(movieRepo, frameRepo, extractor, settingsRepo, cfg, notifier))
	q.RegisterHandler(TaskFramesLibrary, NewFramesLibraryHandler(frameRepo, q, notifier))
	q.RegisterHandler(TaskTranscribeMovie, NewTranscribeMovieHandler(movieRepo, transcriptRepo, transcriber, notifier))
	q.RegisterHandler(TaskTranscribeLibrary, NewTranscribeLibraryHandler(transcriptRepo, q, notifier))
}

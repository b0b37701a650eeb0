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
	"github.com/reelkeep/reelkeep/internal/paths"
	"github.com/reelkeep/reelkeep/internal/scanner"
	"github.com/reelkeep/reelkeep/internal/settings"
)

type ScanHandler struct {
	scanner      *scanner.Scanner
	pathRepo     *paths.Repository
	settingsRepo *settings.Repository
	queue        *Queue
	cfg          *config.Config
	notifier     EventNotifier
}

func NewScanHandler(sc *scanner.Scanner, pathRepo *paths.Repository, settingsRepo *settings.Repository,
	queue *Queue, cfg *config.Config, notifier EventNotifier) *ScanHandler {
	return &ScanHandler{scanner: sc, pathRepo: pathRepo, settingsRepo: settingsRepo,
		queue: queue, cfg: cfg, notifier: notifier}
}

func (h *ScanHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p ScanPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	pathID, _ := uuid.Parse(p.PathID)
	indexed, err := h.pathRepo.GetByID(pathID)
	if err != nil {
		return fmt.Errorf("get indexed path: %w", err)
	}
	if !indexed.Enabled {
		log.Printf("Job: skipping scan of disabled path %s", indexed.FolderPath)
		return nil
	}

	taskID := "scan:" + p.PathID
	taskDesc := "Scanning: " + indexed.FolderPath

	log.Printf("Job: scanning %q", indexed.FolderPath)
	if h.notifier != nil {
		h.notifier.Broadcast("scan:start", map[string]string{"path_id": p.PathID, "folder": indexed.FolderPath})
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": taskID, "task_type": TaskScanPath,
			"status": "running", "progress": 0, "description": taskDesc,
		})
	}

	// Throttled progress callback; at most one broadcast per 500ms
	// plus always on the last file.
	var progressFn scanner.ProgressFunc
	if h.notifier != nil {
		var lastBroadcast time.Time
		progressFn = func(current, total, added int, filename string) {
			now := time.Now()
			if now.Sub(lastBroadcast) >= 500*time.Millisecond || current == total {
				lastBroadcast = now
				pct := 0
				if total > 0 {
					pct = int(float64(current) / float64(total) * 100)
				}
				h.notifier.Broadcast("scan:progress", map[string]interface{}{
					"path_id":     p.PathID,
					"current":     current,
					"total":       total,
					"files_added": added,
					"filename":    filename,
				})
				desc := fmt.Sprintf("Scanning %s · %s (%d/%d)", indexed.FolderPath, filename, current, total)
				h.notifier.Broadcast("task:update", map[string]interface{}{
					"task_id": taskID, "task_type": TaskScanPath,
					"status": "running", "progress": pct, "description": desc,
				})
			}
		}
	}

	result, err := h.scanner.ScanPath(indexed, progressFn)
	if err != nil {
		if h.notifier != nil {
			h.notifier.Broadcast("task:update", map[string]interface{}{
				"task_id": taskID, "task_type": TaskScanPath,
				"status": "failed", "progress": 0, "description": taskDesc,
			})
		}
		return fmt.Errorf("scan: %w", err)
	}

	_ = h.pathRepo.UpdateLastScan(pathID)

	log.Printf("Job: scan complete - %d found, %d added, %d updated", result.FilesFound, result.FilesAdded, result.FilesUpdated)
	if h.notifier != nil {
		h.notifier.Broadcast("scan:complete", map[string]interface{}{
			"path_id": p.PathID,
			"result":  result,
		})
		h.notifier.Broadcast("task:update", map[string]interface{}{
			"task_id": taskID, "task_type": TaskScanPath,
			"status": "complete", "progress": 100, "description": taskDesc,
		})
	}

	// Follow-up jobs for whatever the scan brought in.
	if h.queue != nil {
		if _, err := h.queue.EnqueueFramesLibrary(); err != nil {
			log.Printf("Job: failed to enqueue frame generation: %v", err)
		}

		transcribeOn := h.cfg.TranscribeEnabled()
		if h.settingsRepo != nil {
			transcribeOn = h.settingsRepo.GetBool("transcribe_enabled", transcribeOn) && h.cfg.WhisperPath != ""
		}
		if transcribeOn {
			if _, err := h.queue.EnqueueTranscribeLibrary(); err != nil {
				log.Printf("Job: failed to enqueue transcription: %v", err)
			}
		}
	}

	return nil
}

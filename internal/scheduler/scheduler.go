// Package scheduler triggers periodic library rescans from a cron
// expression configured in settings.
package scheduler

import (
	"log"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/reelkeep/reelkeep/internal/paths"
)

// OnScanDue is called for each enabled indexed path when a scheduled
// rescan fires.
type OnScanDue func(pathID uuid.UUID)

type Scheduler struct {
	pathRepo *paths.Repository
	callback OnScanDue
	cron     *cron.Cron
}

func New(pathRepo *paths.Repository, cb OnScanDue) *Scheduler {
	return &Scheduler{
		pathRepo: pathRepo,
		callback: cb,
		cron:     cron.New(),
	}
}

// Start registers the rescan job and starts the cron loop. An empty
// spec disables scheduled scans.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		log.Println("[scheduler] no scan schedule configured")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.scanAll); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[scheduler] scheduled scans registered: %q", spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) scanAll() {
	enabled, err := s.pathRepo.ListEnabled()
	if err != nil {
		log.Printf("[scheduler] error listing paths: %v", err)
		return
	}
	for _, p := range enabled {
		log.Printf("[scheduler] scheduled scan due for %s", p.FolderPath)
		s.callback(p.ID)
	}
}

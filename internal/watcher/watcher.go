// Package watcher monitors indexed folders for filesystem changes and
// requests rescans when video files appear or disappear.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/models"
	"github.com/reelkeep/reelkeep/internal/scanner"
)

// OnChange is called, debounced, when a video file under an indexed
// path is created, renamed or removed.
type OnChange func(pathID uuid.UUID)

// PathSource provides the indexed roots to watch.
type PathSource interface {
	ListEnabled() ([]models.IndexedPath, error)
	FindByFilePath(filePath string) (*models.IndexedPath, error)
}

type Watcher struct {
	paths    PathSource
	callback OnChange
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watched  map[string]uuid.UUID // directory → indexed path ID
	debounce map[uuid.UUID]*time.Timer
	stop     chan struct{}
}

func New(paths PathSource, cb OnChange) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		paths:    paths,
		callback: cb,
		watcher:  fw,
		watched:  make(map[string]uuid.UUID),
		debounce: make(map[uuid.UUID]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	go w.eventLoop()
	w.Refresh()
	log.Println("[watcher] filesystem watcher started")
}

func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

// Refresh reloads the watched directory set from enabled indexed
// paths. Call after paths are added, removed or toggled.
func (w *Watcher) Refresh() {
	enabled, err := w.paths.ListEnabled()
	if err != nil {
		log.Printf("[watcher] error loading indexed paths: %v", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	desired := make(map[string]uuid.UUID, len(enabled))
	for _, p := range enabled {
		desired[p.FolderPath] = p.ID
	}

	for dir := range w.watched {
		if w.rootFor(dir, desired) == "" {
			w.watcher.Remove(dir)
			delete(w.watched, dir)
		}
	}

	for root, pathID := range desired {
		if _, ok := w.watched[root]; ok {
			continue
		}
		if err := w.addRecursive(root, pathID); err != nil {
			log.Printf("[watcher] error adding %s: %v", root, err)
		}
	}

	log.Printf("[watcher] watching %d directories across %d indexed paths", len(w.watched), len(enabled))
}

// rootFor returns the desired root that dir lives under, or "".
func (w *Watcher) rootFor(dir string, desired map[string]uuid.UUID) string {
	for root := range desired {
		if dir == root || strings.HasPrefix(dir, root+string(filepath.Separator)) {
			return root
		}
	}
	return ""
}

func (w *Watcher) addRecursive(root string, pathID uuid.UUID) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				return nil
			}
			w.watched[path] = pathID
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") {
		return
	}

	isCreate := event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
	isRemove := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	if !isCreate && !isRemove {
		return
	}

	// New directories join the watch set; their contents will generate
	// their own events.
	if isCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if pathID := w.resolvePath(event.Name); pathID != uuid.Nil {
				w.mu.Lock()
				w.watcher.Add(event.Name)
				w.watched[event.Name] = pathID
				w.mu.Unlock()
			}
			return
		}
	}

	if !scanner.IsVideoFile(event.Name) {
		return
	}

	pathID := w.resolvePath(event.Name)
	if pathID == uuid.Nil {
		return
	}

	// Debounce per indexed path: a copy in progress fires many events
	// and one rescan covers them all.
	w.mu.Lock()
	if timer, ok := w.debounce[pathID]; ok {
		timer.Stop()
	}
	w.debounce[pathID] = time.AfterFunc(5*time.Second, func() {
		w.mu.Lock()
		delete(w.debounce, pathID)
		w.mu.Unlock()
		w.callback(pathID)
	})
	w.mu.Unlock()
}

func (w *Watcher) resolvePath(path string) uuid.UUID {
	w.mu.Lock()
	dir := filepath.Dir(path)
	for dir != "/" && dir != "." {
		if pathID, ok := w.watched[dir]; ok {
			w.mu.Unlock()
			return pathID
		}
		dir = filepath.Dir(dir)
	}
	w.mu.Unlock()

	// Not in the watch set, e.g. an event racing a Refresh. Fall back
	// to a prefix lookup against the indexed roots.
	if p, err := w.paths.FindByFilePath(path); err == nil {
		return p.ID
	}
	return uuid.Nil
}

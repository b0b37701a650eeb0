package watcher

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelkeep/reelkeep/internal/models"
)

type stubPaths struct {
	mu      sync.Mutex
	enabled []models.IndexedPath
}

func (s *stubPaths) ListEnabled() ([]models.IndexedPath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.IndexedPath(nil), s.enabled...), nil
}

func (s *stubPaths) FindByFilePath(filePath string) (*models.IndexedPath, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.enabled {
		if strings.HasPrefix(filePath, s.enabled[i].FolderPath+string(filepath.Separator)) {
			return &s.enabled[i], nil
		}
	}
	return nil, errors.New("no indexed path contains file")
}

func (s *stubPaths) set(paths ...models.IndexedPath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = paths
}

func watchedDirs(w *Watcher) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watched))
	for dir := range w.watched {
		out = append(out, dir)
	}
	return out
}

func TestRefreshPicksUpNewlyAddedPath(t *testing.T) {
	rootA := t.TempDir()
	stub := &stubPaths{}
	stub.set(models.IndexedPath{ID: uuid.New(), FolderPath: rootA})

	w, err := New(stub, func(uuid.UUID) {})
	require.NoError(t, err)
	defer w.Stop()

	w.Refresh()
	assert.Contains(t, watchedDirs(w), rootA)

	// A path added through the API must join the watch set on the next
	// refresh, without a process restart.
	rootB := t.TempDir()
	stub.set(
		models.IndexedPath{ID: uuid.New(), FolderPath: rootA},
		models.IndexedPath{ID: uuid.New(), FolderPath: rootB},
	)
	w.Refresh()
	assert.Contains(t, watchedDirs(w), rootA)
	assert.Contains(t, watchedDirs(w), rootB)
}

func TestRefreshDropsRemovedPath(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	stub := &stubPaths{}
	stub.set(
		models.IndexedPath{ID: uuid.New(), FolderPath: rootA},
		models.IndexedPath{ID: uuid.New(), FolderPath: rootB},
	)

	w, err := New(stub, func(uuid.UUID) {})
	require.NoError(t, err)
	defer w.Stop()

	w.Refresh()
	assert.Contains(t, watchedDirs(w), rootB)

	stub.set(models.IndexedPath{ID: uuid.New(), FolderPath: rootA})
	w.Refresh()
	assert.Contains(t, watchedDirs(w), rootA)
	assert.NotContains(t, watchedDirs(w), rootB)
}

func TestResolvePathFallsBackToIndexedRoots(t *testing.T) {
	root := t.TempDir()
	id := uuid.New()
	stub := &stubPaths{}
	stub.set(models.IndexedPath{ID: id, FolderPath: root})

	w, err := New(stub, func(uuid.UUID) {})
	require.NoError(t, err)
	defer w.Stop()

	// The watch set is empty (no Refresh yet), so resolution has to
	// come from the indexed roots themselves.
	got := w.resolvePath(filepath.Join(root, "sub", "Movie (1999).mkv"))
	assert.Equal(t, id, got)

	assert.Equal(t, uuid.Nil, w.resolvePath("/somewhere/else/Movie.mkv"))
}

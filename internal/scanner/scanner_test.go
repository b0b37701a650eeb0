package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelkeep/reelkeep/internal/models"
)

type fakeMovieStore struct {
	byPath    map[string]*models.Movie
	upserts   int
	refreshes int
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{byPath: make(map[string]*models.Movie)}
}

func (f *fakeMovieStore) ChangeCheck(filePath string) (int64, *time.Time, string, bool, error) {
	m, ok := f.byPath[filePath]
	if !ok {
		return 0, nil, "", false, nil
	}
	return m.FileSize, m.FileMtime, m.ContentHash, true, nil
}

func (f *fakeMovieStore) Upsert(m *models.Movie) (bool, error) {
	f.upserts++
	_, existed := f.byPath[m.FilePath]
	cp := *m
	f.byPath[m.FilePath] = &cp
	return !existed, nil
}

func (f *fakeMovieStore) RefreshFileMeta(filePath string, size int64, mtime *time.Time) error {
	f.refreshes++
	if m, ok := f.byPath[filePath]; ok {
		m.FileSize = size
		m.FileMtime = mtime
	}
	return nil
}

func (f *fakeMovieStore) MarkMissingExcept(indexedPathID uuid.UUID, seen []string) (int, error) {
	return 0, nil
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("/media/Movie (1999).mkv"))
	assert.True(t, IsVideoFile("/media/clip.MP4"))
	assert.False(t, IsVideoFile("/media/cover.jpg"))
	assert.False(t, IsVideoFile("/media/notes.txt"))
	assert.False(t, IsVideoFile("/media/.hidden.mkv"))
	assert.False(t, IsVideoFile("/media/noextension"))
}

func TestFileHashStableAndSizeSensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mkv")
	require.NoError(t, os.WriteFile(path, []byte("same prefix content"), 0644))

	h1, err := FileHash(path)
	require.NoError(t, err)
	h2, err := FileHash(path)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "hash must be deterministic")
	assert.Len(t, h1, 16)

	// Same prefix, longer file: the mixed-in size must change the hash
	// even though the sampled bytes start identically.
	require.NoError(t, os.WriteFile(path, []byte("same prefix content plus more"), 0644))
	h3, err := FileHash(path)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestFileHashDiffersByContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mkv")
	b := filepath.Join(dir, "b.mkv")
	require.NoError(t, os.WriteFile(a, []byte("aaaaaaaaaaaa"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("bbbbbbbbbbbb"), 0644))

	ha, err := FileHash(a)
	require.NoError(t, err)
	hb, err := FileHash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestFileHashMissingFile(t *testing.T) {
	_, err := FileHash("/nonexistent/path.mkv")
	assert.Error(t, err)
}

func TestScanPathCountsTouchedUnchangedFileAsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Movie (1999).mkv")
	require.NoError(t, os.WriteFile(path, []byte("movie bytes"), 0644))

	store := newFakeMovieStore()
	s := NewScanner("ffprobe-not-installed", store)
	indexed := &models.IndexedPath{ID: uuid.New(), FolderPath: dir}

	res, err := s.ScanPath(indexed, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesAdded)
	assert.Equal(t, 1, store.upserts)

	// Bump the mtime without touching content. The rescan must only
	// refresh the stored file metadata and report the file as skipped,
	// not rewrite the row as an update.
	later := time.Now().Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	res, err = s.ScanPath(indexed, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.FilesAdded)
	assert.Equal(t, 0, res.FilesUpdated)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, 1, store.refreshes)
	assert.Equal(t, 1, store.upserts)

	// With the mtime refreshed, the next scan takes the fast path and
	// never re-hashes.
	res, err = s.ScanPath(indexed, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, 1, store.refreshes)
}

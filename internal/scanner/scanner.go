package scanner

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/extract"
	"github.com/reelkeep/reelkeep/internal/ffmpeg"
	"github.com/reelkeep/reelkeep/internal/models"
)

// ProgressFunc reports scan progress: current file index, total files,
// files added so far, and the filename being processed.
type ProgressFunc func(current, total, added int, filename string)

// MovieStore is the subset of the movie repository the scanner writes
// through.
type MovieStore interface {
	ChangeCheck(filePath string) (int64, *time.Time, string, bool, error)
	Upsert(m *models.Movie) (bool, error)
	RefreshFileMeta(filePath string, size int64, mtime *time.Time) error
	MarkMissingExcept(indexedPathID uuid.UUID, seen []string) (int, error)
}

type Scanner struct {
	ffprobe   *ffmpeg.FFprobe
	movieRepo MovieStore
}

// Extension set for files the scanner indexes.
var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".m4v": true, ".wmv": true, ".flv": true, ".webm": true,
	".ts": true, ".m2ts": true, ".mpg": true, ".mpeg": true,
}

func NewScanner(ffprobePath string, movieRepo MovieStore) *Scanner {
	return &Scanner{
		ffprobe:   ffmpeg.NewFFprobe(ffprobePath),
		movieRepo: movieRepo,
	}
}

// IsVideoFile reports whether the path has an indexable extension.
// Hidden files and sample files are excluded.
func IsVideoFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanPath walks one indexed root, upserting movie rows for every
// video file found. Files whose size, mtime and content hash are
// unchanged are skipped. Files present in the database but absent on
// disk are flagged missing.
func (s *Scanner) ScanPath(indexed *models.IndexedPath, progress ProgressFunc) (*models.ScanResult, error) {
	result := &models.ScanResult{}

	log.Printf("Scanning folder: %s", indexed.FolderPath)

	// First pass: collect candidate files so progress has a total.
	var files []string
	err := filepath.Walk(indexed.FolderPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Scan: skipping %s: %v", path, err)
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != indexed.FolderPath {
				return filepath.SkipDir
			}
			return nil
		}
		if IsVideoFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.FilesFound = len(files)

	seen := make([]string, 0, len(files))
	for i, path := range files {
		seen = append(seen, path)
		if progress != nil {
			progress(i+1, len(files), result.FilesAdded, filepath.Base(path))
		}
		added, updated, err := s.processFile(indexed, path)
		if err != nil {
			log.Printf("Scan: %s: %v", path, err)
			continue
		}
		switch {
		case added:
			result.FilesAdded++
		case updated:
			result.FilesUpdated++
		default:
			result.FilesSkipped++
		}
	}

	missing, err := s.movieRepo.MarkMissingExcept(indexed.ID, seen)
	if err != nil {
		log.Printf("Scan: marking missing failed: %v", err)
	}
	result.FilesMissing = missing

	log.Printf("Scan complete: %d found, %d added, %d updated, %d skipped, %d missing",
		result.FilesFound, result.FilesAdded, result.FilesUpdated, result.FilesSkipped, result.FilesMissing)
	return result, nil
}

// processFile indexes one video file. Returns (added, updated).
func (s *Scanner) processFile(indexed *models.IndexedPath, path string) (bool, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false, err
	}

	// Fast path: size and mtime unchanged means the file is the same
	// one we already indexed.
	knownSize, knownMtime, knownHash, exists, err := s.movieRepo.ChangeCheck(path)
	if err != nil {
		return false, false, err
	}
	mtime := info.ModTime().UTC()
	if exists && knownSize == info.Size() && knownMtime != nil && knownMtime.Equal(mtime) {
		return false, false, nil
	}

	hash, err := FileHash(path)
	if err != nil {
		return false, false, err
	}
	if exists && hash == knownHash {
		// Touched but not changed; refresh the stored size and mtime so
		// the fast path holds next scan, and count the file as skipped.
		if err := s.movieRepo.RefreshFileMeta(path, info.Size(), &mtime); err != nil {
			return false, false, err
		}
		return false, false, nil
	}

	// Metadata is extracted exactly once, here. Downstream consumers
	// treat these fields as authoritative and never re-parse filenames.
	meta := extract.FromPath(path)

	duration := 0
	if probe, err := s.ffprobe.Probe(path); err != nil {
		log.Printf("Scan: ffprobe failed for %s: %v", filepath.Base(path), err)
	} else {
		duration = probe.GetDurationSeconds()
	}

	movie := &models.Movie{
		IndexedPathID:   &indexed.ID,
		FilePath:        path,
		DisplayName:     meta.DisplayName,
		Year:            meta.Year,
		IsSeriesEpisode: meta.IsSeriesEpisode,
		ShowName:        meta.ShowName,
		Season:          meta.Season,
		Episode:         meta.Episode,
		EpisodeTitle:    meta.EpisodeTitle,
		DurationSeconds: duration,
		FileSize:        info.Size(),
		FileMtime:       &mtime,
		ContentHash:     hash,
	}
	inserted, err := s.movieRepo.Upsert(movie)
	if err != nil {
		return false, false, err
	}
	return inserted, !inserted, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// ──────────────────── Indexed paths ────────────────────

// IndexedPath is a root folder the scanner walks for video files.
type IndexedPath struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	FolderPath string     `json:"folder_path" db:"folder_path"`
	Enabled    bool       `json:"enabled" db:"enabled"`
	LastScanAt *time.Time `json:"last_scan_at,omitempty" db:"last_scan_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// ──────────────────── Movie ────────────────────

// Movie is one video file in the library. Identity is the file path;
// metadata fields are computed once at scan time and treated as
// authoritative everywhere downstream.
type Movie struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	IndexedPathID   *uuid.UUID `json:"indexed_path_id,omitempty" db:"indexed_path_id"`
	FilePath        string     `json:"file_path" db:"file_path"`
	DisplayName     string     `json:"display_name" db:"display_name"`
	Year            *int       `json:"year,omitempty" db:"year"`
	IsSeriesEpisode bool       `json:"is_series_episode" db:"is_series_episode"`
	ShowName        *string    `json:"show_name,omitempty" db:"show_name"`
	Season          *int       `json:"season,omitempty" db:"season"`
	Episode         *int       `json:"episode,omitempty" db:"episode"`
	EpisodeTitle    *string    `json:"episode_title,omitempty" db:"episode_title"`
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`
	FileSize        int64      `json:"file_size" db:"file_size"`
	FileMtime       *time.Time `json:"file_mtime,omitempty" db:"file_mtime"`
	ContentHash     string     `json:"content_hash" db:"content_hash"`
	Missing         bool       `json:"missing" db:"missing"`
	AddedAt         time.Time  `json:"added_at" db:"added_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	// Joined fields, populated by list queries
	Rating  *float64 `json:"rating,omitempty" db:"-"`
	Watched *bool    `json:"watched,omitempty" db:"-"`
}

// Rating is the single numeric score attached to a movie.
type Rating struct {
	MovieID   uuid.UUID `json:"movie_id" db:"movie_id"`
	Score     float64   `json:"score" db:"score"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MovieFrame is one timeline screenshot extracted from a movie.
type MovieFrame struct {
	ID               uuid.UUID `json:"id" db:"id"`
	MovieID          uuid.UUID `json:"movie_id" db:"movie_id"`
	FrameIndex       int       `json:"frame_index" db:"frame_index"`
	TimestampSeconds int       `json:"timestamp_seconds" db:"timestamp_seconds"`
	ImagePath        string    `json:"image_path" db:"image_path"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ──────────────────── Scan ────────────────────

type ScanResult struct {
	FilesFound   int `json:"files_found"`
	FilesAdded   int `json:"files_added"`
	FilesUpdated int `json:"files_updated"`
	FilesSkipped int `json:"files_skipped"`
	FilesMissing int `json:"files_missing"`
}

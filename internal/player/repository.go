package player

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// LaunchEvent is one append-only record of an external player launch.
type LaunchEvent struct {
	ID           uuid.UUID  `json:"id"`
	MovieID      uuid.UUID  `json:"movie_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	SubtitlePath *string    `json:"subtitle_path,omitempty"`
	LaunchedAt   time.Time  `json:"launched_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(e *LaunchEvent) error {
	return r.db.QueryRow(`
		INSERT INTO launch_history (movie_id, user_id, subtitle_path)
		VALUES ($1,$2,$3)
		RETURNING id, launched_at`,
		e.MovieID, e.UserID, e.SubtitlePath,
	).Scan(&e.ID, &e.LaunchedAt)
}

func (r *Repository) History(movieID uuid.UUID, limit int) ([]LaunchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, movie_id, user_id, subtitle_path, launched_at
		FROM launch_history WHERE movie_id=$1
		ORDER BY launched_at DESC LIMIT $2`, movieID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LaunchEvent
	for rows.Next() {
		var e LaunchEvent
		if err := rows.Scan(&e.ID, &e.MovieID, &e.UserID, &e.SubtitlePath, &e.LaunchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Recent returns the most recent launches across the whole library.
func (r *Repository) Recent(limit int) ([]LaunchEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT id, movie_id, user_id, subtitle_path, launched_at
		FROM launch_history ORDER BY launched_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LaunchEvent
	for rows.Next() {
		var e LaunchEvent
		if err := rows.Scan(&e.ID, &e.MovieID, &e.UserID, &e.SubtitlePath, &e.LaunchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

package frames

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Replace swaps a movie's frame set atomically: old rows go, the new
// batch comes in with sequential indexes.
func (r *Repository) Replace(movieID uuid.UUID, frames []models.MovieFrame) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM movie_frames WHERE movie_id=$1`, movieID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear frames: %w", err)
	}
	for _, f := range frames {
		if _, err := tx.Exec(`
			INSERT INTO movie_frames (movie_id, frame_index, timestamp_seconds, image_path)
			VALUES ($1,$2,$3,$4)`,
			movieID, f.FrameIndex, f.TimestampSeconds, f.ImagePath); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert frame %d: %w", f.FrameIndex, err)
		}
	}
	return tx.Commit()
}

func (r *Repository) ListByMovie(movieID uuid.UUID) ([]models.MovieFrame, error) {
	rows, err := r.db.Query(`
		SELECT id, movie_id, frame_index, timestamp_seconds, image_path, created_at
		FROM movie_frames WHERE movie_id=$1 ORDER BY frame_index`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.MovieFrame
	for rows.Next() {
		var f models.MovieFrame
		if err := rows.Scan(&f.ID, &f.MovieID, &f.FrameIndex, &f.TimestampSeconds,
			&f.ImagePath, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteByMovie(movieID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM movie_frames WHERE movie_id=$1`, movieID)
	return err
}

// MoviesWithoutFrames returns IDs of indexed, non-missing movies that
// have no frames yet, for the library-wide generation job.
func (r *Repository) MoviesWithoutFrames() ([]uuid.UUID, error) {
	rows, err := r.db.Query(`
		SELECT m.id FROM movies m
		WHERE m.missing=false
		AND NOT EXISTS (SELECT 1 FROM movie_frames f WHERE f.movie_id = m.id)
		ORDER BY m.added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

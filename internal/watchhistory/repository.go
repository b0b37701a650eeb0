package watchhistory

import (
	"database/sql"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Append records a watch event. The log is append-only; state is
// always derived from the newest event.
func (r *Repository) Append(e *WatchEvent) error {
	return r.db.QueryRow(`
		INSERT INTO watch_history (movie_id, user_id, watched, position_seconds)
		VALUES ($1,$2,$3,$4)
		RETURNING id, recorded_at`,
		e.MovieID, e.UserID, e.Watched, e.PositionSeconds,
	).Scan(&e.ID, &e.RecordedAt)
}

// State returns the derived current state for a movie, or nil when no
// events exist.
func (r *Repository) State(movieID uuid.UUID) (*WatchState, error) {
	s := &WatchState{MovieID: movieID}
	err := r.db.QueryRow(`
		SELECT watched, position_seconds, recorded_at,
		       (SELECT COUNT(*) FROM watch_history WHERE movie_id=$1)
		FROM watch_history
		WHERE movie_id=$1
		ORDER BY recorded_at DESC LIMIT 1`, movieID,
	).Scan(&s.Watched, &s.PositionSeconds, &s.LastWatched, &s.EventCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// History returns the raw event log for a movie, newest first.
func (r *Repository) History(movieID uuid.UUID, limit int) ([]WatchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT id, movie_id, user_id, watched, position_seconds, recorded_at
		FROM watch_history WHERE movie_id=$1
		ORDER BY recorded_at DESC LIMIT $2`, movieID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WatchEvent
	for rows.Next() {
		var e WatchEvent
		if err := rows.Scan(&e.ID, &e.MovieID, &e.UserID, &e.Watched,
			&e.PositionSeconds, &e.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ContinueWatching lists movies with a saved position that are not
// marked watched, newest activity first.
func (r *Repository) ContinueWatching(limit int) ([]WatchState, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT DISTINCT ON (movie_id) movie_id, watched, position_seconds, recorded_at
		FROM watch_history
		ORDER BY movie_id, recorded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WatchState
	for rows.Next() {
		var s WatchState
		if err := rows.Scan(&s.MovieID, &s.Watched, &s.PositionSeconds, &s.LastWatched); err != nil {
			return nil, err
		}
		if s.Watched != nil && *s.Watched {
			continue
		}
		if s.PositionSeconds <= 0 {
			continue
		}
		out = append(out, s)
		if len(out) >= limit {
			break
		}
	}
	return out, rows.Err()
}

package transcribe

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Replace stores a movie's transcript, dropping any previous one.
func (r *Repository) Replace(movieID uuid.UUID, lines []Line) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM transcript_lines WHERE movie_id=$1`, movieID); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear transcript: %w", err)
	}
	for _, l := range lines {
		if _, err := tx.Exec(`
			INSERT INTO transcript_lines (movie_id, line_index, start_seconds, end_seconds, text)
			VALUES ($1,$2,$3,$4,$5)`,
			movieID, l.Index, l.StartSeconds, l.EndSeconds, l.Text); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert line %d: %w", l.Index, err)
		}
	}
	return tx.Commit()
}

func (r *Repository) ListByMovie(movieID uuid.UUID) ([]Line, error) {
	rows, err := r.db.Query(`
		SELECT line_index, start_seconds, end_seconds, text
		FROM transcript_lines WHERE movie_id=$1 ORDER BY line_index`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.Index, &l.StartSeconds, &l.EndSeconds, &l.Text); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) HasTranscript(movieID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM transcript_lines WHERE movie_id=$1)`, movieID,
	).Scan(&exists)
	return exists, err
}

// MoviesWithoutTranscript returns candidates for the library-wide
// transcription job.
func (r *Repository) MoviesWithoutTranscript() ([]uuid.UUID, error) {
	rows, err := r.db.Query(`
		SELECT m.id FROM movies m
		WHERE m.missing=false
		AND NOT EXISTS (SELECT 1 FROM transcript_lines t WHERE t.movie_id = m.id)
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

// DialogueHit is one full-text match inside a transcript.
type DialogueHit struct {
	MovieID      uuid.UUID `json:"movie_id"`
	DisplayName  string    `json:"display_name"`
	LineIndex    int       `json:"line_index"`
	StartSeconds float64   `json:"start_seconds"`
	Text         string    `json:"text"`
}

// SearchDialogue runs a websearch-style full-text query over all
// transcript lines, joined back to the owning movies.
func (r *Repository) SearchDialogue(query string, limit int) ([]DialogueHit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`
		SELECT t.movie_id, m.display_name, t.line_index, t.start_seconds, t.text
		FROM transcript_lines t
		JOIN movies m ON m.id = t.movie_id AND m.missing=false
		WHERE t.text_search @@ websearch_to_tsquery('english', $1)
		ORDER BY ts_rank(t.text_search, websearch_to_tsquery('english', $1)) DESC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DialogueHit
	for rows.Next() {
		var h DialogueHit
		if err := rows.Scan(&h.MovieID, &h.DisplayName, &h.LineIndex, &h.StartSeconds, &h.Text); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

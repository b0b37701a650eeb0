package search

import (
	"database/sql"
	"time"
)

// HistoryEntry is one recorded search.
type HistoryEntry struct {
	Query      string    `json:"query"`
	Count      int       `json:"count"`
	SearchedAt time.Time `json:"searched_at,omitempty"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(query string, resultCount int) error {
	_, err := r.db.Exec(
		"INSERT INTO search_history (query, result_count) VALUES ($1, $2)",
		query, resultCount)
	return err
}

// Recent returns the latest distinct queries, newest first.
func (r *Repository) Recent(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`
		SELECT query, MAX(result_count), MAX(searched_at) AS last
		FROM search_history
		GROUP BY query
		ORDER BY last DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Query, &e.Count, &e.SearchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Top returns the most frequently run queries.
func (r *Repository) Top(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`
		SELECT query, COUNT(*) AS times
		FROM search_history
		GROUP BY query
		ORDER BY times DESC, MAX(searched_at) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Query, &e.Count); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Clear() error {
	_, err := r.db.Exec("DELETE FROM search_history")
	return err
}

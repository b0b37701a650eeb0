package settings

import (
	"database/sql"

	"github.com/spf13/cast"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(key string) (string, error) {
	var val string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key=$1", key).Scan(&val)
	return val, err
}

// GetInt reads a setting as an integer, returning fallback when the
// key is absent or not numeric.
func (r *Repository) GetInt(key string, fallback int) int {
	val, err := r.Get(key)
	if err != nil {
		return fallback
	}
	if n := cast.ToInt(val); n != 0 {
		return n
	}
	return fallback
}

// GetBool reads a setting as a boolean, returning fallback when the
// key is absent.
func (r *Repository) GetBool(key string, fallback bool) bool {
	val, err := r.Get(key)
	if err != nil {
		return fallback
	}
	return cast.ToBool(val)
}

func (r *Repository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value=$2, updated_at=NOW()`,
		key, value)
	return err
}

func (r *Repository) GetAll() ([]Setting, error) {
	rows, err := r.db.Query("SELECT key, value, updated_at FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(key string) error {
	_, err := r.db.Exec("DELETE FROM settings WHERE key=$1", key)
	return err
}

package movies

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/reelkeep/reelkeep/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const movieColumns = `m.id, m.indexed_path_id, m.file_path, m.display_name, m.year,
	m.is_series_episode, m.show_name, m.season, m.episode, m.episode_title,
	m.duration_seconds, m.file_size, m.file_mtime, m.content_hash, m.missing,
	m.added_at, m.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	m := &models.Movie{}
	err := row.Scan(&m.ID, &m.IndexedPathID, &m.FilePath, &m.DisplayName, &m.Year,
		&m.IsSeriesEpisode, &m.ShowName, &m.Season, &m.Episode, &m.EpisodeTitle,
		&m.DurationSeconds, &m.FileSize, &m.FileMtime, &m.ContentHash, &m.Missing,
		&m.AddedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanMovieWithState(row rowScanner) (*models.Movie, error) {
	m := &models.Movie{}
	err := row.Scan(&m.ID, &m.IndexedPathID, &m.FilePath, &m.DisplayName, &m.Year,
		&m.IsSeriesEpisode, &m.ShowName, &m.Season, &m.Episode, &m.EpisodeTitle,
		&m.DurationSeconds, &m.FileSize, &m.FileMtime, &m.ContentHash, &m.Missing,
		&m.AddedAt, &m.UpdatedAt, &m.Rating, &m.Watched)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Repository) GetByID(id uuid.UUID) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.id = $1`
	movie, err := scanMovie(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movie not found")
	}
	return movie, err
}

func (r *Repository) GetByFilePath(filePath string) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.file_path = $1`
	movie, err := scanMovie(r.db.QueryRow(query, filePath))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return movie, err
}

// Upsert inserts a movie row or, when the file path already exists,
// refreshes its scan-time metadata. Returns true when a new row was
// created.
func (r *Repository) Upsert(m *models.Movie) (bool, error) {
	var inserted bool
	err := r.db.QueryRow(`
		INSERT INTO movies (indexed_path_id, file_path, display_name, year,
			is_series_episode, show_name, season, episode, episode_title,
			duration_seconds, file_size, file_mtime, content_hash, missing)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,false)
		ON CONFLICT (file_path) DO UPDATE SET
			indexed_path_id=$1, display_name=$3, year=$4,
			is_series_episode=$5, show_name=$6, season=$7, episode=$8,
			episode_title=$9, duration_seconds=$10, file_size=$11,
			file_mtime=$12, content_hash=$13, missing=false, updated_at=NOW()
		RETURNING id, added_at, (xmax = 0)`,
		m.IndexedPathID, m.FilePath, m.DisplayName, m.Year,
		m.IsSeriesEpisode, m.ShowName, m.Season, m.Episode, m.EpisodeTitle,
		m.DurationSeconds, m.FileSize, m.FileMtime, m.ContentHash,
	).Scan(&m.ID, &m.AddedAt, &inserted)
	return inserted, err
}

// ChangeCheck returns the stored size, mtime and hash for a path, for
// the scanner's skip-unchanged fast path.
func (r *Repository) ChangeCheck(filePath string) (int64, *time.Time, string, bool, error) {
	var size int64
	var mtime *time.Time
	var hash string
	err := r.db.QueryRow(
		`SELECT file_size, file_mtime, content_hash FROM movies WHERE file_path=$1`,
		filePath,
	).Scan(&size, &mtime, &hash)
	if err == sql.ErrNoRows {
		return 0, nil, "", false, nil
	}
	if err != nil {
		return 0, nil, "", false, err
	}
	return size, mtime, hash, true, nil
}

// RefreshFileMeta updates only the stored size and mtime, for files
// whose content hash proved unchanged.
func (r *Repository) RefreshFileMeta(filePath string, size int64, mtime *time.Time) error {
	_, err := r.db.Exec(
		`UPDATE movies SET file_size=$2, file_mtime=$3 WHERE file_path=$1`,
		filePath, size, mtime)
	return err
}

// MarkMissingExcept flags every movie under an indexed path whose file
// path was not seen in the current scan.
func (r *Repository) MarkMissingExcept(indexedPathID uuid.UUID, seen []string) (int, error) {
	res, err := r.db.Exec(`
		UPDATE movies SET missing=true, updated_at=NOW()
		WHERE indexed_path_id=$1 AND missing=false AND NOT (file_path = ANY($2))`,
		indexedPathID, pq.Array(seen))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *Repository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM movies WHERE id=$1`, id)
	return err
}

// UpdateDisplayFields lets the UI correct extractor output by hand.
// This is the only write path for metadata outside the scanner.
func (r *Repository) UpdateDisplayFields(id uuid.UUID, displayName string, year *int) error {
	_, err := r.db.Exec(`
		UPDATE movies SET display_name=$2, year=$3, updated_at=NOW() WHERE id=$1`,
		id, displayName, year)
	return err
}

// ──────────────────── Filtered listing ────────────────────

type MovieFilter struct {
	Query          string
	YearFrom       int
	YearTo         int
	Series         *bool // nil = both, true = episodes only, false = standalone only
	Watched        *bool // tri-state: nil = any, true = watched, false = unwatched/unset
	MinRating      float64
	IndexedPathID  *uuid.UUID
	ShowName       string
	IncludeMissing bool
	Sort           string
	Limit          int
	Offset         int
}

var sortColumns = map[string]string{
	"name":     "LOWER(m.display_name) ASC",
	"year":     "m.year DESC NULLS LAST, LOWER(m.display_name) ASC",
	"added":    "m.added_at DESC",
	"duration": "m.duration_seconds DESC",
	"rating":   "rt.score DESC NULLS LAST, LOWER(m.display_name) ASC",
}

// buildFilterClauses builds WHERE and ORDER BY fragments from a
// MovieFilter. paramStart is the next free parameter index. The rating
// and latest-watch joins are always present so sorting and the joined
// state columns work uniformly.
func buildFilterClauses(f *MovieFilter, paramStart int) (string, string, []interface{}) {
	var wheres []string
	var args []interface{}
	p := paramStart

	if f != nil {
		if f.Query != "" {
			wheres = append(wheres, fmt.Sprintf(
				`(m.display_name ILIKE '%%' || $%d || '%%' OR m.show_name ILIKE '%%' || $%d || '%%')`, p, p))
			args = append(args, f.Query)
			p++
		}
		if f.YearFrom > 0 {
			wheres = append(wheres, fmt.Sprintf(`m.year >= $%d`, p))
			args = append(args, f.YearFrom)
			p++
		}
		if f.YearTo > 0 {
			wheres = append(wheres, fmt.Sprintf(`m.year <= $%d`, p))
			args = append(args, f.YearTo)
			p++
		}
		if f.Series != nil {
			wheres = append(wheres, fmt.Sprintf(`m.is_series_episode = $%d`, p))
			args = append(args, *f.Series)
			p++
		}
		if f.Watched != nil {
			if *f.Watched {
				wheres = append(wheres, `wh.watched = true`)
			} else {
				wheres = append(wheres, `(wh.watched IS NULL OR wh.watched = false)`)
			}
		}
		if f.MinRating > 0 {
			wheres = append(wheres, fmt.Sprintf(`rt.score >= $%d`, p))
			args = append(args, f.MinRating)
			p++
		}
		if f.IndexedPathID != nil {
			wheres = append(wheres, fmt.Sprintf(`m.indexed_path_id = $%d`, p))
			args = append(args, *f.IndexedPathID)
			p++
		}
		if f.ShowName != "" {
			wheres = append(wheres, fmt.Sprintf(`m.show_name = $%d`, p))
			args = append(args, f.ShowName)
			p++
		}
		if !f.IncludeMissing {
			wheres = append(wheres, `m.missing = false`)
		}
	} else {
		wheres = append(wheres, `m.missing = false`)
	}

	whereSQL := ""
	if len(wheres) > 0 {
		whereSQL = "WHERE " + strings.Join(wheres, " AND ")
	}

	orderSQL := "ORDER BY " + sortColumns["name"]
	if f != nil {
		if col, ok := sortColumns[f.Sort]; ok {
			orderSQL = "ORDER BY " + col
		}
	}
	return whereSQL, orderSQL, args
}

const stateJoins = `
	LEFT JOIN ratings rt ON rt.movie_id = m.id
	LEFT JOIN LATERAL (
		SELECT watched FROM watch_history
		WHERE movie_id = m.id ORDER BY recorded_at DESC LIMIT 1
	) wh ON true`

// List returns movies matching the filter with rating and latest
// watched state joined in.
func (r *Repository) List(f *MovieFilter) ([]*models.Movie, error) {
	whereSQL, orderSQL, args := buildFilterClauses(f, 1)

	limit, offset := 50, 0
	if f != nil {
		if f.Limit > 0 {
			limit = f.Limit
		}
		offset = f.Offset
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s, rt.score, wh.watched FROM movies m %s %s %s LIMIT $%d OFFSET $%d`,
		movieColumns, stateJoins, whereSQL, orderSQL, len(args)-1, len(args))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Movie
	for rows.Next() {
		m, err := scanMovieWithState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Count returns the number of movies matching the filter.
func (r *Repository) Count(f *MovieFilter) (int, error) {
	whereSQL, _, args := buildFilterClauses(f, 1)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM movies m %s %s`, stateJoins, whereSQL)
	var n int
	err := r.db.QueryRow(query, args...).Scan(&n)
	return n, err
}

// DistinctYears returns every release year present in the library,
// newest first, for the filter dropdown.
func (r *Repository) DistinctYears() ([]int, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT year FROM movies
		WHERE year IS NOT NULL AND missing=false ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

// Shows returns distinct show names for series browsing.
func (r *Repository) Shows() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT show_name FROM movies
		WHERE show_name IS NOT NULL AND missing=false ORDER BY show_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ──────────────────── Ratings ────────────────────

func (r *Repository) SetRating(movieID uuid.UUID, score float64) error {
	_, err := r.db.Exec(`
		INSERT INTO ratings (movie_id, score, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (movie_id) DO UPDATE SET score=$2, updated_at=NOW()`,
		movieID, score)
	return err
}

func (r *Repository) GetRating(movieID uuid.UUID) (*models.Rating, error) {
	rt := &models.Rating{}
	err := r.db.QueryRow(
		`SELECT movie_id, score, updated_at FROM ratings WHERE movie_id=$1`, movieID,
	).Scan(&rt.MovieID, &rt.Score, &rt.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *Repository) DeleteRating(movieID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM ratings WHERE movie_id=$1`, movieID)
	return err
}

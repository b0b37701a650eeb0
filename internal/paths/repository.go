package paths

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(folderPath string) (*models.IndexedPath, error) {
	p := &models.IndexedPath{FolderPath: folderPath, Enabled: true}
	err := r.db.QueryRow(`
		INSERT INTO indexed_paths (folder_path) VALUES ($1)
		RETURNING id, enabled, created_at`,
		folderPath,
	).Scan(&p.ID, &p.Enabled, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) List() ([]models.IndexedPath, error) {
	rows, err := r.db.Query(`
		SELECT id, folder_path, enabled, last_scan_at, created_at
		FROM indexed_paths ORDER BY folder_path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.IndexedPath
	for rows.Next() {
		var p models.IndexedPath
		if err := rows.Scan(&p.ID, &p.FolderPath, &p.Enabled, &p.LastScanAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListEnabled returns only paths the scanner should walk.
func (r *Repository) ListEnabled() ([]models.IndexedPath, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) GetByID(id uuid.UUID) (*models.IndexedPath, error) {
	p := &models.IndexedPath{}
	err := r.db.QueryRow(`
		SELECT id, folder_path, enabled, last_scan_at, created_at
		FROM indexed_paths WHERE id=$1`, id,
	).Scan(&p.ID, &p.FolderPath, &p.Enabled, &p.LastScanAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindByFilePath maps a file somewhere on disk to the indexed path
// containing it, longest prefix first.
func (r *Repository) FindByFilePath(filePath string) (*models.IndexedPath, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	var best *models.IndexedPath
	for i := range all {
		p := &all[i]
		if strings.HasPrefix(filePath, p.FolderPath) {
			if best == nil || len(p.FolderPath) > len(best.FolderPath) {
				best = p
			}
		}
	}
	if best == nil {
		return nil, sql.ErrNoRows
	}
	return best, nil
}

func (r *Repository) SetEnabled(id uuid.UUID, enabled bool) error {
	_, err := r.db.Exec(`UPDATE indexed_paths SET enabled=$2 WHERE id=$1`, id, enabled)
	return err
}

func (r *Repository) UpdateLastScan(id uuid.UUID) error {
	_, err := r.db.Exec(`UPDATE indexed_paths SET last_scan_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *Repository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM indexed_paths WHERE id=$1`, id)
	return err
}

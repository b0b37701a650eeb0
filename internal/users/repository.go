package users

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

func (r *Repository) Create(username, passwordHash string, isAdmin bool) (*User, error) {
	u := &User{Username: username, PasswordHash: passwordHash, IsAdmin: isAdmin}
	err := r.db.QueryRow(`
		INSERT INTO users (username, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		username, passwordHash, isAdmin,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByUsername(username string) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(`
		SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username=$1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByID(id uuid.UUID) (*User, error) {
	u := &User{}
	err := r.db.QueryRow(`
		SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) List() ([]User, error) {
	rows, err := r.db.Query(`
		SELECT id, username, password_hash, is_admin, created_at
		FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	_, err := r.db.Exec("UPDATE users SET password_hash=$1 WHERE id=$2", passwordHash, id)
	return err
}

func (r *Repository) SetAdmin(id uuid.UUID, isAdmin bool) error {
	_, err := r.db.Exec("UPDATE users SET is_admin=$1 WHERE id=$2", isAdmin, id)
	return err
}

func (r *Repository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec("DELETE FROM users WHERE id=$1", id)
	return err
}

package auth

import (
	"context"
	"database/sql"
	"strings"
)

// Repo provides persistence operations for users.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const userColumns = "id, name, email, password_hash, role, created_at, updated_at"

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user or sql.ErrNoRows.
func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail looks a user up by lowercased email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, strings.ToLower(strings.TrimSpace(email))))
}

// List returns all users, newest first.
func (r *Repo) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0, 8)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateRole changes a user's role and returns the updated row.
func (r *Repo) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	const q = `
UPDATE users SET role = $2, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q, id, role))
}

// Delete removes a user. Returns false when no row matched.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetStats aggregates user counts for the admin dashboard.
func (r *Repo) GetStats(ctx context.Context) (*Stats, error) {
	const q = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE role = 'admin'),
  COUNT(*) FILTER (WHERE created_at >= now() - interval '30 days')
FROM users`
	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Admins, &s.Recent); err != nil {
		return nil, err
	}
	return &s, nil
}

package skills

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Repo provides persistence operations for skills.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func scanRow(scan func(dest ...any) error) (Skill, error) {
	var s Skill
	err := scan(&s.ID, &s.Name, &s.Category, &s.Icon, &s.Proficiency,
		&s.Order, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List runs the shared listing engine with the skill descriptor.
func (r *Repo) List(ctx context.Context, p listing.Params) (listing.Result[Skill], error) {
	return listing.Execute(ctx, r.db, listResource, p, func(rows *sql.Rows) (Skill, error) {
		return scanRow(rows.Scan)
	})
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Skill, error) {
	const q = `SELECT ` + columns + ` FROM skills WHERE id = $1`
	s, err := scanRow(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type CreateInput struct {
	Name        string
	Category    string
	Icon        string
	Proficiency int
	Order       int
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (*Skill, error) {
	const q = `
INSERT INTO skills (id, name, category, icon, proficiency, sort_order)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns
	s, err := scanRow(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), in.Name, in.Category, in.Icon, in.Proficiency, in.Order).Scan)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateInput is a partial update: nil fields keep their stored value.
type UpdateInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Icon        *string `json:"icon"`
	Proficiency *int    `json:"proficiency"`
	Order       *int    `json:"order"`
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateInput) (*Skill, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.Icon != nil {
		add("icon", *in.Icon)
	}
	if in.Proficiency != nil {
		add("proficiency", *in.Proficiency)
	}
	if in.Order != nil {
		add("sort_order", *in.Order)
	}

	q := fmt.Sprintf(`UPDATE skills SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), columns)
	s, err := scanRow(r.db.QueryRowContext(ctx, q, args...).Scan)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Grouped returns every skill bucketed by category, each bucket in default
// display order.
func (r *Repo) Grouped(ctx context.Context) (map[string][]Skill, error) {
	const q = `SELECT ` + columns + ` FROM skills ORDER BY category, sort_order ASC, name ASC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]Skill)
	for rows.Next() {
		s, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		grouped[s.Category] = append(grouped[s.Category], s)
	}
	return grouped, rows.Err()
}

type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Reorder applies new positions in one transaction, then returns the full
// list in display order.
func (r *Repo) Reorder(ctx context.Context, updates []OrderUpdate) ([]Skill, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE skills SET sort_order = $2, updated_at = now() WHERE id = $1`,
			u.ID, u.Order); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	const q = `SELECT ` + columns + ` FROM skills ORDER BY sort_order ASC, name ASC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0, 16)
	for rows.Next() {
		s, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// BulkDelete removes the given ids and reports how many rows went away.
func (r *Repo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetStats aggregates per-category counts and average proficiency.
func (r *Repo) GetStats(ctx context.Context) (*Stats, error) {
	s := Stats{Categories: make([]CategoryStats, 0, len(Categories))}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM skills`).Scan(&s.TotalSkills); err != nil {
		return nil, err
	}

	const q = `
SELECT category, COUNT(*), COALESCE(ROUND(AVG(proficiency), 1), 0)
FROM skills
GROUP BY category
ORDER BY category`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c CategoryStats
		if err := rows.Scan(&c.Category, &c.Count, &c.AvgProficiency); err != nil {
			return nil, err
		}
		s.Categories = append(s.Categories, c)
	}
	return &s, rows.Err()
}

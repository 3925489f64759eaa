package projects

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Repo provides persistence operations for projects.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func scanRow(scan func(dest ...any) error) (Project, error) {
	var p Project
	err := scan(&p.ID, &p.Title, &p.Description, &p.ShortDescription, &p.Image,
		pq.Array(&p.Technologies), &p.Category, &p.LiveURL, &p.GithubURL,
		&p.Featured, &p.Status, &p.Order, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List runs the shared listing engine with the project descriptor.
func (r *Repo) List(ctx context.Context, p listing.Params) (listing.Result[Project], error) {
	return listing.Execute(ctx, r.db, listResource, p, func(rows *sql.Rows) (Project, error) {
		return scanRow(rows.Scan)
	})
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Project, error) {
	const q = `SELECT ` + columns + ` FROM projects WHERE id = $1`
	p, err := scanRow(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateInput carries the validated fields for a new project.
type CreateInput struct {
	Title            string
	Description      string
	ShortDescription string
	Image            string
	Technologies     []string
	Category         string
	LiveURL          string
	GithubURL        string
	Featured         bool
	Order            int
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (*Project, error) {
	const q = `
INSERT INTO projects (id, title, description, short_description, image, technologies, category, live_url, github_url, featured, status, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'completed', $11)
RETURNING ` + columns
	p, err := scanRow(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), in.Title, in.Description, in.ShortDescription, in.Image,
		pq.Array(in.Technologies), in.Category, in.LiveURL, in.GithubURL,
		in.Featured, in.Order).Scan)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateInput is a partial update: nil fields keep their stored value.
type UpdateInput struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"shortDescription"`
	Image            *string   `json:"image"`
	Technologies     *[]string `json:"technologies"`
	Category         *string   `json:"category"`
	LiveURL          *string   `json:"liveUrl"`
	GithubURL        *string   `json:"githubUrl"`
	Featured         *bool     `json:"featured"`
	Status           *string   `json:"status"`
	Order            *int      `json:"order"`
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateInput) (*Project, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Title != nil {
		add("title", *in.Title)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.ShortDescription != nil {
		add("short_description", *in.ShortDescription)
	}
	if in.Image != nil {
		add("image", *in.Image)
	}
	if in.Technologies != nil {
		add("technologies", pq.Array(*in.Technologies))
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.LiveURL != nil {
		add("live_url", *in.LiveURL)
	}
	if in.GithubURL != nil {
		add("github_url", *in.GithubURL)
	}
	if in.Featured != nil {
		add("featured", *in.Featured)
	}
	if in.Status != nil {
		add("status", *in.Status)
	}
	if in.Order != nil {
		add("sort_order", *in.Order)
	}

	q := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), columns)
	p, err := scanRow(r.db.QueryRowContext(ctx, q, args...).Scan)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Featured returns featured projects in default display order.
func (r *Repo) Featured(ctx context.Context, limit int) ([]Project, error) {
	q := `SELECT ` + columns + ` FROM projects WHERE featured = true ORDER BY sort_order ASC, created_at DESC, id`
	args := []any{}
	if limit > 0 {
		args = append(args, limit)
		q += " LIMIT $1"
	}
	return r.queryMany(ctx, q, args...)
}

// ByCategory returns the projects of one category in default display order.
func (r *Repo) ByCategory(ctx context.Context, category string, limit int) ([]Project, error) {
	q := `SELECT ` + columns + ` FROM projects WHERE category = $1 ORDER BY sort_order ASC, created_at DESC, id`
	args := []any{category}
	if limit > 0 {
		args = append(args, limit)
		q += " LIMIT $2"
	}
	return r.queryMany(ctx, q, args...)
}

func (r *Repo) queryMany(ctx context.Context, q string, args ...any) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		p, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ToggleFeatured flips the featured flag and returns the updated row.
func (r *Repo) ToggleFeatured(ctx context.Context, id string) (*Project, error) {
	const q = `
UPDATE projects SET featured = NOT featured, updated_at = now()
WHERE id = $1
RETURNING ` + columns
	p, err := scanRow(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// OrderUpdate pairs a record id with its new display position.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Reorder applies new positions in one transaction, then returns the full
// list in display order.
func (r *Repo) Reorder(ctx context.Context, updates []OrderUpdate) ([]Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE projects SET sort_order = $2, updated_at = now() WHERE id = $1`,
			u.ID, u.Order); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.queryMany(ctx, `SELECT `+columns+` FROM projects ORDER BY sort_order ASC, created_at DESC, id`)
}

// BulkDelete removes the given ids and reports how many rows went away.
func (r *Repo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetStats aggregates totals, per-category counts and the ten most used
// technologies.
func (r *Repo) GetStats(ctx context.Context) (*Stats, error) {
	s := Stats{
		Categories:      make([]CategoryCount, 0, len(Categories)),
		TopTechnologies: make([]TechnologyUse, 0, 10),
	}

	const totals = `SELECT COUNT(*), COUNT(*) FILTER (WHERE featured) FROM projects`
	if err := r.db.QueryRowContext(ctx, totals).Scan(&s.TotalProjects, &s.FeaturedProjects); err != nil {
		return nil, err
	}

	const byCategory = `SELECT category, COUNT(*) FROM projects GROUP BY category ORDER BY COUNT(*) DESC, category`
	rows, err := r.db.QueryContext(ctx, byCategory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		s.Categories = append(s.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const topTech = `
SELECT tech, COUNT(*) AS uses
FROM projects, unnest(technologies) AS tech
GROUP BY tech
ORDER BY uses DESC, tech
LIMIT 10`
	techRows, err := r.db.QueryContext(ctx, topTech)
	if err != nil {
		return nil, err
	}
	defer techRows.Close()
	for techRows.Next() {
		var t TechnologyUse
		if err := techRows.Scan(&t.Name, &t.Count); err != nil {
			return nil, err
		}
		s.TopTechnologies = append(s.TopTechnologies, t)
	}
	if err := techRows.Err(); err != nil {
		return nil, err
	}

	const distinctTech = `SELECT COUNT(DISTINCT tech) FROM projects, unnest(technologies) AS tech`
	if err := r.db.QueryRowContext(ctx, distinctTech).Scan(&s.TotalTechnologies); err != nil {
		return nil, err
	}

	return &s, nil
}

package experience

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Repo provides persistence operations for experience entries.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func scanRow(scan func(dest ...any) error) (Experience, error) {
	var e Experience
	err := scan(&e.ID, &e.Company, &e.Position, &e.Location, &e.StartDate, &e.EndDate,
		&e.Current, &e.Description, pq.Array(&e.Responsibilities), pq.Array(&e.Technologies),
		&e.Order, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// List runs the shared listing engine with the experience descriptor.
func (r *Repo) List(ctx context.Context, p listing.Params) (listing.Result[Experience], error) {
	return listing.Execute(ctx, r.db, listResource, p, func(rows *sql.Rows) (Experience, error) {
		return scanRow(rows.Scan)
	})
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Experience, error) {
	const q = `SELECT ` + columns + ` FROM experience WHERE id = $1`
	e, err := scanRow(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type CreateInput struct {
	Company          string
	Position         string
	Location         string
	StartDate        time.Time
	EndDate          *time.Time
	Current          bool
	Description      string
	Responsibilities []string
	Technologies     []string
	Order            int
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (*Experience, error) {
	// A current position never carries an end date, whatever the payload said.
	if in.Current {
		in.EndDate = nil
	}
	if in.Responsibilities == nil {
		in.Responsibilities = []string{}
	}
	if in.Technologies == nil {
		in.Technologies = []string{}
	}

	const q = `
INSERT INTO experience (id, company, position, location, start_date, end_date,
                        current, description, responsibilities, technologies, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + columns
	e, err := scanRow(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), in.Company, in.Position, in.Location, in.StartDate, in.EndDate,
		in.Current, in.Description, pq.Array(in.Responsibilities), pq.Array(in.Technologies),
		in.Order).Scan)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateInput is a partial update: nil fields keep their stored value.
// Setting current to true clears the end date even if one is supplied.
type UpdateInput struct {
	Company          *string    `json:"company"`
	Position         *string    `json:"position"`
	Location         *string    `json:"location"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Current          *bool      `json:"current"`
	Description      *string    `json:"description"`
	Responsibilities []string   `json:"responsibilities"`
	Technologies     []string   `json:"technologies"`
	Order            *int       `json:"order"`
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateInput) (*Experience, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Company != nil {
		add("company", *in.Company)
	}
	if in.Position != nil {
		add("position", *in.Position)
	}
	if in.Location != nil {
		add("location", *in.Location)
	}
	if in.StartDate != nil {
		add("start_date", *in.StartDate)
	}
	if in.Current != nil && *in.Current {
		add("current", true)
		set = append(set, "end_date = NULL")
	} else {
		if in.Current != nil {
			add("current", false)
		}
		if in.EndDate != nil {
			add("end_date", *in.EndDate)
		}
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Responsibilities != nil {
		add("responsibilities", pq.Array(in.Responsibilities))
	}
	if in.Technologies != nil {
		add("technologies", pq.Array(in.Technologies))
	}
	if in.Order != nil {
		add("sort_order", *in.Order)
	}

	q := fmt.Sprintf(`UPDATE experience SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), columns)
	e, err := scanRow(r.db.QueryRowContext(ctx, q, args...).Scan)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM experience WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Reorder applies new positions in one transaction, then returns the full
// timeline in display order.
func (r *Repo) Reorder(ctx context.Context, updates []OrderUpdate) ([]Experience, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE experience SET sort_order = $2, updated_at = now() WHERE id = $1`,
			u.ID, u.Order); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	const q = `SELECT ` + columns + ` FROM experience ORDER BY sort_order ASC, start_date DESC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Experience, 0, 8)
	for rows.Next() {
		e, err := scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetStats aggregates the timeline counters in a single scan.
func (r *Repo) GetStats(ctx context.Context) (*Stats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE current),
       COUNT(DISTINCT company)
FROM experience`
	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TotalEntries, &s.CurrentPositions, &s.Companies); err != nil {
		return nil, err
	}
	return &s, nil
}

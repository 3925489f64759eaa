package messages

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/openfolio/portfolio-backend/internal/listing"
)

// Repo provides persistence operations for contact messages.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func scanRow(scan func(dest ...any) error) (Message, error) {
	var m Message
	err := scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body,
		&m.Read, &m.Replied, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// List runs the shared listing engine and tacks on the live unread count so
// the admin inbox can render its badge from one round trip.
func (r *Repo) List(ctx context.Context, p listing.Params) (listing.Result[Message], int, error) {
	res, err := listing.Execute(ctx, r.db, listResource, p, func(rows *sql.Rows) (Message, error) {
		return scanRow(rows.Scan)
	})
	if err != nil {
		return res, 0, err
	}

	var unread int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE read = false`).Scan(&unread); err != nil {
		return res, 0, err
	}
	return res, unread, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Message, error) {
	const q = `SELECT ` + columns + ` FROM messages WHERE id = $1`
	m, err := scanRow(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type CreateInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (*Message, error) {
	const q = `
INSERT INTO messages (id, name, email, subject, body)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns
	m, err := scanRow(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), in.Name, in.Email, in.Subject, in.Body).Scan)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateInput is a partial update: nil fields keep their stored value. Only
// the flags are updatable; the sender's content is immutable.
type UpdateInput struct {
	Read    *bool `json:"read"`
	Replied *bool `json:"replied"`
}

func (r *Repo) Update(ctx context.Context, id string, in UpdateInput) (*Message, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Read != nil {
		add("read", *in.Read)
	}
	if in.Replied != nil {
		add("replied", *in.Replied)
	}

	q := fmt.Sprintf(`UPDATE messages SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), columns)
	m, err := scanRow(r.db.QueryRowContext(ctx, q, args...).Scan)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkRead flips the read flag in the given direction and returns the row.
func (r *Repo) MarkRead(ctx context.Context, id string, read bool) (*Message, error) {
	const q = `UPDATE messages SET read = $2, updated_at = now() WHERE id = $1 RETURNING ` + columns
	m, err := scanRow(r.db.QueryRowContext(ctx, q, id, read).Scan)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BulkMarkRead marks the given ids read. Rows already read still count as
// matched, which is what the caller reports.
func (r *Repo) BulkMarkRead(ctx context.Context, ids []string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read = true, updated_at = now() WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *Repo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetStats aggregates the inbox counters in a single scan.
func (r *Repo) GetStats(ctx context.Context) (*Stats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE read),
       COUNT(*) FILTER (WHERE NOT read),
       COUNT(*) FILTER (WHERE created_at > now() - interval '7 days'),
       COUNT(*) FILTER (WHERE created_at > now() - interval '30 days')
FROM messages`
	var s Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TotalMessages, &s.ReadMessages, &s.UnreadMessages,
		&s.RecentMessages, &s.MonthlyMessages); err != nil {
		return nil, err
	}
	return &s, nil
}

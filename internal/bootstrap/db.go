package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type DBOptions struct {
	DSN       string
	ConnectTO time.Duration
	PingTO    time.Duration
}

func OpenDB(ctx context.Context, opt DBOptions) (*sql.DB, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	db, err := sql.Open("postgres", opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

// InitSchema creates the tables on first boot. Statements are idempotent so
// a restart against an existing database is a no-op.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			description       TEXT NOT NULL,
			short_description TEXT NOT NULL,
			image             TEXT NOT NULL,
			technologies      TEXT[] NOT NULL DEFAULT '{}',
			category          TEXT NOT NULL DEFAULT 'Other',
			live_url          TEXT NOT NULL DEFAULT '',
			github_url        TEXT NOT NULL DEFAULT '',
			featured          BOOLEAN NOT NULL DEFAULT false,
			status            TEXT NOT NULL DEFAULT 'completed',
			sort_order        INTEGER NOT NULL DEFAULT 0,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS skills (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			category    TEXT NOT NULL,
			icon        TEXT NOT NULL DEFAULT '',
			proficiency INTEGER NOT NULL DEFAULT 0,
			sort_order  INTEGER NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			subject    TEXT NOT NULL,
			body       TEXT NOT NULL,
			read       BOOLEAN NOT NULL DEFAULT false,
			replied    BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS experience (
			id               TEXT PRIMARY KEY,
			company          TEXT NOT NULL,
			position         TEXT NOT NULL,
			location         TEXT NOT NULL DEFAULT '',
			start_date       TIMESTAMPTZ NOT NULL,
			end_date         TIMESTAMPTZ,
			current          BOOLEAN NOT NULL DEFAULT false,
			description      TEXT NOT NULL,
			responsibilities TEXT[] NOT NULL DEFAULT '{}',
			technologies     TEXT[] NOT NULL DEFAULT '{}',
			sort_order       INTEGER NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_category ON projects (category)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_featured ON projects (featured)`,
		`CREATE INDEX IF NOT EXISTS idx_skills_category ON skills (category)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_read ON messages (read)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// statements are ordered: reviews references teachers.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS teachers (
		id         SERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		school     TEXT NOT NULL,
		source_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (name, school)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id               SERIAL PRIMARY KEY,
		teacher_id       INTEGER NOT NULL REFERENCES teachers(id),
		school           TEXT NOT NULL,
		overall          INTEGER NOT NULL CHECK (overall BETWEEN 1 AND 5),
		clarity          INTEGER NOT NULL CHECK (clarity BETWEEN 1 AND 5),
		difficulty       INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 5),
		would_take_again BOOLEAN NOT NULL,
		comment          TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_teacher_status ON reviews (teacher_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_status_created ON reviews (status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_teachers_name ON teachers (name)`,
}

// Migrate applies the schema. Statements are idempotent so it is safe to run
// on every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

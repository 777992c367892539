package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edurate/edurate-api/internal/models"
)

// TeacherRepository manages persistence for the roster.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// likeEscaper neutralizes LIKE metacharacters so caller input always matches
// as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns up to limit teachers matching the query substring on name or
// school, alphabetical by name. An empty query lists the roster head.
func (r *TeacherRepository) Search(ctx context.Context, query string, limit int) ([]models.TeacherSummary, error) {
	const q = `SELECT id, name, school FROM teachers
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR school ILIKE '%' || $1 || '%')
		ORDER BY name ASC LIMIT $2`
	teachers := []models.TeacherSummary{}
	if err := r.db.SelectContext(ctx, &teachers, q, likeEscaper.Replace(query), limit); err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	const q = `SELECT id, name, school, source_url, created_at, updated_at FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, q, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Exists reports whether a teacher row with the given id is present.
func (r *TeacherRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, fmt.Errorf("check teacher exists: %w", err)
	}
	return exists, nil
}

// Upsert inserts a roster row or, on a (name, school) conflict, refreshes
// provenance and updated_at in place. Identity and created_at survive
// re-scrapes. Returns true when a new row was inserted.
func (r *TeacherRepository) Upsert(ctx context.Context, name, school, sourceURL string) (bool, error) {
	const q = `INSERT INTO teachers (name, school, source_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (name, school)
		DO UPDATE SET source_url = EXCLUDED.source_url, updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0) AS inserted`
	var inserted bool
	now := time.Now().UTC()
	if err := r.db.GetContext(ctx, &inserted, q, name, school, sourceURL, now); err != nil {
		return false, fmt.Errorf("upsert teacher: %w", err)
	}
	return inserted, nil
}

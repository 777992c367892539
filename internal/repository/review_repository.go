package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edurate/edurate-api/internal/models"
)

// ReviewRepository manages persistence for reviews and their aggregates.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review in the pending state and assigns its identity.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.Status = models.ReviewPending
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	const q = `INSERT INTO reviews (teacher_id, school, overall, clarity, difficulty, would_take_again, comment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.GetContext(ctx, &review.ID, q,
		review.TeacherID, review.School, review.Overall, review.Clarity, review.Difficulty,
		review.WouldTakeAgain, review.Comment, review.Status, review.CreatedAt); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListApproved returns approved reviews for one teacher, newest first.
func (r *ReviewRepository) ListApproved(ctx context.Context, teacherID int64, limit int) ([]models.Review, error) {
	const q = `SELECT id, teacher_id, school, overall, clarity, difficulty, would_take_again, comment, status, created_at
		FROM reviews WHERE teacher_id = $1 AND status = 'approved'
		ORDER BY created_at DESC LIMIT $2`
	reviews := []models.Review{}
	if err := r.db.SelectContext(ctx, &reviews, q, teacherID, limit); err != nil {
		return nil, fmt.Errorf("list approved reviews: %w", err)
	}
	return reviews, nil
}

// ListPending returns the moderation queue, newest first, left-joined with
// the teacher's display name so a dangling reference still shows up.
func (r *ReviewRepository) ListPending(ctx context.Context, limit int) ([]models.PendingReview, error) {
	const q = `SELECT r.id, r.teacher_id, r.school, r.overall, r.clarity, r.difficulty, r.would_take_again, r.comment, r.status, r.created_at,
		t.name AS teacher_name
		FROM reviews r LEFT JOIN teachers t ON t.id = r.teacher_id
		WHERE r.status = 'pending'
		ORDER BY r.created_at DESC LIMIT $1`
	rows := []models.PendingReview{}
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	return rows, nil
}

// ListByStatus returns reviews in the given status, newest first.
func (r *ReviewRepository) ListByStatus(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error) {
	const q = `SELECT id, teacher_id, school, overall, clarity, difficulty, would_take_again, comment, status, created_at
		FROM reviews WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
	reviews := []models.Review{}
	if err := r.db.SelectContext(ctx, &reviews, q, status, limit); err != nil {
		return nil, fmt.Errorf("list reviews by status: %w", err)
	}
	return reviews, nil
}

// Transition moves one pending review into a terminal status. The update is
// a compare-and-swap on the current status: it affects zero rows when the id
// is unknown or the review was already moderated, and concurrent calls can
// never both succeed.
func (r *ReviewRepository) Transition(ctx context.Context, id int64, target models.ReviewStatus) (int64, error) {
	const q = `UPDATE reviews SET status = $2 WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, q, id, target)
	if err != nil {
		return 0, fmt.Errorf("transition review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("transition review rows: %w", err)
	}
	return affected, nil
}

// AggregateForTeacher recomputes approval-gated statistics on demand. SQL
// AVG over zero rows yields NULL, which maps to nil pointers: "no data", not
// a zero rating.
func (r *ReviewRepository) AggregateForTeacher(ctx context.Context, teacherID int64) (*models.TeacherStats, error) {
	const q = `SELECT
		COUNT(*) AS review_count,
		AVG(overall)::float8 AS avg_overall,
		AVG(clarity)::float8 AS avg_clarity,
		AVG(difficulty)::float8 AS avg_difficulty,
		AVG(CASE WHEN would_take_again THEN 100.0 ELSE 0.0 END)::float8 AS would_take_again_pct
		FROM reviews WHERE teacher_id = $1 AND status = 'approved'`
	var stats models.TeacherStats
	if err := r.db.GetContext(ctx, &stats, q, teacherID); err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	return &stats, nil
}

// TopTeachers ranks teachers with at least one approved review by average
// overall rating, tie-broken by review count then name.
func (r *ReviewRepository) TopTeachers(ctx context.Context, limit int) ([]models.TopTeacher, error) {
	const q = `SELECT t.id, t.name, t.school,
		COUNT(r.id) AS review_count,
		AVG(r.overall)::float8 AS avg_overall
		FROM teachers t
		JOIN reviews r ON r.teacher_id = t.id AND r.status = 'approved'
		GROUP BY t.id, t.name, t.school
		ORDER BY avg_overall DESC, review_count DESC, t.name ASC
		LIMIT $1`
	rows := []models.TopTeacher{}
	if err := r.db.SelectContext(ctx, &rows, q, limit); err != nil {
		return nil, fmt.Errorf("top teachers: %w", err)
	}
	return rows, nil
}

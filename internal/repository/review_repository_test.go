package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurate/edurate-api/internal/models"
)

func TestReviewRepositoryCreateAssignsIdentity(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(int64(7), "Central High", 5, 4, 3, true, "great", models.ReviewPending, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	review := &models.Review{
		TeacherID:      7,
		School:         "Central High",
		Overall:        5,
		Clarity:        4,
		Difficulty:     3,
		WouldTakeAgain: true,
		Comment:        "great",
	}
	require.NoError(t, repo.Create(context.Background(), review))
	assert.Equal(t, int64(42), review.ID)
	assert.Equal(t, models.ReviewPending, review.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryTransitionCompareAndSwap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("UPDATE reviews SET status").
		WithArgs(int64(42), models.ReviewApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Transition(context.Background(), 42, models.ReviewApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// second transition finds no pending row and changes nothing
	mock.ExpectExec("UPDATE reviews SET status").
		WithArgs(int64(42), models.ReviewApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err = repo.Transition(context.Background(), 42, models.ReviewApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryListPendingLeftJoin(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "school", "overall", "clarity", "difficulty", "would_take_again", "comment", "status", "created_at", "teacher_name"}).
		AddRow(2, 7, "Central High", 5, 4, 3, true, "great", "pending", now, "Jane Doe").
		AddRow(1, 99, "Central High", 1, 1, 1, false, "", "pending", now.Add(-time.Hour), nil)
	mock.ExpectQuery("SELECT r.id, r.teacher_id").
		WithArgs(50).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.NotNil(t, pending[0].TeacherName)
	assert.Equal(t, "Jane Doe", *pending[0].TeacherName)
	assert.Nil(t, pending[1].TeacherName, "dangling teacher reference surfaces as null name")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryAggregateWithData(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"review_count", "avg_overall", "avg_clarity", "avg_difficulty", "would_take_again_pct"}).
		AddRow(2, 4.5, 4.0, 3.0, 50.0)
	mock.ExpectQuery("SELECT").WithArgs(int64(7)).WillReturnRows(rows)

	stats, err := repo.AggregateForTeacher(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ReviewCount)
	require.NotNil(t, stats.AvgOverall)
	assert.InDelta(t, 4.5, *stats.AvgOverall, 0.001)
	require.NotNil(t, stats.WouldTakeAgainPct)
	assert.InDelta(t, 50.0, *stats.WouldTakeAgainPct, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryAggregateEmptyIsNullNotZero(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"review_count", "avg_overall", "avg_clarity", "avg_difficulty", "would_take_again_pct"}).
		AddRow(0, nil, nil, nil, nil)
	mock.ExpectQuery("SELECT").WithArgs(int64(7)).WillReturnRows(rows)

	stats, err := repo.AggregateForTeacher(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ReviewCount)
	assert.Nil(t, stats.AvgOverall)
	assert.Nil(t, stats.AvgClarity)
	assert.Nil(t, stats.AvgDifficulty)
	assert.Nil(t, stats.WouldTakeAgainPct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryTopTeachers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "school", "review_count", "avg_overall"}).
		AddRow(1, "Jane Doe", "Central High", 3, 4.7).
		AddRow(2, "John Smith", "Central High", 1, 4.0)
	mock.ExpectQuery("SELECT t.id, t.name, t.school").
		WithArgs(10).
		WillReturnRows(rows)

	top, err := repo.TopTeachers(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Jane Doe", top[0].Name)
	assert.InDelta(t, 4.7, top[0].AvgOverall, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepositoryListApproved(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "school", "overall", "clarity", "difficulty", "would_take_again", "comment", "status", "created_at"}).
		AddRow(3, 7, "Central High", 5, 4, 3, true, "great", "approved", now)
	mock.ExpectQuery("SELECT id, teacher_id, school").
		WithArgs(int64(7), 50).
		WillReturnRows(rows)

	reviews, err := repo.ListApproved(context.Background(), 7, 50)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, models.ReviewApproved, reviews[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

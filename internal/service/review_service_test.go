package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/dto"
	"github.com/edurate/edurate-api/internal/models"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type mockReviewRepo struct {
	created  []*models.Review
	approved []models.Review
	nextID   int64
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	m.nextID++
	review.ID = m.nextID
	cp := *review
	m.created = append(m.created, &cp)
	return nil
}

func (m *mockReviewRepo) ListApproved(ctx context.Context, teacherID int64, limit int) ([]models.Review, error) {
	return m.approved, nil
}

type mockTeacherExists struct {
	ids map[int64]bool
}

func (m *mockTeacherExists) Exists(ctx context.Context, id int64) (bool, error) {
	return m.ids[id], nil
}

func submission(raw string) dto.SubmitReviewRequest {
	var req dto.SubmitReviewRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		panic(err)
	}
	return req
}

func newReviewService(repo *mockReviewRepo, teachers *mockTeacherExists) *ReviewService {
	return NewReviewService(repo, teachers, zap.NewNop())
}

func TestReviewSubmitHappyPath(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo, &mockTeacherExists{ids: map[int64]bool{7: true}})

	review, err := svc.Submit(context.Background(), submission(`{
		"teacher_id": 7, "school": "Central High",
		"overall": 5, "difficulty": 3, "clarity": 4,
		"would_take_again": true, "comment": "great"
	}`))
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, review.Status)
	assert.Equal(t, int64(1), review.ID)
	assert.Equal(t, 5, review.Overall)
	assert.True(t, review.WouldTakeAgain)
	require.Len(t, repo.created, 1)
}

func TestReviewSubmitDuckTypedFields(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo, &mockTeacherExists{ids: map[int64]bool{7: true}})

	review, err := svc.Submit(context.Background(), submission(`{
		"teacher_id": "7", "school": "Central High",
		"overall": "5", "difficulty": "3", "clarity": "4",
		"would_take_again": "on", "comment": ""
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), review.TeacherID)
	assert.True(t, review.WouldTakeAgain)
}

func TestReviewSubmitValidationOrder(t *testing.T) {
	svc := newReviewService(&mockReviewRepo{}, &mockTeacherExists{ids: map[int64]bool{7: true}})

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"missing teacher", `{"school":"Central High","overall":5,"difficulty":3,"clarity":4}`, "missing teacher reference"},
		{"blank teacher", `{"teacher_id":"  ","school":"Central High","overall":5,"difficulty":3,"clarity":4}`, "missing teacher reference"},
		{"missing school", `{"teacher_id":7,"overall":5,"difficulty":3,"clarity":4}`, "missing school"},
		{"missing ratings", `{"teacher_id":7,"school":"Central High"}`, "ratings out of range"},
		{"rating too low", `{"teacher_id":7,"school":"Central High","overall":0,"difficulty":3,"clarity":4}`, "ratings out of range"},
		{"rating too high", `{"teacher_id":7,"school":"Central High","overall":6,"difficulty":3,"clarity":4}`, "ratings out of range"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), submission(tc.body))
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
			assert.Equal(t, tc.msg, appErr.Message)
		})
	}
}

func TestReviewSubmitRatingBoundaries(t *testing.T) {
	svc := newReviewService(&mockReviewRepo{}, &mockTeacherExists{ids: map[int64]bool{7: true}})

	for _, rating := range []string{"1", "5"} {
		_, err := svc.Submit(context.Background(), submission(`{
			"teacher_id":7,"school":"Central High",
			"overall":`+rating+`,"difficulty":`+rating+`,"clarity":`+rating+`}`))
		assert.NoError(t, err, "rating %s must be accepted", rating)
	}
}

func TestReviewSubmitUnknownTeacherIsNotFound(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo, &mockTeacherExists{})

	_, err := svc.Submit(context.Background(), submission(`{
		"teacher_id":99,"school":"Central High","overall":5,"difficulty":3,"clarity":4}`))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created, "no partial writes on rejection")
}

func TestReviewSubmitTruncatesLongComment(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo, &mockTeacherExists{ids: map[int64]bool{7: true}})

	long := strings.Repeat("a", maxCommentLength+500)
	review, err := svc.Submit(context.Background(), submission(`{
		"teacher_id":7,"school":"Central High","overall":5,"difficulty":3,"clarity":4,
		"comment":"`+long+`"}`))
	require.NoError(t, err)
	assert.Len(t, review.Comment, maxCommentLength)
}

func TestReviewSubmitTruncationKeepsValidUTF8(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo, &mockTeacherExists{ids: map[int64]bool{7: true}})

	// the byte limit lands inside the first multi-byte rune
	long := strings.Repeat("a", maxCommentLength-1) + "€€"
	review, err := svc.Submit(context.Background(), submission(`{
		"teacher_id":7,"school":"Central High","overall":5,"difficulty":3,"clarity":4,
		"comment":"`+long+`"}`))
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(review.Comment))
	assert.LessOrEqual(t, len(review.Comment), maxCommentLength)
	assert.Equal(t, strings.Repeat("a", maxCommentLength-1), review.Comment)
}

func TestReviewSubmitTruncatesLongSchoolOnRuneBoundary(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo, &mockTeacherExists{ids: map[int64]bool{7: true}})

	school := strings.Repeat("s", maxSchoolLength-1) + "éé"
	review, err := svc.Submit(context.Background(), submission(`{
		"teacher_id":7,"school":"`+school+`","overall":5,"difficulty":3,"clarity":4}`))
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(review.School))
	assert.LessOrEqual(t, len(review.School), maxSchoolLength)
}

package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/dto"
	"github.com/edurate/edurate-api/internal/models"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListApproved(ctx context.Context, teacherID int64, limit int) ([]models.Review, error)
}

type reviewTeacherRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

const (
	maxSchoolLength  = 120
	maxCommentLength = 2000

	minRating = 1
	maxRating = 5
)

// ReviewService validates visitor submissions and persists them pending
// moderation. There is no update path: a submitted review is immutable until
// the moderation queue moves it to a terminal state.
type ReviewService struct {
	reviews  reviewRepository
	teachers reviewTeacherRepository
	logger   *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(reviews reviewRepository, teachers reviewTeacherRepository, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{reviews: reviews, teachers: teachers, logger: logger}
}

// Submit runs the validation pipeline in a fixed order, each step a distinct
// failure reason, then inserts the review as pending. The existence check
// runs last, after all syntactic validation has passed.
func (s *ReviewService) Submit(ctx context.Context, req dto.SubmitReviewRequest) (*models.Review, error) {
	if strings.TrimSpace(req.TeacherID.Raw) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing teacher reference")
	}
	teacherID, ok := req.TeacherID.Int64()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid teacher reference")
	}

	school := truncate(strings.TrimSpace(req.School), maxSchoolLength)
	if school == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing school")
	}

	overall, ok := ratingValue(req.Overall)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ratings out of range")
	}
	difficulty, ok := ratingValue(req.Difficulty)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ratings out of range")
	}
	clarity, ok := ratingValue(req.Clarity)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ratings out of range")
	}

	// long comments are truncated, never rejected
	comment := truncate(strings.TrimSpace(req.Comment), maxCommentLength)

	exists, err := s.teachers.Exists(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher")
	}
	if !exists {
		// a review never auto-creates its teacher
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	review := &models.Review{
		TeacherID:      teacherID,
		School:         school,
		Overall:        overall,
		Clarity:        clarity,
		Difficulty:     difficulty,
		WouldTakeAgain: req.WouldTakeAgain.Value,
		Comment:        comment,
		Status:         models.ReviewPending,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store review")
	}

	s.logger.Info("review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("teacher_id", teacherID),
	)

	return review, nil
}

// ListApproved returns the public review list for one teacher, newest first.
func (s *ReviewService) ListApproved(ctx context.Context, teacherID int64, limit int) ([]models.Review, error) {
	reviews, err := s.reviews.ListApproved(ctx, teacherID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// truncate cuts s to at most max bytes without splitting a rune; a cut that
// lands mid-rune backs up to the previous boundary so the stored value stays
// valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func ratingValue(f dto.FlexInt) (int, bool) {
	if !f.Set || f.Value < minRating || f.Value > maxRating {
		return 0, false
	}
	return f.Value, true
}

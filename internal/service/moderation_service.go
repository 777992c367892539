package service

import (
	"context"
	"crypto/subtle"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/dto"
	"github.com/edurate/edurate-api/internal/models"
	"github.com/edurate/edurate-api/pkg/config"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type moderationRepository interface {
	ListPending(ctx context.Context, limit int) ([]models.PendingReview, error)
	ListByStatus(ctx context.Context, status models.ReviewStatus, limit int) ([]models.Review, error)
	Transition(ctx context.Context, id int64, target models.ReviewStatus) (int64, error)
}

type scrapeRunner interface {
	Run(ctx context.Context) (*ScrapeSummary, error)
}

const exportLimit = 10000

// ModerationService is the token-gated state transition engine over pending
// reviews. Both terminal transitions are compare-and-swap updates; a zero-row
// outcome is a valid no-op, not an error.
type ModerationService struct {
	repo      moderationRepository
	scrape    scrapeRunner
	cfg       config.AdminConfig
	limits    config.PublicConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewModerationService constructs a ModerationService. scrape may be nil when
// no directory source is configured.
func NewModerationService(repo moderationRepository, scrape scrapeRunner, cfg config.AdminConfig, limits config.PublicConfig, validate *validator.Validate, logger *zap.Logger) *ModerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinSecretLength <= 0 {
		cfg.MinSecretLength = 16
	}
	if limits.PendingDefault <= 0 {
		limits.PendingDefault = 50
	}
	if limits.PendingMax <= 0 {
		limits.PendingMax = 200
	}
	return &ModerationService{repo: repo, scrape: scrape, cfg: cfg, limits: limits, validator: validate, logger: logger}
}

// authorize gates every moderation operation. An unconfigured or too-short
// secret fails closed as an operator fault regardless of the supplied token;
// a mismatch is the caller's fault. The comparison is constant-time.
func (s *ModerationService) authorize(token string) error {
	if s.cfg.Token == "" || len(s.cfg.Token) < s.cfg.MinSecretLength {
		return appErrors.Clone(appErrors.ErrMisconfigured, "admin token is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) != 1 {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid admin token")
	}
	return nil
}

// ListPending returns the moderation queue, newest first, bounded by the
// configured page size.
func (s *ModerationService) ListPending(ctx context.Context, req dto.PendingRequest) ([]models.PendingReview, error) {
	if err := s.authorize(req.Token); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pending payload")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limits.PendingDefault
	}
	if limit > s.limits.PendingMax {
		limit = s.limits.PendingMax
	}

	rows, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending reviews")
	}
	return rows, nil
}

// Transition moves one pending review into the target terminal state and
// returns how many rows changed: 1, or 0 when the id is unknown or the review
// was already moderated. Both zero-row cases are reported identically.
func (s *ModerationService) Transition(ctx context.Context, req dto.TransitionRequest, target models.ReviewStatus) (int64, error) {
	if err := s.authorize(req.Token); err != nil {
		return 0, err
	}
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid moderation payload")
	}
	if !target.Terminal() {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid target status")
	}

	id, ok := req.ID.Int64()
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrValidation, "missing review id")
	}

	affected, err := s.repo.Transition(ctx, id, target)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review")
	}

	s.logger.Info("review moderated",
		zap.Int64("review_id", id),
		zap.String("target", string(target)),
		zap.Int64("updated", affected),
	)

	return affected, nil
}

// Export returns reviews in the requested status, newest first, for the CSV
// download. Status defaults to approved.
func (s *ModerationService) Export(ctx context.Context, req dto.ExportRequest) ([]models.Review, error) {
	if err := s.authorize(req.Token); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	status := models.ReviewStatus(req.Status)
	if req.Status == "" {
		status = models.ReviewApproved
	}

	reviews, err := s.repo.ListByStatus(ctx, status, exportLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export reviews")
	}
	return reviews, nil
}

// TriggerScrape runs the directory scrape pipeline synchronously on behalf of
// an authenticated admin call.
func (s *ModerationService) TriggerScrape(ctx context.Context, req dto.AdminRequest) (*ScrapeSummary, error) {
	if err := s.authorize(req.Token); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scrape payload")
	}
	if s.scrape == nil {
		return nil, appErrors.Clone(appErrors.ErrMisconfigured, "scraping is not configured")
	}
	return s.scrape.Run(ctx)
}

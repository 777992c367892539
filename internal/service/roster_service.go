package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/scraper"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type rosterTeacherRepository interface {
	Upsert(ctx context.Context, name, school, sourceURL string) (bool, error)
}

type rosterCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RosterSummary reports one reconciliation run.
type RosterSummary struct {
	Considered int `json:"considered"`
	Upserted   int `json:"upserted"`
	Created    int `json:"created"`
	Rejected   int `json:"rejected"`
}

// RosterService upserts scraped candidate names into the teacher roster.
// Candidates are re-classified here regardless of upstream filtering; the
// scraper is not trusted to be the only gate.
type RosterService struct {
	repo       rosterTeacherRepository
	cache      rosterCache
	classifier *scraper.Classifier
	logger     *zap.Logger
}

// NewRosterService constructs a RosterService. cache may be nil.
func NewRosterService(repo rosterTeacherRepository, cache rosterCache, classifier *scraper.Classifier, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, cache: cache, classifier: classifier, logger: logger}
}

// Reconcile upserts one roster row per candidate that passes the classifier.
// Running it twice with the same input leaves the roster unchanged apart from
// provenance timestamps; the second run reports zero created rows.
func (s *RosterService) Reconcile(ctx context.Context, names []string, school, sourceURL string) (*RosterSummary, error) {
	summary := &RosterSummary{Considered: len(names)}

	for _, raw := range names {
		name := scraper.Normalize(raw)
		if !s.classifier.IsLikelyName(name) {
			summary.Rejected++
			continue
		}

		created, err := s.repo.Upsert(ctx, name, school, sourceURL)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert teacher")
		}
		summary.Upserted++
		if created {
			summary.Created++
		}
	}

	if summary.Upserted > 0 && s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "teachers:*"); err != nil {
			s.logger.Warn("failed to invalidate teacher cache", zap.Error(err))
		}
	}

	s.logger.Info("roster reconciled",
		zap.String("school", school),
		zap.Int("considered", summary.Considered),
		zap.Int("upserted", summary.Upserted),
		zap.Int("created", summary.Created),
		zap.Int("rejected", summary.Rejected),
	)

	return summary, nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/scraper"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type directoryScraper interface {
	Run(ctx context.Context) (*scraper.Result, error)
}

type rosterReconciler interface {
	Reconcile(ctx context.Context, names []string, school, sourceURL string) (*RosterSummary, error)
}

// ScrapeSummary is the admin-facing outcome of one scrape-and-reconcile run.
type ScrapeSummary struct {
	Found        int    `json:"found"`
	Upserted     int    `json:"upserted"`
	Created      int    `json:"created"`
	Rejected     int    `json:"rejected"`
	PagesVisited int    `json:"pages_visited"`
	School       string `json:"school"`
	SourceURL    string `json:"source_url"`
}

// ScrapeService chains the directory scraper into the roster reconciler. It
// serves both the scheduler and the manual admin trigger.
type ScrapeService struct {
	scraper directoryScraper
	roster  rosterReconciler
	school  string
	metrics *MetricsService
	logger  *zap.Logger
}

// NewScrapeService constructs a ScrapeService. metrics may be nil.
func NewScrapeService(sc directoryScraper, roster rosterReconciler, school string, metrics *MetricsService, logger *zap.Logger) *ScrapeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScrapeService{scraper: sc, roster: roster, school: school, metrics: metrics, logger: logger}
}

// Run executes one full scrape. A first-page fetch failure surfaces as an
// upstream error; the roster is only touched with whatever candidates the
// traversal actually collected.
func (s *ScrapeService) Run(ctx context.Context) (*ScrapeSummary, error) {
	if s.school == "" {
		return nil, appErrors.Clone(appErrors.ErrMisconfigured, "scrape school is not configured")
	}

	result, err := s.scraper.Run(ctx)
	if err != nil {
		s.metrics.ObserveScrapeRun(false, 0, 0)
		return nil, err
	}

	summary, err := s.roster.Reconcile(ctx, result.Names, s.school, result.SourceURL)
	if err != nil {
		s.metrics.ObserveScrapeRun(false, result.PagesVisited, len(result.Names))
		return nil, err
	}

	s.metrics.ObserveScrapeRun(true, result.PagesVisited, len(result.Names))

	return &ScrapeSummary{
		Found:        len(result.Names),
		Upserted:     summary.Upserted,
		Created:      summary.Created,
		Rejected:     summary.Rejected,
		PagesVisited: result.PagesVisited,
		School:       s.school,
		SourceURL:    result.SourceURL,
	}, nil
}

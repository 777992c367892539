package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/scraper"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type mockDirectoryScraper struct {
	result *scraper.Result
	err    error
}

func (m *mockDirectoryScraper) Run(ctx context.Context) (*scraper.Result, error) {
	return m.result, m.err
}

type mockReconciler struct {
	gotNames  []string
	gotSchool string
	summary   *RosterSummary
}

func (m *mockReconciler) Reconcile(ctx context.Context, names []string, school, sourceURL string) (*RosterSummary, error) {
	m.gotNames = names
	m.gotSchool = school
	return m.summary, nil
}

func TestScrapeServiceRun(t *testing.T) {
	sc := &mockDirectoryScraper{result: &scraper.Result{
		Names:        []string{"Jane Doe", "John Q. Smith"},
		PagesVisited: 2,
		SourceURL:    "https://example.com/directory",
	}}
	roster := &mockReconciler{summary: &RosterSummary{Considered: 2, Upserted: 2, Created: 1}}
	svc := NewScrapeService(sc, roster, "Central High", nil, zap.NewNop())

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 2, summary.Upserted)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 2, summary.PagesVisited)
	assert.Equal(t, "Central High", summary.School)
	assert.Equal(t, "https://example.com/directory", summary.SourceURL)
	assert.Equal(t, "Central High", roster.gotSchool)
}

func TestScrapeServiceFetchFailurePropagates(t *testing.T) {
	sc := &mockDirectoryScraper{err: appErrors.Clone(appErrors.ErrUpstreamFetch, "boom")}
	svc := NewScrapeService(sc, &mockReconciler{}, "Central High", nil, zap.NewNop())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstreamFetch.Code, appErrors.FromError(err).Code)
}

func TestScrapeServiceRequiresSchool(t *testing.T) {
	svc := NewScrapeService(&mockDirectoryScraper{}, &mockReconciler{}, "", nil, zap.NewNop())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMisconfigured.Code, appErrors.FromError(err).Code)
}

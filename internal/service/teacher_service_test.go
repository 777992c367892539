package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/models"
	"github.com/edurate/edurate-api/pkg/config"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers  map[int64]*models.Teacher
	search    []models.TeacherSummary
	gotQuery  string
	gotLimit  int
	searchHit int
}

func (m *mockTeacherRepo) Search(ctx context.Context, query string, limit int) ([]models.TeacherSummary, error) {
	m.gotQuery = query
	m.gotLimit = limit
	m.searchHit++
	return m.search, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockStatsRepo struct {
	stats *models.TeacherStats
	top   []models.TopTeacher
}

func (m *mockStatsRepo) AggregateForTeacher(ctx context.Context, teacherID int64) (*models.TeacherStats, error) {
	return m.stats, nil
}

func (m *mockStatsRepo) TopTeachers(ctx context.Context, limit int) ([]models.TopTeacher, error) {
	if limit < len(m.top) {
		return m.top[:limit], nil
	}
	return m.top, nil
}

type mapCache struct {
	values map[string][]byte
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	m.values[key] = nil
	return nil
}

func publicLimits() config.PublicConfig {
	return config.PublicConfig{TeacherSearchLimit: 100, ReviewListLimit: 50, TopDefault: 10}
}

func TestTeacherSearchTrimsAndCaps(t *testing.T) {
	repo := &mockTeacherRepo{search: []models.TeacherSummary{{ID: 1, Name: "Jane Doe", School: "Central High"}}}
	svc := NewTeacherService(repo, &mockStatsRepo{}, nil, 0, publicLimits(), nil, zap.NewNop())

	list, err := svc.Search(context.Background(), "  jane ")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "jane", repo.gotQuery)
	assert.Equal(t, 100, repo.gotLimit)
}

func TestTeacherSearchWritesCache(t *testing.T) {
	repo := &mockTeacherRepo{}
	cache := &mapCache{}
	svc := NewTeacherService(repo, &mockStatsRepo{}, cache, time.Minute, publicLimits(), nil, zap.NewNop())

	_, err := svc.Search(context.Background(), "Jane")
	require.NoError(t, err)
	assert.Contains(t, cache.values, "teachers:search:jane")
}

func TestTeacherProfileJoinsAggregates(t *testing.T) {
	avg := 4.5
	repo := &mockTeacherRepo{teachers: map[int64]*models.Teacher{
		7: {ID: 7, Name: "Jane Doe", School: "Central High"},
	}}
	stats := &mockStatsRepo{stats: &models.TeacherStats{ReviewCount: 2, AvgOverall: &avg}}
	svc := NewTeacherService(repo, stats, nil, 0, publicLimits(), nil, zap.NewNop())

	profile, err := svc.Profile(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, 2, profile.ReviewCount)
	require.NotNil(t, profile.AvgOverall)
	assert.InDelta(t, 4.5, *profile.AvgOverall, 0.001)
}

func TestTeacherProfileNoApprovedReviewsReportsNulls(t *testing.T) {
	repo := &mockTeacherRepo{teachers: map[int64]*models.Teacher{
		7: {ID: 7, Name: "Jane Doe", School: "Central High"},
	}}
	stats := &mockStatsRepo{stats: &models.TeacherStats{ReviewCount: 0}}
	svc := NewTeacherService(repo, stats, nil, 0, publicLimits(), nil, zap.NewNop())

	profile, err := svc.Profile(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.ReviewCount)
	assert.Nil(t, profile.AvgOverall)
	assert.Nil(t, profile.WouldTakeAgainPct)
}

func TestTeacherProfileNotFound(t *testing.T) {
	svc := NewTeacherService(&mockTeacherRepo{}, &mockStatsRepo{}, nil, 0, publicLimits(), nil, zap.NewNop())

	_, err := svc.Profile(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherTopDefaultsLimit(t *testing.T) {
	stats := &mockStatsRepo{top: []models.TopTeacher{
		{ID: 1, Name: "Jane Doe", AvgOverall: 4.7, ReviewCount: 3},
	}}
	svc := NewTeacherService(&mockTeacherRepo{}, stats, nil, 0, publicLimits(), nil, zap.NewNop())

	top, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

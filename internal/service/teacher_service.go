package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edurate/edurate-api/internal/models"
	"github.com/edurate/edurate-api/pkg/config"
	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

type teacherRepository interface {
	Search(ctx context.Context, query string, limit int) ([]models.TeacherSummary, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type teacherStatsRepository interface {
	AggregateForTeacher(ctx context.Context, teacherID int64) (*models.TeacherStats, error)
	TopTeachers(ctx context.Context, limit int) ([]models.TopTeacher, error)
}

type teacherCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TeacherService serves the public roster reads. Aggregates are recomputed
// from the store on every profile read; only the plain search listing passes
// through the optional short-TTL cache.
type TeacherService struct {
	teachers teacherRepository
	stats    teacherStatsRepository
	cache    teacherCache
	cacheTTL time.Duration
	limits   config.PublicConfig
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewTeacherService constructs a TeacherService. cache and metrics may be nil.
func NewTeacherService(teachers teacherRepository, stats teacherStatsRepository, cache teacherCache, cacheTTL time.Duration, limits config.PublicConfig, metrics *MetricsService, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limits.TeacherSearchLimit <= 0 {
		limits.TeacherSearchLimit = 100
	}
	if limits.TopDefault <= 0 {
		limits.TopDefault = 10
	}
	return &TeacherService{
		teachers: teachers,
		stats:    stats,
		cache:    cache,
		cacheTTL: cacheTTL,
		limits:   limits,
		metrics:  metrics,
		logger:   logger,
	}
}

// Search returns up to the configured cap of teachers matching the query,
// alphabetical by name.
func (s *TeacherService) Search(ctx context.Context, query string) ([]models.TeacherSummary, error) {
	query = strings.TrimSpace(query)

	cacheKey := fmt.Sprintf("teachers:search:%s", strings.ToLower(query))
	if s.cache != nil {
		var cached []models.TeacherSummary
		start := time.Now()
		err := s.cache.Get(ctx, cacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("teacher cache read failed", zap.Error(err))
		}
	}

	teachers, err := s.teachers.Search(ctx, query, s.limits.TeacherSearchLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search teachers")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, teachers, s.cacheTTL); err != nil {
			s.logger.Warn("teacher cache write failed", zap.Error(err))
		}
	}

	return teachers, nil
}

// Profile returns one teacher joined with freshly computed aggregates.
func (s *TeacherService) Profile(ctx context.Context, id int64) (*models.TeacherProfile, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	stats, err := s.stats.AggregateForTeacher(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate reviews")
	}

	return &models.TeacherProfile{Teacher: *teacher, TeacherStats: *stats}, nil
}

// Top ranks teachers by average approved rating.
func (s *TeacherService) Top(ctx context.Context, limit int) ([]models.TopTeacher, error) {
	if limit <= 0 {
		limit = s.limits.TopDefault
	}
	if limit > s.limits.TeacherSearchLimit {
		limit = s.limits.TeacherSearchLimit
	}

	top, err := s.stats.TopTeachers(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rank teachers")
	}
	return top, nil
}

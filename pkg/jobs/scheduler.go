package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunFunc is one scheduled unit of work.
type RunFunc func(context.Context) error

// Scheduler invokes a job on a fixed interval in a single background
// goroutine. A failing or panicking run is logged and never propagates; user
// traffic on the same process is unaffected.
type Scheduler struct {
	name     string
	interval time.Duration
	run      RunFunc
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewScheduler builds a scheduler for the named job.
func NewScheduler(name string, interval time.Duration, run RunFunc, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{name: name, interval: interval, run: run, logger: logger}
}

// Start begins the ticker loop. Safe to call once.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.interval <= 0 {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.started = true

	go s.loop(ctx)
	s.logger.Sugar().Infow("scheduler started", "job", s.name, "interval", s.interval)
}

// Stop cancels the loop and waits for the current run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.mu.Unlock()
	<-done
	s.logger.Sugar().Infow("scheduler stopped", "job", s.name)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runID := uuid.NewString()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Sugar().Errorw("scheduled run panicked", "job", s.name, "run_id", runID, "panic", r)
		}
	}()

	if err := s.run(ctx); err != nil {
		s.logger.Sugar().Warnw("scheduled run failed",
			"job", s.name, "run_id", runID, "duration", time.Since(start), "error", err)
		return
	}

	s.logger.Sugar().Infow("scheduled run finished",
		"job", s.name, "run_id", runID, "duration", time.Since(start))
}

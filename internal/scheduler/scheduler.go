package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"EconDashboard/internal/cache"
	"EconDashboard/internal/metrics"
)

// Scheduler manages background maintenance tasks. It never refetches data.
type Scheduler struct {
	Cron    *cron.Cron
	Cache   cache.Cache
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(c cache.Cache, m *metrics.Collector, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Cache:   c,
		Metrics: m,
		Logger:  logger,
	}
}

// RegisterAll registers the cache purge task.
func (s *Scheduler) RegisterAll(purgeCron string) error {
	if _, err := s.Cron.AddFunc(purgeCron, s.PurgeNow); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// PurgeNow removes expired cache entries immediately.
func (s *Scheduler) PurgeNow() {
	n, err := s.Cache.Purge()
	if err != nil {
		s.Logger.Error("cache purge failed", zap.Error(err))
		return
	}
	s.Metrics.Purged(n)
	if n > 0 {
		s.Logger.Info("cache purged", zap.Int("entries", n))
	}
}

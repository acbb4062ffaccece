package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/config"
)

const (
	resyncTimeout = 30 * time.Second
	reportTimeout = 2 * time.Minute
)

// Loader resynchronises the product list.
type Loader interface {
	Load(ctx context.Context) error
}

// Reporter generates and publishes the stock report.
type Reporter interface {
	Run(ctx context.Context, now time.Time) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	loader   Loader
	reporter Reporter
	cfg      config.ReportingConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, loader Loader, reporter Reporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		loader:   loader,
		reporter: reporter,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().In(loc) },
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("resync", s.cfg.ResyncSchedule),
		zap.String("report", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.ResyncSchedule, s.resync); err != nil {
		return fmt.Errorf("schedule resync %q: %w", s.cfg.ResyncSchedule, err)
	}

	if s.reporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.report); err != nil {
			return fmt.Errorf("schedule report %q: %w", s.cfg.CronSchedule, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) resync() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	if err := s.loader.Load(ctx); err != nil {
		s.logger.Error("scheduled resync failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled resync done")
}

func (s *Scheduler) report() {
	s.logger.Info("generating stock report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if err := s.reporter.Run(ctx, s.now()); err != nil {
		s.logger.Error("failed to publish stock report", zap.Error(err))
		return
	}
	s.logger.Info("stock report sent successfully")
}

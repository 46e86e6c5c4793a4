package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/seydifall/dindetrack/internal/config"
	"github.com/seydifall/dindetrack/internal/repository/mongodb"
	"github.com/seydifall/dindetrack/internal/repository/sheets"
	"github.com/seydifall/dindetrack/internal/service/rollup"
)

// Scheduler recomputes the configured rollup scopes on a cron schedule,
// archives each result and optionally exports it to the advisors' sheet.
type Scheduler struct {
	cron      *cron.Cron
	rollupSvc *rollup.Service
	archive   mongodb.Repository
	exporter  sheets.Exporter
	cfg       config.Config
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. archive and exporter may
// be nil; the corresponding step is skipped.
func NewScheduler(cfg config.Config, rollupSvc *rollup.Service, archive mongodb.Repository, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []cron.Option
	if loc, err := time.LoadLocation(cfg.Reporting.Timezone); err != nil {
		logger.Warn("unknown timezone, scheduler runs in local time", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	} else {
		opts = append(opts, cron.WithLocation(loc))
	}

	return &Scheduler{
		cron:      cron.New(opts...),
		rollupSvc: rollupSvc,
		archive:   archive,
		exporter:  exporter,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.Reporting.CronSchedule),
		zap.Int("scopes", len(s.cfg.Reporting.Scopes)))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.runScopes); err != nil {
		s.logger.Error("failed to schedule rollup job", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runScopes() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, scope := range s.cfg.Reporting.Scopes {
		s.runScope(ctx, scope)
	}
}

func (s *Scheduler) runScope(ctx context.Context, scope config.ReportScope) {
	log := s.logger.With(
		zap.String("farm_id", scope.FarmID),
		zap.String("lot", scope.Lot),
		zap.String("semaine", scope.Semaine))

	log.Info("computing scheduled rollup")
	summary := s.rollupSvc.ComputeWeeklySummary(ctx, scope.FarmID, scope.Lot, scope.Semaine, nil)

	if s.archive != nil {
		snapshot := mongodb.SummarySnapshot{
			FarmID:     scope.FarmID,
			Lot:        scope.Lot,
			Semaine:    scope.Semaine,
			ComputedAt: time.Now().UTC(),
			Summary:    *summary,
		}
		if err := s.archive.SaveSnapshot(ctx, snapshot); err != nil {
			log.Error("failed to archive summary snapshot", zap.Error(err))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.ExportSummary(ctx, summary); err != nil {
			log.Error("failed to export summary to sheet", zap.Error(err))
		} else {
			log.Info("summary exported")
		}
	}
}

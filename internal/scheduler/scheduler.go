package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/config"
	"github.com/mamadbah2/cement/internal/domain/models"
)

// ReportGenerator builds the weekly text report.
type ReportGenerator interface {
	GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error)
}

// Messenger delivers the report.
type Messenger interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// SheetsSyncer mirrors the sales table to Google Sheets.
type SheetsSyncer interface {
	Sync(ctx context.Context) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc ReportGenerator
	messagingSvc Messenger
	mirror       SheetsSyncer
	cfg          config.Config
	logger       *zap.Logger
	now          func() time.Time
}

// NewScheduler creates a new scheduler instance. messagingSvc and mirror may
// be nil when the matching integration is not configured.
func NewScheduler(cfg config.Config, reportingSvc ReportGenerator, messagingSvc Messenger, mirror SheetsSyncer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := cfg.Reporting.Location()

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reportingSvc: reportingSvc,
		messagingSvc: messagingSvc,
		mirror:       mirror,
		cfg:          cfg,
		logger:       logger,
		now:          func() time.Time { return time.Now().In(loc) },
	}
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("timezone", s.cfg.Reporting.Timezone))

	if s.messagingSvc != nil && s.cfg.WhatsApp.ManagerID != "" {
		if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.sendWeeklyReport); err != nil {
			return fmt.Errorf("schedule weekly report: %w", err)
		}
		s.logger.Info("weekly report scheduled", zap.String("schedule", s.cfg.Reporting.CronSchedule))
	} else {
		s.logger.Warn("weekly report disabled: messaging or WHATSAPP_MANAGER_ID not configured")
	}

	if s.mirror != nil {
		if _, err := s.cron.AddFunc(s.cfg.Sheets.SyncSchedule, s.syncSheets); err != nil {
			return fmt.Errorf("schedule sheets sync: %w", err)
		}
		s.logger.Info("sheets sync scheduled", zap.String("schedule", s.cfg.Sheets.SyncSchedule))
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.GenerateWeeklyReport(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to generate weekly report", zap.Error(err))
		return
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.WhatsApp.ManagerID,
		Message: report,
	}

	if err := s.messagingSvc.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send weekly report", zap.Error(err))
	} else {
		s.logger.Info("weekly report sent successfully")
	}
}

func (s *Scheduler) syncSheets() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rows, err := s.mirror.Sync(ctx)
	if err != nil {
		s.logger.Error("scheduled sheets sync failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled sheets sync done", zap.Int("rows", rows))
}

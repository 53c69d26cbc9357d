package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/config"
	"github.com/mamadbah2/smartbell/internal/domain/models"
)

// Reporter produces and archives the daily dashboard report.
type Reporter interface {
	DailySummary(ctx context.Context) (string, error)
	ArchiveDaily(ctx context.Context) error
}

// Sender delivers a text message.
type Sender interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler runs the daily dashboard report on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	reporter  Reporter
	sender    Sender
	recipient string
	schedule  string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone. sender may be
// nil, in which case reports are archived but not delivered.
func NewScheduler(cfg config.Config, reporter Reporter, sender Sender, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reporter:  reporter,
		sender:    sender,
		recipient: cfg.WhatsApp.ManagerID,
		schedule:  cfg.Reporting.CronSchedule,
		logger:    logger,
	}, nil
}

// Start registers the daily report and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.SendDailyReport(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
	}
}

// SendDailyReport archives today's snapshot and pushes the summary to the manager.
// An archive failure is logged and does not block delivery.
func (s *Scheduler) SendDailyReport(ctx context.Context) error {
	s.logger.Info("generating daily report")

	if err := s.reporter.ArchiveDaily(ctx); err != nil {
		s.logger.Error("failed to archive daily snapshot", zap.Error(err))
	}

	if s.sender == nil || s.recipient == "" {
		s.logger.Debug("no report recipient configured, skipping delivery")
		return nil
	}

	summary, err := s.reporter.DailySummary(ctx)
	if err != nil {
		return fmt.Errorf("build daily summary: %w", err)
	}

	if err := s.sender.SendOutbound(ctx, models.OutboundMessageRequest{To: s.recipient, Message: summary}); err != nil {
		return fmt.Errorf("send daily report: %w", err)
	}

	s.logger.Info("daily report sent", zap.String("to", s.recipient))
	return nil
}

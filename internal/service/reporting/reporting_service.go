package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/service/stats"
	"github.com/mamadbah2/smartbell/internal/store"
)

const dateLayout = "2006-01-02"

// SnapshotArchive stores daily dashboard snapshots.
type SnapshotArchive interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// LedgerReader reads totals from the full production ledger.
type LedgerReader interface {
	LitersBetween(ctx context.Context, start, end time.Time) (float64, error)
}

// Service renders dashboard summaries for WhatsApp and archives daily snapshots.
type Service struct {
	store   *store.Store
	archive SnapshotArchive
	ledger  LedgerReader
	logger  *zap.Logger
	now     func() time.Time
	printer *message.Printer
}

// NewService wires a new reporting service. archive and ledger are optional.
func NewService(st *store.Store, archive SnapshotArchive, ledger LedgerReader, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:   st,
		archive: archive,
		ledger:  ledger,
		logger:  logger,
		now:     now,
		printer: message.NewPrinter(language.English),
	}
}

// Snapshot computes the dashboard for the current store state.
func (s *Service) Snapshot() models.DashboardSnapshot {
	now := s.now()
	state := s.store.Snapshot()

	snapshot := models.DashboardSnapshot{
		RanchID:   state.CurrentRanchID(),
		Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Stats:     stats.Compute(state.Cattle, state.Tasks, state.Productions(), now),
		CreatedAt: now,
	}
	if state.CurrentRanch != nil {
		snapshot.RanchName = state.CurrentRanch.Name
	}
	return snapshot
}

// DailySummary renders the dashboard as a short text message.
func (s *Service) DailySummary(ctx context.Context) (string, error) {
	now := s.now()
	state := s.store.Snapshot()
	snapshot := s.Snapshot()
	st := snapshot.Stats

	name := snapshot.RanchName
	if name == "" {
		name = "your ranch"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dashboard %s (%s)\n", name, now.Format(dateLayout))
	fmt.Fprintf(&b, "Herd: %d animals, %d active cows\n", st.TotalCattle, st.ActiveCows)
	b.WriteString(s.printer.Sprintf("Milk today: %.1f L\n", st.TodayProduction))
	b.WriteString(s.printer.Sprintf("Milk this month: %.1f L (est. revenue $%.2f)\n", st.MonthlyProduction, st.EstimatedRevenue))
	fmt.Fprintf(&b, "Pending tasks: %d", st.PendingTasks)

	if s.ledger != nil {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		total, err := s.ledger.LitersBetween(ctx, monthStart, now)
		if err != nil {
			s.logger.Warn("ledger month-to-date unavailable", zap.Error(err))
		} else {
			b.WriteString(s.printer.Sprintf("\nLedger month-to-date: %.1f L", total))
		}
	}

	if today := stats.TodayTasks(state.Tasks, now); len(today) > 0 {
		b.WriteString("\nToday's tasks:")
		b.WriteString(FormatTasks(today))
	}

	return b.String(), nil
}

// ArchiveDaily stores today's snapshot when an archive is configured.
func (s *Service) ArchiveDaily(ctx context.Context) error {
	if s.archive == nil {
		s.logger.Debug("snapshot archive disabled, skipping")
		return nil
	}

	snapshot := s.Snapshot()
	if err := s.archive.SaveDashboardSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("archive dashboard snapshot: %w", err)
	}

	s.logger.Info("dashboard snapshot archived",
		zap.String("ranch_id", snapshot.RanchID),
		zap.Time("date", snapshot.Date),
		zap.Float64("monthly_production", snapshot.Stats.MonthlyProduction))
	return nil
}

// FormatTasks renders tasks as a checklist, one per line, each prefixed by a newline.
func FormatTasks(tasks []models.Task) string {
	var b strings.Builder
	for _, t := range tasks {
		mark := " "
		switch t.Status {
		case models.TaskCompleted:
			mark = "x"
		case models.TaskCancelled:
			mark = "-"
		}
		fmt.Fprintf(&b, "\n[%s] %s (%s)", mark, t.Title, t.ID)
	}
	return b.String()
}

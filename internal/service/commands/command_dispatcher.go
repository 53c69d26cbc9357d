package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/service/reporting"
	"github.com/mamadbah2/smartbell/internal/service/stats"
	"github.com/mamadbah2/smartbell/internal/store"
)

var (
	// ErrInvalidArguments indicates the command payload could not be parsed.
	ErrInvalidArguments = errors.New("invalid command arguments")
	// ErrUnsupportedCommand indicates we do not support the requested command.
	ErrUnsupportedCommand = errors.New("unsupported command")
	// ErrUnknownCattle indicates no animal carries the given tag.
	ErrUnknownCattle = errors.New("unknown cattle tag")
	// ErrTaskNotFound indicates no task carries the given id.
	ErrTaskNotFound = errors.New("task not found")
)

// HelpText lists the supported commands.
const HelpText = "Commands:\n" +
	"/milk <tag> <liters> [morning|afternoon|evening] [notes] - record a milking\n" +
	"/done <task id> - complete a task\n" +
	"/tasks - today's tasks\n" +
	"/stats - dashboard summary"

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	DailySummary(ctx context.Context) (string, error)
}

// ProductionLedger receives a copy of every recorded milking.
type ProductionLedger interface {
	AppendProduction(ctx context.Context, p models.Production, cattleTag string) error
}

// Dispatcher executes parsed commands against the ranch store.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	store     *store.Store
	reporting ReportingAdapter
	ledger    ProductionLedger
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher. reporting and ledger are optional.
func NewService(st *store.Store, reporting ReportingAdapter, ledger ProductionLedger, now func() time.Time, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     st,
		reporting: reporting,
		ledger:    ledger,
		logger:    logger,
		now:       now,
	}
}

// HandleCommand runs the command and returns the reply for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandMilk:
		return s.recordMilk(ctx, cmd)
	case models.CommandDone:
		return s.completeTask(cmd)
	case models.CommandTasks:
		today := stats.TodayTasks(s.store.Tasks(), s.now())
		if len(today) == 0 {
			return "No tasks for today.", nil
		}
		return "Today's tasks:" + reporting.FormatTasks(today), nil
	case models.CommandStats:
		if s.reporting == nil {
			return "", ErrUnsupportedCommand
		}
		return s.reporting.DailySummary(ctx)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) recordMilk(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}

	state := s.store.Snapshot()
	cattle, ok := findByTag(state, cmd.Args[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCattle, cmd.Args[0])
	}

	liters, err := parseLiters(cmd.Args[1])
	if err != nil {
		return "", ErrInvalidArguments
	}

	now := s.now()
	rest := cmd.Args[2:]
	shift := shiftAt(now)
	if len(rest) > 0 {
		if parsed, ok := models.ParseShift(rest[0]); ok {
			shift = parsed
			rest = rest[1:]
		}
	}

	ranchID := state.CurrentRanchID()
	if ranchID == "" {
		ranchID = cattle.RanchID
	}

	production := models.Production{
		ID:        models.NewID(),
		CattleID:  cattle.ID,
		RanchID:   ranchID,
		Liters:    liters,
		Date:      now,
		Shift:     shift,
		Notes:     strings.Join(rest, " "),
		CreatedAt: now,
	}
	next := s.store.AddProduction(production)

	message := fmt.Sprintf("Recorded %.1f L for %s (%s).", liters, cattle.InternalID, shift)

	if s.ledger != nil {
		if err := s.ledger.AppendProduction(ctx, production, cattle.InternalID); err != nil {
			s.logger.Warn("ledger export failed", zap.String("production_id", production.ID), zap.Error(err))
			message += " Ledger export failed."
		}
	}

	today := stats.Compute(nil, nil, next.Productions(), now).TodayProduction
	message += fmt.Sprintf("\nToday so far: %.1f L.", today)
	return message, nil
}

func (s *Service) completeTask(cmd models.Command) (string, error) {
	if len(cmd.Args) != 1 {
		return "", ErrInvalidArguments
	}
	id := cmd.Args[0]

	before, ok := s.store.Snapshot().FindTask(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if before.Status != models.TaskPending {
		return fmt.Sprintf("Task %q is already %s.", before.Title, strings.ToLower(string(before.Status))), nil
	}

	if _, found := s.store.CompleteTask(id); !found {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return fmt.Sprintf("Task %q completed.", before.Title), nil
}

// findByTag matches the internal tag case-insensitively, preferring the current ranch.
func findByTag(state store.State, tag string) (models.Cattle, bool) {
	var fallback *models.Cattle
	ranchID := state.CurrentRanchID()
	for i, c := range state.Cattle {
		if !strings.EqualFold(c.InternalID, tag) {
			continue
		}
		if ranchID == "" || c.RanchID == ranchID {
			return c, true
		}
		if fallback == nil {
			fallback = &state.Cattle[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return models.Cattle{}, false
}

// parseLiters accepts "8.5", "8,5" and an optional "l" suffix.
func parseLiters(value string) (float64, error) {
	value = strings.TrimSuffix(strings.ToLower(value), "l")
	value = strings.ReplaceAll(value, ",", ".")
	liters, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if liters <= 0 {
		return 0, ErrInvalidArguments
	}
	return liters, nil
}

func shiftAt(t time.Time) models.Shift {
	switch h := t.Hour(); {
	case h < 12:
		return models.ShiftMorning
	case h < 18:
		return models.ShiftAfternoon
	default:
		return models.ShiftEvening
	}
}

package stats

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/store"
)

// Dashboard is the full derived view served to the dashboard page.
type Dashboard struct {
	Stats                models.DashboardStats `json:"stats"`
	TodayTasks           []models.Task         `json:"todayTasks"`
	RegistrationProgress float64               `json:"registrationProgress"`
	ComputedAt           time.Time             `json:"computedAt"`
}

// Tracker keeps a Dashboard in sync with a store. It recomputes on every store
// change and again when the calendar day has rolled over since the last run.
type Tracker struct {
	mu     sync.Mutex
	state  store.State
	view   Dashboard
	now    func() time.Time
	logger *zap.Logger
	cancel func()
}

// NewTracker subscribes to st and computes the initial view.
func NewTracker(st *store.Store, now func() time.Time, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}

	t := &Tracker{now: now, logger: logger}
	t.mu.Lock()
	t.recompute(st.Snapshot())
	t.mu.Unlock()

	t.cancel = st.Subscribe(func(change store.Change, state store.State) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.recompute(state)
		t.logger.Debug("dashboard recomputed",
			zap.String("change", string(change)),
			zap.Int("total_cattle", t.view.Stats.TotalCattle),
			zap.Float64("today_production", t.view.Stats.TodayProduction))
	})

	return t
}

// Dashboard returns the current view.
func (t *Tracker) Dashboard() Dashboard {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !SameDay(t.view.ComputedAt.In(now.Location()), now) {
		t.recompute(t.state)
	}
	return t.view
}

// Close detaches the tracker from the store.
func (t *Tracker) Close() {
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *Tracker) recompute(state store.State) {
	now := t.now()
	t.state = state
	stats := Compute(state.Cattle, state.Tasks, state.Productions(), now)
	t.view = Dashboard{
		Stats:                stats,
		TodayTasks:           TodayTasks(state.Tasks, now),
		RegistrationProgress: RegistrationProgress(stats.TotalCattle),
		ComputedAt:           now,
	}
}

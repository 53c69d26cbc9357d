// Package store holds the in-memory session state of the ranch dashboard.
package store

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

// Change names the mutation that produced a snapshot.
type Change string

const (
	ChangeUser               Change = "user.set"
	ChangeCurrentRanch       Change = "ranch.current"
	ChangeRanches            Change = "ranch.set"
	ChangeOnboardRanch       Change = "ranch.onboard"
	ChangeCattleSet          Change = "cattle.set"
	ChangeCattleAdd          Change = "cattle.add"
	ChangeCattleUpdate       Change = "cattle.update"
	ChangeTasksSet           Change = "tasks.set"
	ChangeTaskAdd            Change = "tasks.add"
	ChangeTaskUpdate         Change = "tasks.update"
	ChangeTaskComplete       Change = "tasks.complete"
	ChangeTaskCancel         Change = "tasks.cancel"
	ChangeProductionsSet     Change = "productions.set"
	ChangeProductionAdd      Change = "productions.add"
	ChangeLoading            Change = "ui.loading"
	ChangeOnboardingStep     Change = "onboarding.step"
	ChangeOnboardingComplete Change = "onboarding.complete"
)

// Observer is called after a mutation has been published. Observers run on the
// mutating goroutine and must not mutate the store.
type Observer func(change Change, state State)

type subscription struct {
	id int
	fn Observer
}

// Store owns the session state. The zero value is not usable; call New.
//
// Every mutation builds a new State and swaps it in whole, so readers see
// either the previous or the next snapshot, never a half-applied one. Updates
// addressed to an unknown id leave the state untouched and report found=false.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   State

	obsMu     sync.Mutex
	observers []subscription
	nextObs   int

	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp completion times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty session store.
func New(logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, subscription{id: id, fn: fn})

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool { return sub.id == id })
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) User() *models.User          { return s.Snapshot().User }
func (s *Store) CurrentRanch() *models.Ranch { return s.Snapshot().CurrentRanch }
func (s *Store) Ranches() []models.Ranch     { return s.Snapshot().Ranches }
func (s *Store) Cattle() []models.Cattle     { return s.Snapshot().Cattle }
func (s *Store) Tasks() []models.Task        { return s.Snapshot().Tasks }

func (s *Store) RecentProductions() []models.Production {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RecentProductions.Items()
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsLoading
}

func (s *Store) OnboardingStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.OnboardingStep
}

func (s *Store) IsOnboardingComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsOnboardingComplete
}

// SetUser replaces the session user. Nil signs the user out.
func (s *Store) SetUser(user *models.User) State {
	var u *models.User
	if user != nil {
		copied := *user
		u = &copied
	}
	next, _ := s.apply(ChangeUser, func(st *State) bool {
		st.User = u
		return true
	})
	return next
}

// SetCurrentRanch replaces the selected ranch.
func (s *Store) SetCurrentRanch(ranch models.Ranch) State {
	next, _ := s.apply(ChangeCurrentRanch, func(st *State) bool {
		st.CurrentRanch = &ranch
		return true
	})
	return next
}

// SetRanches replaces the ranch list.
func (s *Store) SetRanches(ranches []models.Ranch) State {
	ranches = slices.Clone(ranches)
	next, _ := s.apply(ChangeRanches, func(st *State) bool {
		st.Ranches = ranches
		return true
	})
	return next
}

// OnboardRanch selects a freshly created ranch, appends it to the ranch list and
// advances onboarding to the first-cattle step in a single mutation.
func (s *Store) OnboardRanch(ranch models.Ranch) State {
	next, _ := s.apply(ChangeOnboardRanch, func(st *State) bool {
		st.CurrentRanch = &ranch
		st.Ranches = appendCopy(st.Ranches, ranch)
		st.OnboardingStep = int(models.OnboardingFirstCattle)
		return true
	})
	return next
}

// SetCattle replaces the cattle roster.
func (s *Store) SetCattle(cattle []models.Cattle) State {
	cattle = slices.Clone(cattle)
	next, _ := s.apply(ChangeCattleSet, func(st *State) bool {
		st.Cattle = cattle
		return true
	})
	return next
}

// AddCattle appends a record to the roster.
func (s *Store) AddCattle(c models.Cattle) State {
	next, _ := s.apply(ChangeCattleAdd, func(st *State) bool {
		st.Cattle = appendCopy(st.Cattle, c)
		return true
	})
	return next
}

// UpdateCattle merges patch into the record with the given id. An unknown id
// returns the unchanged state and found=false.
func (s *Store) UpdateCattle(id string, patch models.CattlePatch) (State, bool) {
	return s.apply(ChangeCattleUpdate, func(st *State) bool {
		updated, ok := replaceByID(st.Cattle, id, cattleID, patch.Apply)
		if !ok {
			return false
		}
		st.Cattle = updated
		return true
	})
}

// SetTasks replaces the task list.
func (s *Store) SetTasks(tasks []models.Task) State {
	tasks = slices.Clone(tasks)
	next, _ := s.apply(ChangeTasksSet, func(st *State) bool {
		st.Tasks = tasks
		return true
	})
	return next
}

// AddTask appends a task.
func (s *Store) AddTask(t models.Task) State {
	next, _ := s.apply(ChangeTaskAdd, func(st *State) bool {
		st.Tasks = appendCopy(st.Tasks, t)
		return true
	})
	return next
}

// UpdateTask merges patch into the task with the given id; silent miss on unknown ids.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) (State, bool) {
	return s.apply(ChangeTaskUpdate, func(st *State) bool {
		updated, ok := replaceByID(st.Tasks, id, taskID, patch.Apply)
		if !ok {
			return false
		}
		st.Tasks = updated
		return true
	})
}

// CompleteTask moves a PENDING task to COMPLETED and stamps its completion time.
// found reports whether the id exists; a task that already left PENDING is
// reported found but left unchanged.
func (s *Store) CompleteTask(id string) (State, bool) {
	return s.finishTask(ChangeTaskComplete, id, models.TaskCompleted)
}

// CancelTask moves a PENDING task to CANCELLED. Same found semantics as CompleteTask.
func (s *Store) CancelTask(id string) (State, bool) {
	return s.finishTask(ChangeTaskCancel, id, models.TaskCancelled)
}

func (s *Store) finishTask(change Change, id string, status models.TaskStatus) (State, bool) {
	found := false
	next, _ := s.apply(change, func(st *State) bool {
		current, ok := st.FindTask(id)
		if !ok {
			return false
		}
		found = true
		if current.Status != models.TaskPending {
			return false
		}

		now := s.now()
		patch := models.TaskPatch{Status: &status, UpdatedAt: &now}
		if status == models.TaskCompleted {
			patch.CompletedAt = &now
		}
		st.Tasks, _ = replaceByID(st.Tasks, id, taskID, patch.Apply)
		return true
	})
	return next, found
}

// SetRecentProductions replaces the recent list. The input is newest-first and
// only its first RecentCapacity records are kept.
func (s *Store) SetRecentProductions(productions []models.Production) State {
	ring := NewRecentProductions(productions)
	next, _ := s.apply(ChangeProductionsSet, func(st *State) bool {
		st.RecentProductions = ring
		return true
	})
	return next
}

// AddProduction prepends a record to the recent list, dropping the oldest when full.
func (s *Store) AddProduction(p models.Production) State {
	next, _ := s.apply(ChangeProductionAdd, func(st *State) bool {
		st.RecentProductions = st.RecentProductions.Push(p)
		return true
	})
	return next
}

func (s *Store) SetIsLoading(loading bool) State {
	next, _ := s.apply(ChangeLoading, func(st *State) bool {
		st.IsLoading = loading
		return true
	})
	return next
}

func (s *Store) SetOnboardingStep(step int) State {
	next, _ := s.apply(ChangeOnboardingStep, func(st *State) bool {
		st.OnboardingStep = step
		return true
	})
	return next
}

func (s *Store) SetIsOnboardingComplete(complete bool) State {
	next, _ := s.apply(ChangeOnboardingComplete, func(st *State) bool {
		st.IsOnboardingComplete = complete
		return true
	})
	return next
}

// apply runs mutate against a shallow copy of the current state. mutate must
// build new slices rather than write into existing ones. When it reports a
// change, the copy is published and observers are notified.
func (s *Store) apply(change Change, mutate func(next *State) bool) (State, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.state
	if !mutate(&next) {
		s.logger.Debug("store mutation matched nothing", zap.String("change", string(change)))
		return next.clone(), false
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("store mutated",
		zap.String("change", string(change)),
		zap.Int("cattle", len(next.Cattle)),
		zap.Int("tasks", len(next.Tasks)),
		zap.Int("recent_productions", next.RecentProductions.Len()))

	s.obsMu.Lock()
	subs := slices.Clone(s.observers)
	s.obsMu.Unlock()

	for _, sub := range subs {
		sub.fn(change, next.clone())
	}

	return next.clone(), true
}

func cattleID(c models.Cattle) string { return c.ID }
func taskID(t models.Task) string     { return t.ID }

// appendCopy appends v to a fresh copy of list so published backing arrays are never shared.
func appendCopy[T any](list []T, v T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, v)
}

// replaceByID returns a copy of list with every record matching id replaced by
// fn(record). ok is false, and list is returned as is, when no record matches.
func replaceByID[T any](list []T, id string, idOf func(T) string, fn func(T) T) ([]T, bool) {
	if !slices.ContainsFunc(list, func(v T) bool { return idOf(v) == id }) {
		return list, false
	}
	out := make([]T, len(list))
	for i, v := range list {
		if idOf(v) == id {
			v = fn(v)
		}
		out[i] = v
	}
	return out, true
}

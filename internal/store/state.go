package store

import (
	"slices"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

// State is one immutable snapshot of the session. Mutations never write into a
// published State; they build the next one.
type State struct {
	User                 *models.User      `json:"user"`
	CurrentRanch         *models.Ranch     `json:"currentRanch"`
	Ranches              []models.Ranch    `json:"ranches"`
	Cattle               []models.Cattle   `json:"cattle"`
	Tasks                []models.Task     `json:"tasks"`
	RecentProductions    RecentProductions `json:"recentProductions"`
	IsLoading            bool              `json:"isLoading"`
	OnboardingStep       int               `json:"onboardingStep"`
	IsOnboardingComplete bool              `json:"isOnboardingComplete"`
}

// Productions returns the recent production records newest-first.
func (s State) Productions() []models.Production {
	return s.RecentProductions.Items()
}

// FindCattle returns the record with the given id.
func (s State) FindCattle(id string) (models.Cattle, bool) {
	for _, c := range s.Cattle {
		if c.ID == id {
			return c, true
		}
	}
	return models.Cattle{}, false
}

// FindTask returns the task with the given id.
func (s State) FindTask(id string) (models.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// CurrentRanchID returns the id of the current ranch or "" when none is selected.
func (s State) CurrentRanchID() string {
	if s.CurrentRanch == nil {
		return ""
	}
	return s.CurrentRanch.ID
}

// CurrentUserID returns the id of the session user or "" when nobody is signed in.
func (s State) CurrentUserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// clone deep-copies the collections so the caller can't reach the store's slices.
func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.CurrentRanch != nil {
		r := *s.CurrentRanch
		out.CurrentRanch = &r
	}
	out.Ranches = slices.Clone(s.Ranches)
	out.Cattle = slices.Clone(s.Cattle)
	out.Tasks = slices.Clone(s.Tasks)
	return out
}

// Package stats derives the dashboard summary from the session collections.
package stats

import (
	"time"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

const (
	// PricePerLiter is the fixed milk price used to estimate monthly revenue.
	PricePerLiter = 22.0
	// TodayTasksLimit caps the today's-tasks view.
	TodayTasksLimit = 5
	// RegistrationGoal is the herd size at which the dashboard considers registration complete.
	RegistrationGoal = 50
)

// Compute derives DashboardStats. Day and month matching is done on calendar
// dates in now's location, so the time of day never matters.
func Compute(cattle []models.Cattle, tasks []models.Task, productions []models.Production, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{TotalCattle: len(cattle)}

	for _, c := range cattle {
		if c.IsActiveCow() {
			stats.ActiveCows++
		}
	}

	loc := now.Location()
	for _, p := range productions {
		date := p.Date.In(loc)
		if SameDay(date, now) {
			stats.TodayProduction += p.Liters
		}
		if SameMonth(date, now) {
			stats.MonthlyProduction += p.Liters
		}
	}

	for _, t := range tasks {
		if t.Status == models.TaskPending {
			stats.PendingTasks++
		}
	}

	stats.EstimatedRevenue = stats.MonthlyProduction * PricePerLiter
	return stats
}

// TodayTasks returns, in list order, the first TodayTasksLimit tasks due on now's calendar day.
func TodayTasks(tasks []models.Task, now time.Time) []models.Task {
	out := make([]models.Task, 0, TodayTasksLimit)
	for _, t := range tasks {
		if len(out) == TodayTasksLimit {
			break
		}
		if SameDay(t.DueDate.In(now.Location()), now) {
			out = append(out, t)
		}
	}
	return out
}

// RegistrationProgress is the percentage of RegistrationGoal reached, capped at 100.
func RegistrationProgress(totalCattle int) float64 {
	if totalCattle <= 0 {
		return 0
	}
	pct := float64(totalCattle) / RegistrationGoal * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// SameDay reports whether a and b fall on the same calendar date. Both are read in their own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar month of the same year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account operating the dashboard for the current session.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Ranch is the tenancy unit owning cattle, tasks and production records.
type Ranch struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Location  string    `bson:"location,omitempty" json:"location,omitempty"`
	Size      *float64  `bson:"size,omitempty" json:"size,omitempty"`
	UserID    string    `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// OnboardingStep enumerates the steps of the ranch onboarding flow.
type OnboardingStep int

const (
	OnboardingWelcome OnboardingStep = iota
	OnboardingRanch
	OnboardingFirstCattle
	OnboardingComplete
)

func (s OnboardingStep) String() string {
	switch s {
	case OnboardingWelcome:
		return "welcome"
	case OnboardingRanch:
		return "ranch"
	case OnboardingFirstCattle:
		return "firstCattle"
	case OnboardingComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// NewID returns an opaque random identifier. Uniqueness is best effort.
func NewID() string {
	return uuid.NewString()
}

package models

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted by the forms.
const DateLayout = "2006-01-02"

// ErrInvalidDate indicates a form date that does not match DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// CreateCattleRequest is the add-animal form payload.
type CreateCattleRequest struct {
	InternalID        string   `json:"internalId" binding:"required"`
	Breed             string   `json:"breed" binding:"required"`
	Gender            Gender   `json:"gender" binding:"required,oneof=MALE FEMALE"`
	BirthDate         string   `json:"birthDate" binding:"required"`
	Weight            *float64 `json:"weight" binding:"omitempty,gt=0"`
	CrossBreed        string   `json:"crossBreed"`
	PurityLevel       string   `json:"purityLevel"`
	DevelopmentStage  string   `json:"developmentStage" binding:"omitempty,oneof=calf heifer adult senior"`
	FatherID          string   `json:"fatherId"`
	MotherID          string   `json:"motherId"`
	LastBirth         string   `json:"lastBirth"`
	LactationCycle    *int     `json:"lactationCycle" binding:"omitempty,gte=0"`
	ReproductiveStage string   `json:"reproductiveStage"`
}

// ToCattle builds a new ACTIVE cattle record owned by ranchID.
func (r CreateCattleRequest) ToCattle(ranchID string, now time.Time) (Cattle, error) {
	birth, err := parseDate(r.BirthDate, now.Location())
	if err != nil {
		return Cattle{}, fmt.Errorf("birthDate: %w", err)
	}

	c := Cattle{
		ID:                NewID(),
		InternalID:        r.InternalID,
		Breed:             r.Breed,
		Gender:            r.Gender,
		BirthDate:         birth,
		Weight:            r.Weight,
		RanchID:           ranchID,
		CrossBreed:        r.CrossBreed,
		PurityLevel:       r.PurityLevel,
		DevelopmentStage:  r.DevelopmentStage,
		FatherID:          r.FatherID,
		MotherID:          r.MotherID,
		LactationCycle:    r.LactationCycle,
		ReproductiveStage: r.ReproductiveStage,
		Status:            CattleActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if r.LastBirth != "" {
		lb, err := parseDate(r.LastBirth, now.Location())
		if err != nil {
			return Cattle{}, fmt.Errorf("lastBirth: %w", err)
		}
		c.LastBirth = &lb
	}

	return c, nil
}

// CreateProductionRequest is the record-milking form payload.
type CreateProductionRequest struct {
	CattleID string  `json:"cattleId" binding:"required"`
	Liters   float64 `json:"liters" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required"`
	Shift    Shift   `json:"shift" binding:"required,oneof=MORNING AFTERNOON EVENING"`
	Quality  string  `json:"quality"`
	Notes    string  `json:"notes"`
}

// ToProduction builds a production record for ranchID.
func (r CreateProductionRequest) ToProduction(ranchID string, now time.Time) (Production, error) {
	date, err := parseDate(r.Date, now.Location())
	if err != nil {
		return Production{}, fmt.Errorf("date: %w", err)
	}

	return Production{
		ID:        NewID(),
		CattleID:  r.CattleID,
		RanchID:   ranchID,
		Liters:    r.Liters,
		Date:      date,
		Shift:     r.Shift,
		Quality:   r.Quality,
		Notes:     r.Notes,
		CreatedAt: now,
	}, nil
}

// CreateTaskRequest is the new-task form payload.
type CreateTaskRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	DueDate     string        `json:"dueDate" binding:"required"`
	Frequency   TaskFrequency `json:"frequency" binding:"omitempty,oneof=ONCE DAILY WEEKLY MONTHLY"`
	CattleID    string        `json:"cattleId"`
}

// ToTask builds a PENDING task for the given user and ranch.
func (r CreateTaskRequest) ToTask(userID, ranchID string, now time.Time) (Task, error) {
	due, err := parseDate(r.DueDate, now.Location())
	if err != nil {
		return Task{}, fmt.Errorf("dueDate: %w", err)
	}

	freq := r.Frequency
	if freq == "" {
		freq = FrequencyOnce
	}

	return Task{
		ID:          NewID(),
		Title:       r.Title,
		Description: r.Description,
		DueDate:     due,
		Frequency:   freq,
		Status:      TaskPending,
		UserID:      userID,
		RanchID:     ranchID,
		CattleID:    r.CattleID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateRanchRequest is the onboarding ranch form payload.
type CreateRanchRequest struct {
	Name     string   `json:"name" binding:"required"`
	Location string   `json:"location"`
	Size     *float64 `json:"size" binding:"omitempty,gt=0"`
}

// ToRanch builds a ranch owned by userID.
func (r CreateRanchRequest) ToRanch(userID string, now time.Time) Ranch {
	return Ranch{
		ID:        NewID(),
		Name:      r.Name,
		Location:  r.Location,
		Size:      r.Size,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// parseDate reads a form date as midnight in loc.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, value)
	}
	return t, nil
}

package models

import (
	"strings"
	"time"
)

// Shift is the milking shift of a production record.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftEvening   Shift = "EVENING"
)

// ParseShift maps free text (any case) to a Shift.
func ParseShift(value string) (Shift, bool) {
	switch Shift(strings.ToUpper(strings.TrimSpace(value))) {
	case ShiftMorning:
		return ShiftMorning, true
	case ShiftAfternoon:
		return ShiftAfternoon, true
	case ShiftEvening:
		return ShiftEvening, true
	}
	return "", false
}

// Production is a single milk-yield measurement for one animal on one date and shift.
type Production struct {
	ID        string    `bson:"id" json:"id"`
	CattleID  string    `bson:"cattle_id" json:"cattleId"`
	RanchID   string    `bson:"ranch_id" json:"ranchId"`
	Liters    float64   `bson:"liters" json:"liters"`
	Date      time.Time `bson:"date" json:"date"`
	Shift     Shift     `bson:"shift" json:"shift"`
	Quality   string    `bson:"quality,omitempty" json:"quality,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

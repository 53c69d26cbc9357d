package models

import "time"

// Gender of an animal.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// CattleStatus is the lifecycle status of an animal.
type CattleStatus string

const (
	CattleActive   CattleStatus = "ACTIVE"
	CattleSold     CattleStatus = "SOLD"
	CattleDeceased CattleStatus = "DECEASED"
	CattleRetired  CattleStatus = "RETIRED"
)

// Cattle is an individual animal tracked by a ranch.
//
// FatherID and MotherID are weak references to other Cattle records; they are
// never checked for existence.
type Cattle struct {
	ID         string    `bson:"id" json:"id"`
	InternalID string    `bson:"internal_id" json:"internalId"`
	Breed      string    `bson:"breed" json:"breed"`
	Gender     Gender    `bson:"gender" json:"gender"`
	BirthDate  time.Time `bson:"birth_date" json:"birthDate"`
	Weight     *float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	RanchID    string    `bson:"ranch_id" json:"ranchId"`

	CrossBreed       string `bson:"cross_breed,omitempty" json:"crossBreed,omitempty"`
	PurityLevel      string `bson:"purity_level,omitempty" json:"purityLevel,omitempty"`
	DevelopmentStage string `bson:"development_stage,omitempty" json:"developmentStage,omitempty"`

	FatherID string `bson:"father_id,omitempty" json:"fatherId,omitempty"`
	MotherID string `bson:"mother_id,omitempty" json:"motherId,omitempty"`

	// Female-only reproductive data.
	LastBirth         *time.Time `bson:"last_birth,omitempty" json:"lastBirth,omitempty"`
	LactationCycle    *int       `bson:"lactation_cycle,omitempty" json:"lactationCycle,omitempty"`
	ReproductiveStage string     `bson:"reproductive_stage,omitempty" json:"reproductiveStage,omitempty"`

	Status    CattleStatus `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updated_at" json:"updatedAt"`
}

// IsActiveCow reports whether the animal counts as an active cow.
func (c Cattle) IsActiveCow() bool {
	return c.Gender == GenderFemale && c.Status == CattleActive
}

// CattlePatch carries the fields of a partial cattle update. Nil fields are left untouched.
type CattlePatch struct {
	InternalID        *string       `json:"internalId,omitempty"`
	Breed             *string       `json:"breed,omitempty"`
	Gender            *Gender       `json:"gender,omitempty" binding:"omitempty,oneof=MALE FEMALE"`
	BirthDate         *time.Time    `json:"birthDate,omitempty"`
	Weight            *float64      `json:"weight,omitempty" binding:"omitempty,gt=0"`
	RanchID           *string       `json:"ranchId,omitempty"`
	CrossBreed        *string       `json:"crossBreed,omitempty"`
	PurityLevel       *string       `json:"purityLevel,omitempty"`
	DevelopmentStage  *string       `json:"developmentStage,omitempty"`
	FatherID          *string       `json:"fatherId,omitempty"`
	MotherID          *string       `json:"motherId,omitempty"`
	LastBirth         *time.Time    `json:"lastBirth,omitempty"`
	LactationCycle    *int          `json:"lactationCycle,omitempty"`
	ReproductiveStage *string       `json:"reproductiveStage,omitempty"`
	Status            *CattleStatus `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE SOLD DECEASED RETIRED"`
	UpdatedAt         *time.Time    `json:"updatedAt,omitempty"`
}

// Apply returns a copy of c with the patch merged in.
func (p CattlePatch) Apply(c Cattle) Cattle {
	setString(&c.InternalID, p.InternalID)
	setString(&c.Breed, p.Breed)
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
	if p.BirthDate != nil {
		c.BirthDate = *p.BirthDate
	}
	if p.Weight != nil {
		w := *p.Weight
		c.Weight = &w
	}
	setString(&c.RanchID, p.RanchID)
	setString(&c.CrossBreed, p.CrossBreed)
	setString(&c.PurityLevel, p.PurityLevel)
	setString(&c.DevelopmentStage, p.DevelopmentStage)
	setString(&c.FatherID, p.FatherID)
	setString(&c.MotherID, p.MotherID)
	if p.LastBirth != nil {
		lb := *p.LastBirth
		c.LastBirth = &lb
	}
	if p.LactationCycle != nil {
		lc := *p.LactationCycle
		c.LactationCycle = &lc
	}
	setString(&c.ReproductiveStage, p.ReproductiveStage)
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.UpdatedAt != nil {
		c.UpdatedAt = *p.UpdatedAt
	}
	return c
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

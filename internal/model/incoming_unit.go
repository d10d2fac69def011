package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncomingUnit is one external unit proposed as equivalent. Rows are
// created alongside their application and never shared or mutated.
type IncomingUnit struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	UniversityName        string          `gorm:"type:varchar(255);not null" json:"university_name"`
	UnitCode              string          `gorm:"type:varchar(30);not null;index" json:"unit_code"`
	UnitName              string          `gorm:"type:varchar(255)" json:"unit_name"`
	Level                 string          `gorm:"type:varchar(20)" json:"level"`
	ContactHours          int             `json:"contact_hours"`
	LearningOutcomes      string          `gorm:"type:text" json:"learning_outcomes"`
	IndicativeAssessments string          `gorm:"type:text" json:"indicative_assessments"`
	CreditPoints          decimal.Decimal `gorm:"type:numeric(6,2)" json:"credit_points"`
	OutlineLink           string          `gorm:"type:varchar(512)" json:"outline_link"`
	CompletedYear         int             `json:"completed_year"`
	CreatedAt             time.Time       `json:"timestamp"`
}

func (u *IncomingUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UnitPair is the identity of an external unit for equivalence matching.
type UnitPair struct {
	UnitCode       string
	UniversityName string
}

// Pair returns the matching identity of this unit.
func (u *IncomingUnit) Pair() UnitPair {
	return UnitPair{UnitCode: u.UnitCode, UniversityName: u.UniversityName}
}

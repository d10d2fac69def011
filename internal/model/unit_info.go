package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UnitInfo is the canonical descriptive shape for a unit, used both for
// catalog lookups of the UWA unit and for normalized incoming units in
// review responses. All field-name coalescing happens when a UnitInfo is
// built, never downstream of it.
type UnitInfo struct {
	Code                  string          `json:"code"`
	Name                  string          `json:"name"`
	Level                 string          `json:"level"`
	Outcomes              string          `json:"outcomes"`
	IndicativeAssessments string          `json:"indicativeAssessments"`
	CreditPoints          decimal.Decimal `json:"creditPoints"`
	ContactHours          int             `json:"contactHours"`
	Year                  int             `json:"year"`
	Desc                  string          `json:"desc"`
	University            string          `json:"university"`
	Outline               string          `json:"outline"`
}

// UnitInfo is persisted as a jsonb cache column on Application.

func (u UnitInfo) Value() (driver.Value, error) {
	b, err := json.Marshal(u)
	return string(b), err
}

func (u *UnitInfo) Scan(value interface{}) error {
	return scanJSON(value, u)
}

// FromIncomingUnit normalizes an owned external unit record into the
// canonical display shape.
func FromIncomingUnit(u IncomingUnit) UnitInfo {
	return UnitInfo{
		Code:                  u.UnitCode,
		Name:                  u.UnitName,
		Level:                 u.Level,
		Outcomes:              u.LearningOutcomes,
		IndicativeAssessments: u.IndicativeAssessments,
		CreditPoints:          u.CreditPoints,
		ContactHours:          u.ContactHours,
		Year:                  u.CompletedYear,
		University:            u.UniversityName,
		Outline:               u.OutlineLink,
	}
}

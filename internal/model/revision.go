package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Revision records that one application superseded another after a
// request for more information. Each application has at most one direct
// successor (unique index on original_id) and at most one predecessor,
// so the links form a forest of chains.
type Revision struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OriginalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"originalId"`
	RevisedID  uuid.UUID `gorm:"type:uuid;not null;index" json:"revisedId"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Revision) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

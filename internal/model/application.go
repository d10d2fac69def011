package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application status enum constants
const (
	StatusPending     = "Pending"
	StatusApprove     = "Approve"
	StatusReject      = "Reject"
	StatusRequestInfo = "Request Further Information"
	StatusObsolete    = "Obsolete" // terminal — set when a revision supersedes this application
)

// Application represents one unit-equivalence request: a set of external
// units proposed as equivalent to a single UWA unit. Field names in JSON
// are the contract with the review UI and must stay stable.
type Application struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName           string         `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName            string         `gorm:"type:varchar(255);not null" json:"last_name"`
	Email               string         `gorm:"type:varchar(255);not null;index" json:"email"`
	UWAUnitCode         string         `gorm:"type:varchar(20);not null;index" json:"uwa_unit_code"`
	Status              string         `gorm:"type:varchar(40);not null;default:'Pending';index" json:"status"`
	Submitted           bool           `gorm:"not null;default:true" json:"submitted"`
	Reviewed            bool           `gorm:"not null;default:true" json:"reviewed"`
	ProposedUnits       []IncomingUnit `gorm:"foreignKey:ApplicationID" json:"proposed_units"`
	Comments            CommentList    `gorm:"type:jsonb" json:"comments"`
	SupportingDocuments StringList     `gorm:"type:jsonb" json:"supporting_documents"`
	AssignedTo          string         `gorm:"type:varchar(50)" json:"assigned_to,omitempty"`
	AssignedUnitcode    string         `gorm:"type:varchar(20)" json:"assigned_unitcode,omitempty"`
	UWAUnitCache        *UnitInfo      `gorm:"type:jsonb" json:"-"` // last catalog lookup, display fallback
	CreatedAt           time.Time      `gorm:"index" json:"timestamp"`
	UpdatedAt           time.Time      `json:"-"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsDecided reports whether the application carries a final reviewer
// decision eligible for auto-matching future identical requests.
func (a *Application) IsDecided() bool {
	return a.Status == StatusApprove || a.Status == StatusReject
}

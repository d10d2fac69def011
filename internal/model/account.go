package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staff roles. Accounts are auto-provisioned on first login: the
// studentservices account plus one account per valid UWA unit code.
const (
	RoleStudentServices = "studentservices"
	RoleUnitCoordinator = "unitcoordinator"
)

// Account is a staff login. Coordinator accounts are scoped to the unit
// code they review via ViewUnitcode; studentservices sees everything.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	ViewUnitcode string    `gorm:"type:varchar(20)" json:"view_unitcode"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Role derives the account's role from its username.
func (a *Account) Role() string {
	if strings.EqualFold(a.Username, RoleStudentServices) {
		return RoleStudentServices
	}
	return RoleUnitCoordinator
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment type enum constants. Decision types drive status recomputation;
// both short and past-tense spellings occur in stored data.
const (
	CommentTypeComment  = "Comment"
	CommentTypeApprove  = "Approve"
	CommentTypeApproved = "Approved"
	CommentTypeReject   = "Reject"
	CommentTypeRejected = "Rejected"
	CommentTypeObsolete = "Obsolete"
	CommentTypePending  = "Pending" // system comment written on coordinator escalation
)

// Comment is a row in the cross-application comment log. Every comment is
// also embedded on its application row (see CommentList) so the review UI
// can render an application without a join.
type Comment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`
	Author        string    `gorm:"type:varchar(255);not null" json:"author"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	Type          string    `gorm:"type:varchar(20);not null;index" json:"type"`
	CreatedAt     time.Time `gorm:"index" json:"timestamp"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentEntry is the embedded copy of a comment kept on the application row.
type CommentEntry struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

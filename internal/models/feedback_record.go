package models

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackRecord is the relational copy of a completed interview's feedback,
// written best-effort at completion for analytics and export.
type FeedbackRecord struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID    string         `gorm:"column:session_id;type:uuid;uniqueIndex" json:"session_id"`
	UserID       *string        `gorm:"column:user_id;type:uuid;index" json:"user_id,omitempty"`
	Role         string         `gorm:"column:role;type:text" json:"role"`
	Rating       int            `gorm:"column:rating" json:"rating"`
	PlusPoints   datatypes.JSON `gorm:"column:plus_points;type:jsonb" json:"plus_points"`
	Improvements datatypes.JSON `gorm:"column:improvements;type:jsonb" json:"improvements"`
	Summary      string         `gorm:"column:summary;type:text" json:"summary"`
	CompletedAt  time.Time      `gorm:"column:completed_at;type:timestamptz;index" json:"completed_at"`
}

func (FeedbackRecord) TableName() string { return "feedback_records" }

package types

import (
	"time"
)

// RecommendationFeedback is create-once: the unique index on
// recommendation_id enforces at most one rating per recommendation at the
// storage layer. A duplicate write surfaces as a conflict, never an
// overwrite.
type RecommendationFeedback struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RecommendationID uint      `gorm:"uniqueIndex;not null;column:recommendation_id" json:"recommendation_id"`
	UserID           uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	Rating           int       `gorm:"not null;column:rating" json:"rating"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
}

func (RecommendationFeedback) TableName() string {
	return "recommendation_feedback"
}

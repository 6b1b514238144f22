package types

import (
	"time"
)

// Recommendation is one recommendation event. Immutable once written; a user
// accumulates many over time.
type Recommendation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	ProductID uint      `gorm:"not null;index;column:product_id" json:"product_id"`
	Score     float64   `gorm:"not null;column:score" json:"score"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendation"
}

package types

import (
	"time"
)

// SearchHistory is an append-only log of raw queries. Rows are never updated.
type SearchHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index;column:user_id" json:"user_id"`
	Query     string    `gorm:"not null;column:query" json:"query"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}

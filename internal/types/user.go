package types

import (
	"time"
)

// User profile_description is the primary personalization signal: it seeds
// both candidate retrieval and the ranking prompt.
type User struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email              string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	ProfileDescription string    `gorm:"column:profile_description" json:"profile_description"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

package types

import (
	"time"
)

// Product rows mirror the vector index: the embedding stored under the
// product id is derived from SearchText and must be refreshed on any change
// to name, category, or description.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint      `gorm:"not null;index;column:category_id" json:"category_id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Price       float64   `gorm:"not null;column:price" json:"price"`
	Stock       int       `gorm:"not null;default:0;column:stock" json:"stock"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

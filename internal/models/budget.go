package models

import "time"

// Budget is a monthly spending limit for one category. Spent/remaining
// figures are derived at read time from Transactions, never stored here.
type Budget struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index;not null"`
	User      User
	Category  string  `gorm:"size:100;not null"`
	Amount    float64 `gorm:"not null"`
	Month     int     `gorm:"not null"` // 1-12
	Year      int     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

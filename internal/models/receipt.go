package models

import "time"

// Receipt is an uploaded receipt file plus the fields extracted from it.
// Creating a Receipt also creates a matching expense Transaction on a
// best-effort basis; the Receipt stands on its own if that fails.
type Receipt struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index;not null"`
	User      User
	FileURL   string    `gorm:"size:255;not null"`
	Merchant  string    `gorm:"size:200"`
	Amount    float64   `gorm:"not null"`
	Category  string    `gorm:"size:100"`
	Date      time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

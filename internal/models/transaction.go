package models

import "time"

// Transaction is a single income or expense entry in the user's ledger.
// Rows are never hard-deleted; IsDeleted flips and every list/aggregate
// query filters it out.
type Transaction struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index;not null"`
	User      User
	Name      string    `gorm:"size:200;not null"`
	Category  string    `gorm:"size:100;index;not null"`
	Cost      float64   `gorm:"not null"`
	AddedOn   time.Time `gorm:"index;not null"`
	IsIncome  bool      `gorm:"index;not null"`
	Note      string    `gorm:"size:500"`
	IsDeleted bool      `gorm:"index;not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

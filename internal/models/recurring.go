package models

import "time"

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyAnnually Frequency = "annually"
)

// RecurringTransaction describes a repeating income or expense.
// NextDueDate is derived from StartDate and Frequency but persisted so the
// forecast query can filter on it directly.
type RecurringTransaction struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index;not null"`
	User        User
	Name        string    `gorm:"size:200;not null"`
	Category    string    `gorm:"size:100;not null"`
	Amount      float64   `gorm:"not null"`
	IsIncome    bool      `gorm:"not null"`
	Frequency   Frequency `gorm:"size:20;not null"`
	StartDate   time.Time `gorm:"not null"`
	NextDueDate time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Package ledger provides read-only aggregate views over a user's
// non-deleted transactions: category totals, per-day totals and the
// dashboard summary. Nothing in here writes.
package ledger

import (
	"time"

	"paisable-backend/internal/models"

	"gorm.io/gorm"
)

type Aggregator struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type DailyTotal struct {
	Date  string  `json:"date"` // "2006-01-02"
	Total float64 `json:"total"`
}

type Summary struct {
	TotalIncome        float64              `json:"totalIncome"`
	TotalExpenses      float64              `json:"totalExpenses"`
	Balance            float64              `json:"balance"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

func (a *Aggregator) base(userID uint, isIncome bool) *gorm.DB {
	return a.db.Model(&models.Transaction{}).
		Where("user_id = ? AND is_income = ? AND is_deleted = ?", userID, isIncome, false)
}

// CategoryTotals sums amounts per category for one side of the ledger,
// optionally bounded by an inclusive date range. Categories with no
// matching rows produce no entry.
func (a *Aggregator) CategoryTotals(userID uint, isIncome bool, from, to *time.Time) ([]CategoryTotal, error) {
	q := a.base(userID, isIncome)
	if from != nil {
		q = q.Where("added_on >= ?", *from)
	}
	if to != nil {
		q = q.Where("added_on <= ?", *to)
	}

	var totals []CategoryTotal
	err := q.
		Select("category AS name, SUM(cost) AS total").
		Group("category").
		Order("category asc").
		Scan(&totals).Error
	return totals, err
}

// DailyTotals sums amounts per calendar day since the given cutoff,
// ascending by day. Days with no rows are omitted; callers default absent
// keys to zero.
func (a *Aggregator) DailyTotals(userID uint, isIncome bool, since time.Time) ([]DailyTotal, error) {
	var rows []models.Transaction
	if err := a.base(userID, isIncome).
		Where("added_on >= ?", since).
		Order("added_on asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// Fold in Go rather than SQL so the day bucketing does not depend on
	// database-specific date functions.
	totalsByDay := make(map[string]float64, len(rows))
	order := make([]string, 0, len(rows))
	for _, tx := range rows {
		day := tx.AddedOn.Format("2006-01-02")
		if _, seen := totalsByDay[day]; !seen {
			order = append(order, day)
		}
		totalsByDay[day] += tx.Cost
	}

	out := make([]DailyTotal, 0, len(order))
	for _, day := range order {
		out = append(out, DailyTotal{Date: day, Total: totalsByDay[day]})
	}
	return out, nil
}

// GetSummary returns total income, total expenses, their balance and the
// five most recent transactions.
func (a *Aggregator) GetSummary(userID uint) (*Summary, error) {
	totalIncome, err := a.sum(a.base(userID, true))
	if err != nil {
		return nil, err
	}
	totalExpenses, err := a.sum(a.base(userID, false))
	if err != nil {
		return nil, err
	}

	var recent []models.Transaction
	if err := a.db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("added_on desc").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	return &Summary{
		TotalIncome:        totalIncome,
		TotalExpenses:      totalExpenses,
		Balance:            totalIncome - totalExpenses,
		RecentTransactions: recent,
	}, nil
}

// SpentInWindow sums non-deleted expenses of one category inside an
// inclusive window. Used by the budget tracker.
func (a *Aggregator) SpentInWindow(userID uint, category string, from, to time.Time) (float64, error) {
	return a.sum(a.base(userID, false).
		Where("category = ? AND added_on >= ? AND added_on <= ?", category, from, to))
}

func (a *Aggregator) sum(q *gorm.DB) (float64, error) {
	var total float64
	err := q.Select("COALESCE(SUM(cost), 0)").Scan(&total).Error
	return total, err
}

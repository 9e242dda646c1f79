package transaction

import (
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/ledger"
	"paisable-backend/internal/models"
	"paisable-backend/internal/recurring"

	"github.com/gofiber/fiber/v2"
)

type SummaryResponse struct {
	TotalIncome        float64               `json:"totalIncome"`
	TotalExpenses      float64               `json:"totalExpenses"`
	Balance            float64               `json:"balance"`
	RecentTransactions []TransactionResponse `json:"recentTransactions"`
}

type UpcomingRecurringItem struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Amount      float64          `json:"amount"`
	IsIncome    bool             `json:"isIncome"`
	NextDueDate string           `json:"nextDueDate"`
	Frequency   models.Frequency `json:"frequency"`
}

type ChartDataResponse struct {
	ExpensesByCategory []ledger.CategoryTotal  `json:"expensesByCategory"`
	ExpensesOverTime   []ledger.DailyTotal     `json:"expensesOverTime"`
	IncomeOverTime     []ledger.DailyTotal     `json:"incomeOverTime"`
	UpcomingRecurring  []UpcomingRecurringItem `json:"upcomingRecurring"`
}

// GET /api/transactions/summary
func GetSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		summary, err := ledger.New(database.DB).GetSummary(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute summary")
		}

		recent := make([]TransactionResponse, 0, len(summary.RecentTransactions))
		for i := range summary.RecentTransactions {
			recent = append(recent, toResponse(&summary.RecentTransactions[i]))
		}

		return c.JSON(SummaryResponse{
			TotalIncome:        summary.TotalIncome,
			TotalExpenses:      summary.TotalExpenses,
			Balance:            summary.Balance,
			RecentTransactions: recent,
		})
	}
}

// GET /api/transactions/charts
func GetChartDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		agg := ledger.New(database.DB)
		thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

		expensesByCategory, err := agg.CategoryTotals(userID, false, nil, nil)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute category totals")
		}

		expensesOverTime, err := agg.DailyTotals(userID, false, thirtyDaysAgo)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute expense totals")
		}

		incomeOverTime, err := agg.DailyTotals(userID, true, thirtyDaysAgo)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute income totals")
		}

		upcoming, err := recurring.Upcoming(userID, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load upcoming recurring transactions")
		}

		upcomingItems := make([]UpcomingRecurringItem, 0, len(upcoming))
		for _, rt := range upcoming {
			upcomingItems = append(upcomingItems, UpcomingRecurringItem{
				ID:          rt.ID,
				Name:        rt.Name,
				Category:    rt.Category,
				Amount:      rt.Amount,
				IsIncome:    rt.IsIncome,
				NextDueDate: rt.NextDueDate.Format("2006-01-02"),
				Frequency:   rt.Frequency,
			})
		}

		return c.JSON(ChartDataResponse{
			ExpensesByCategory: expensesByCategory,
			ExpensesOverTime:   expensesOverTime,
			IncomeOverTime:     incomeOverTime,
			UpcomingRecurring:  upcomingItems,
		})
	}
}

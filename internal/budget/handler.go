package budget

import (
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/ledger"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBudgetRequest struct {
	Category string   `json:"category"`
	Amount   *float64 `json:"amount"`
	Month    int      `json:"month"` // 1-12
	Year     int      `json:"year"`
}

type UpdateBudgetRequest struct {
	Category *string  `json:"category"`
	Amount   *float64 `json:"amount"`
	Month    *int     `json:"month"`
	Year     *int     `json:"year"`
}

type BudgetResponse struct {
	ID       uint    `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
}

// BudgetWithSpent carries the derived figures. They are recomputed from the
// ledger on every list request and never persisted.
type BudgetWithSpent struct {
	BudgetResponse
	Spent           float64 `json:"spent"`
	Remaining       float64 `json:"remaining"`
	SpentPercentage float64 `json:"spentPercentage"`
}

func toResponse(b *models.Budget) BudgetResponse {
	return BudgetResponse{
		ID:       b.ID,
		Category: b.Category,
		Amount:   b.Amount,
		Month:    b.Month,
		Year:     b.Year,
	}
}

// MonthWindow returns the inclusive bounds of a budget month:
// the 1st at 00:00:00 through the last day at 23:59:59.999.
func MonthWindow(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return from, to
}

// WithSpent derives spent/remaining/spentPercentage for one budget.
func WithSpent(agg *ledger.Aggregator, b *models.Budget) (*BudgetWithSpent, error) {
	from, to := MonthWindow(b.Month, b.Year)

	spent, err := agg.SpentInWindow(b.UserID, b.Category, from, to)
	if err != nil {
		return nil, err
	}

	pct := 0.0
	if b.Amount > 0 {
		pct = spent / b.Amount * 100
		if pct > 100 {
			pct = 100
		}
	}

	return &BudgetWithSpent{
		BudgetResponse:  toResponse(b),
		Spent:           spent,
		Remaining:       b.Amount - spent,
		SpentPercentage: pct,
	}, nil
}

// POST /api/budgets
func CreateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Category == "" || body.Amount == nil || body.Month == 0 || body.Year == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category, amount, month and year are required")
		}
		if *body.Amount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must not be negative")
		}
		if body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Month must be between 1 and 12")
		}

		b := models.Budget{
			UserID:   userID,
			Category: body.Category,
			Amount:   *body.Amount,
			Month:    body.Month,
			Year:     body.Year,
		}

		if err := database.DB.Create(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create budget")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&b))
	}
}

// GET /api/budgets
func ListBudgetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var budgets []models.Budget
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("year desc, month desc").
			Find(&budgets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list budgets")
		}

		agg := ledger.New(database.DB)
		out := make([]BudgetWithSpent, 0, len(budgets))
		for i := range budgets {
			ws, err := WithSpent(agg, &budgets[i])
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not compute budget spend")
			}
			out = append(out, *ws)
		}

		return c.JSON(out)
	}
}

// PUT /api/budgets/:id
func UpdateBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateBudgetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var b models.Budget
		if err := database.DB.
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Budget not found")
		}

		if body.Category != nil {
			b.Category = *body.Category
		}
		if body.Amount != nil {
			if *body.Amount < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Amount must not be negative")
			}
			b.Amount = *body.Amount
		}
		if body.Month != nil {
			if *body.Month < 1 || *body.Month > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "Month must be between 1 and 12")
			}
			b.Month = *body.Month
		}
		if body.Year != nil {
			b.Year = *body.Year
		}

		if err := database.DB.Save(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update budget")
		}

		return c.JSON(toResponse(&b))
	}
}

// DELETE /api/budgets/:id
func DeleteBudgetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var b models.Budget
		if err := database.DB.
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Budget not found")
		}

		if err := database.DB.Delete(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete budget")
		}

		return c.JSON(fiber.Map{"message": "Budget deleted successfully"})
	}
}

package recurring

import (
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRecurringRequest struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Amount    *float64 `json:"amount"`
	IsIncome  bool     `json:"isIncome"`
	Frequency string   `json:"frequency"`
	StartDate string   `json:"startDate"` // "2025-12-09" or RFC3339
}

type UpdateRecurringRequest struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	Amount    *float64 `json:"amount"`
	IsIncome  *bool    `json:"isIncome"`
	Frequency *string  `json:"frequency"`
	StartDate *string  `json:"startDate"`
}

type RecurringResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Amount      float64          `json:"amount"`
	IsIncome    bool             `json:"isIncome"`
	Frequency   models.Frequency `json:"frequency"`
	StartDate   string           `json:"startDate"`
	NextDueDate string           `json:"nextDueDate"`
}

func toResponse(rt *models.RecurringTransaction) RecurringResponse {
	return RecurringResponse{
		ID:          rt.ID,
		Name:        rt.Name,
		Category:    rt.Category,
		Amount:      rt.Amount,
		IsIncome:    rt.IsIncome,
		Frequency:   rt.Frequency,
		StartDate:   rt.StartDate.Format("2006-01-02"),
		NextDueDate: rt.NextDueDate.Format("2006-01-02"),
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /api/recurring/create
func CreateRecurringHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateRecurringRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" || body.Category == "" || body.Amount == nil || body.Frequency == "" || body.StartDate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Missing required fields")
		}

		freq, err := ParseFrequency(body.Frequency)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown frequency: "+body.Frequency)
		}

		startDate, err := parseDate(body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid start date")
		}

		nextDueDate, err := NextDueDate(startDate, freq)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown frequency: "+body.Frequency)
		}

		rt := models.RecurringTransaction{
			UserID:      userID,
			Name:        body.Name,
			Category:    body.Category,
			Amount:      *body.Amount,
			IsIncome:    body.IsIncome,
			Frequency:   freq,
			StartDate:   startDate,
			NextDueDate: nextDueDate,
		}

		if err := database.DB.Create(&rt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create recurring transaction")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&rt))
	}
}

// GET /api/recurring
func ListRecurringHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var items []models.RecurringTransaction
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("next_due_date asc").
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list recurring transactions")
		}

		out := make([]RecurringResponse, 0, len(items))
		for i := range items {
			out = append(out, toResponse(&items[i]))
		}
		return c.JSON(out)
	}
}

// PUT /api/recurring/:id
//
// NextDueDate recompute rule: a changed start date recomputes from the new
// start date; a frequency-only change recomputes from the current
// NextDueDate, so repeated frequency edits keep advancing the schedule
// instead of resetting it to the original start.
func UpdateRecurringHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateRecurringRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var rt models.RecurringTransaction
		if err := database.DB.
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&rt).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Recurring transaction not found")
		}

		if body.StartDate != nil || body.Frequency != nil {
			newFreq := rt.Frequency
			if body.Frequency != nil {
				newFreq, err = ParseFrequency(*body.Frequency)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Unknown frequency: "+*body.Frequency)
				}
			}

			newStart := rt.StartDate
			if body.StartDate != nil {
				newStart, err = parseDate(*body.StartDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Invalid start date")
				}
			}

			base := rt.NextDueDate
			if body.StartDate != nil && !newStart.Equal(rt.StartDate) {
				base = newStart
			} else if base.IsZero() {
				base = newStart
			}

			nextDueDate, err := NextDueDate(base, newFreq)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Unknown frequency")
			}

			rt.Frequency = newFreq
			rt.StartDate = newStart
			rt.NextDueDate = nextDueDate
		}

		if body.Name != nil {
			rt.Name = *body.Name
		}
		if body.Category != nil {
			rt.Category = *body.Category
		}
		if body.Amount != nil {
			rt.Amount = *body.Amount
		}
		if body.IsIncome != nil {
			rt.IsIncome = *body.IsIncome
		}

		if err := database.DB.Save(&rt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update recurring transaction")
		}

		return c.JSON(toResponse(&rt))
	}
}

// DELETE /api/recurring/:id
func DeleteRecurringHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var rt models.RecurringTransaction
		if err := database.DB.
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			First(&rt).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Recurring transaction not found")
		}

		if err := database.DB.Delete(&rt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete recurring transaction")
		}

		return c.JSON(fiber.Map{"message": "Deleted successfully"})
	}
}

// Upcoming returns the user's recurring transactions due within the next
// 30 days, soonest first, for the dashboard forecast. Nothing here rolls
// NextDueDate forward once a due date elapses; elapsed entries simply fall
// out of the window on the next read.
func Upcoming(userID uint, now time.Time) ([]models.RecurringTransaction, error) {
	var items []models.RecurringTransaction
	err := database.DB.
		Where("user_id = ? AND next_due_date >= ? AND next_due_date <= ?",
			userID, now, now.Add(30*24*time.Hour)).
		Order("next_due_date asc").
		Limit(10).
		Find(&items).Error
	return items, err
}

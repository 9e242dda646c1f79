package transaction

import (
	"sort"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Categories every user starts with; the user's own categories from the
// ledger are merged in on top.
var defaultExpenseCategories = []string{
	"Food",
	"Shopping",
	"Bills",
	"Subscriptions",
	"Transportation",
	"Entertainment",
	"Groceries",
	"Miscellaneous",
}

var defaultIncomeCategories = []string{
	"Salary",
	"Freelance / Side Gig",
	"Investment Returns",
	"Gifts",
	"Refunds",
}

const fallbackCategory = "Miscellaneous"

type DeleteCategoryRequest struct {
	CategoryToDelete string `json:"categoryToDelete"`
}

func mergedCategories(userID uint, isIncome bool, defaults []string) ([]string, error) {
	var userCategories []string
	err := database.DB.Model(&models.Transaction{}).
		Distinct("category").
		Where("user_id = ? AND is_income = ? AND is_deleted = ?", userID, isIncome, false).
		Pluck("category", &userCategories).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(defaults)+len(userCategories))
	combined := make([]string, 0, len(defaults)+len(userCategories))
	for _, c := range append(append([]string{}, defaults...), userCategories...) {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		combined = append(combined, c)
	}
	sort.Strings(combined)
	return combined, nil
}

// GET /api/transactions/categories
func GetExpenseCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		categories, err := mergedCategories(userID, false, defaultExpenseCategories)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load categories")
		}
		return c.JSON(categories)
	}
}

// GET /api/transactions/categories/income
func GetIncomeCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		categories, err := mergedCategories(userID, true, defaultIncomeCategories)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load categories")
		}
		return c.JSON(categories)
	}
}

// DELETE /api/transactions/category
//
// Deleting a category re-assigns its transactions to "Miscellaneous"
// rather than touching the rows' amounts or flags.
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body DeleteCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.CategoryToDelete == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Category name is required")
		}

		if err := database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND category = ?", userID, body.CategoryToDelete).
			Update("category", fallbackCategory).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		return c.JSON(fiber.Map{
			"message": "Category '" + body.CategoryToDelete + "' deleted successfully. Associated transactions moved to '" + fallbackCategory + "'.",
		})
	}
}

package transaction

import (
	"strconv"
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTransactionRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Cost     *float64 `json:"cost"`
	AddedOn  string   `json:"addedOn"` // optional, defaults to now
	IsIncome bool     `json:"isIncome"`
	Note     string   `json:"note"`
}

type UpdateTransactionRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Cost     *float64 `json:"cost"`
	AddedOn  *string  `json:"addedOn"`
	IsIncome *bool    `json:"isIncome"`
	Note     *string  `json:"note"`
}

type BulkDeleteRequest struct {
	TransactionIDs []uint `json:"transactionIds"`
}

type TransactionResponse struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Cost     float64   `json:"cost"`
	AddedOn  time.Time `json:"addedOn"`
	IsIncome bool      `json:"isIncome"`
	Note     string    `json:"note,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalPages   int                   `json:"totalPages"`
	CurrentPage  int                   `json:"currentPage"`
}

func toResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:       tx.ID,
		Name:     tx.Name,
		Category: tx.Category,
		Cost:     tx.Cost,
		AddedOn:  tx.AddedOn,
		IsIncome: tx.IsIncome,
		Note:     tx.Note,
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// POST /api/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" || body.Category == "" || body.Cost == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Name, category and cost are required")
		}

		addedOn := time.Now()
		if body.AddedOn != "" {
			addedOn, err = parseDate(body.AddedOn)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid addedOn date")
			}
		}

		tx := models.Transaction{
			UserID:   userID,
			Name:     body.Name,
			Category: body.Category,
			Cost:     *body.Cost,
			AddedOn:  addedOn,
			IsIncome: body.IsIncome,
			Note:     body.Note,
		}

		if err := database.DB.Create(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create transaction")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&tx))
	}
}

// GET /api/transactions?search=&isIncome=&category=&startDate=&endDate=&page=&limit=
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Transaction{}).
			Where("user_id = ? AND is_deleted = ?", userID, false)

		if search := c.Query("search"); search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
		}
		if v := c.Query("isIncome"); v != "" {
			isIncome, err := strconv.ParseBool(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "isIncome must be true or false")
			}
			q = q.Where("is_income = ?", isIncome)
		}
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if v := c.Query("startDate"); v != "" {
			startDate, err := parseDate(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid startDate")
			}
			q = q.Where("added_on >= ?", startDate)
		}
		if v := c.Query("endDate"); v != "" {
			endDate, err := parseDate(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid endDate")
			}
			q = q.Where("added_on <= ?", endDate)
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 10)
		if limit < 1 {
			limit = 10
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count transactions")
		}

		var rows []models.Transaction
		if err := q.
			Order("added_on desc").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		out := make([]TransactionResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toResponse(&rows[i]))
		}

		return c.JSON(ListTransactionsResponse{
			Transactions: out,
			TotalPages:   int((count + int64(limit) - 1) / int64(limit)),
			CurrentPage:  page,
		})
	}
}

// PUT /api/transactions/:id
func UpdateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var tx models.Transaction
		if err := database.DB.First(&tx, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
		}
		if tx.UserID != userID {
			return fiber.NewError(fiber.StatusUnauthorized, "User not authorized")
		}

		if body.Name != nil {
			tx.Name = *body.Name
		}
		if body.Category != nil {
			tx.Category = *body.Category
		}
		if body.Cost != nil {
			tx.Cost = *body.Cost
		}
		if body.AddedOn != nil {
			addedOn, err := parseDate(*body.AddedOn)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid addedOn date")
			}
			tx.AddedOn = addedOn
		}
		if body.IsIncome != nil {
			tx.IsIncome = *body.IsIncome
		}
		if body.Note != nil {
			tx.Note = *body.Note
		}

		if err := database.DB.Save(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update transaction")
		}

		return c.JSON(toResponse(&tx))
	}
}

// DELETE /api/transactions/:id (soft delete)
func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var tx models.Transaction
		if err := database.DB.First(&tx, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transaction not found")
		}
		if tx.UserID != userID {
			return fiber.NewError(fiber.StatusUnauthorized, "User not authorized")
		}

		tx.IsDeleted = true
		if err := database.DB.Save(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete transaction")
		}

		return c.JSON(fiber.Map{"message": "Transaction removed successfully"})
	}
}

// DELETE /api/transactions/bulk
//
// All-or-nothing: every id must exist, belong to the caller and not be
// deleted already, otherwise nothing is touched.
func BulkDeleteTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body BulkDeleteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if len(body.TransactionIDs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Transaction IDs array is required")
		}

		var count int64
		if err := database.DB.Model(&models.Transaction{}).
			Where("id IN ? AND user_id = ? AND is_deleted = ?", body.TransactionIDs, userID, false).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not verify transactions")
		}
		if count != int64(len(body.TransactionIDs)) {
			return fiber.NewError(fiber.StatusNotFound, "Some transactions not found or not authorized")
		}

		res := database.DB.Model(&models.Transaction{}).
			Where("id IN ? AND user_id = ?", body.TransactionIDs, userID).
			Update("is_deleted", true)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete transactions")
		}

		return c.JSON(fiber.Map{
			"message":      strconv.FormatInt(res.RowsAffected, 10) + " transactions deleted successfully",
			"deletedCount": res.RowsAffected,
		})
	}
}

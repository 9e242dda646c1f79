package transaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.RecurringTransaction{},
	))
	database.DB = db
}

func newApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, userID)
		return c.Next()
	})
	app.Post("/transactions", CreateTransactionHandler())
	app.Get("/transactions", ListTransactionsHandler())
	app.Get("/transactions/summary", GetSummaryHandler())
	app.Get("/transactions/charts", GetChartDataHandler())
	app.Get("/transactions/categories", GetExpenseCategoriesHandler())
	app.Get("/transactions/categories/income", GetIncomeCategoriesHandler())
	app.Get("/transactions/export", ExportTransactionsHandler())
	app.Get("/transactions/export/xlsx", ExportTransactionsXLSXHandler())
	app.Delete("/transactions/bulk", BulkDeleteTransactionsHandler())
	app.Delete("/transactions/category", DeleteCategoryHandler())
	app.Put("/transactions/:id", UpdateTransactionHandler())
	app.Delete("/transactions/:id", DeleteTransactionHandler())
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedTx(t *testing.T, tx models.Transaction) models.Transaction {
	t.Helper()
	require.NoError(t, database.DB.Create(&tx).Error)
	return tx
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestCreateTransaction(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/transactions", fiber.Map{
		"name":     "Coffee",
		"category": "Food",
		"cost":     3.5,
		"addedOn":  "2025-03-01",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body TransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Coffee", body.Name)
	assert.Equal(t, 3.5, body.Cost)
	assert.False(t, body.IsIncome)
}

func TestCreateTransactionMissingFields(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/transactions", fiber.Map{
		"name": "Coffee",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListTransactionsExcludesSoftDeleted(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	seedTx(t, models.Transaction{UserID: 1, Name: "Visible", Category: "Food", Cost: 5, AddedOn: day(2025, time.March, 1)})
	seedTx(t, models.Transaction{UserID: 1, Name: "Hidden", Category: "Food", Cost: 5, AddedOn: day(2025, time.March, 2), IsDeleted: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/transactions", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body ListTransactionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, "Visible", body.Transactions[0].Name)
}

func TestListTransactionsFilters(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	seedTx(t, models.Transaction{UserID: 1, Name: "Morning Coffee", Category: "Food", Cost: 3, AddedOn: day(2025, time.March, 1)})
	seedTx(t, models.Transaction{UserID: 1, Name: "Rent", Category: "Bills", Cost: 900, AddedOn: day(2025, time.March, 2)})
	seedTx(t, models.Transaction{UserID: 1, Name: "Salary", Category: "Salary", Cost: 3000, AddedOn: day(2025, time.March, 3), IsIncome: true})
	seedTx(t, models.Transaction{UserID: 2, Name: "Other user coffee", Category: "Food", Cost: 3, AddedOn: day(2025, time.March, 1)})

	get := func(target string) ListTransactionsResponse {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body ListTransactionsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body
	}

	assert.Len(t, get("/transactions").Transactions, 3)
	assert.Len(t, get("/transactions?search=coffee").Transactions, 1)
	assert.Len(t, get("/transactions?isIncome=true").Transactions, 1)
	assert.Len(t, get("/transactions?category=Bills").Transactions, 1)
	assert.Len(t, get("/transactions?startDate=2025-03-02&endDate=2025-03-03").Transactions, 2)
}

func TestListTransactionsPagination(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	for i := 0; i < 25; i++ {
		seedTx(t, models.Transaction{UserID: 1, Name: fmt.Sprintf("tx-%d", i), Category: "Food", Cost: 1, AddedOn: day(2025, time.March, 1).Add(time.Duration(i) * time.Hour)})
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/transactions?page=3&limit=10", nil), -1)
	require.NoError(t, err)

	var body ListTransactionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 5)
	assert.Equal(t, 3, body.TotalPages)
	assert.Equal(t, 3, body.CurrentPage)
}

func TestUpdateTransactionOwnership(t *testing.T) {
	setupDB(t)

	tx := seedTx(t, models.Transaction{UserID: 2, Name: "Theirs", Category: "Food", Cost: 5, AddedOn: day(2025, time.March, 1)})

	app := newApp(1)
	resp, err := app.Test(jsonRequest(http.MethodPut, fmt.Sprintf("/transactions/%d", tx.ID), fiber.Map{
		"name": "Mine now",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPut, "/transactions/99999", fiber.Map{
		"name": "Ghost",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTransactionPartial(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	tx := seedTx(t, models.Transaction{UserID: 1, Name: "Coffee", Category: "Food", Cost: 3, AddedOn: day(2025, time.March, 1)})

	resp, err := app.Test(jsonRequest(http.MethodPut, fmt.Sprintf("/transactions/%d", tx.ID), fiber.Map{
		"cost": 4.5,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body TransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 4.5, body.Cost)
	assert.Equal(t, "Coffee", body.Name)
	assert.Equal(t, "Food", body.Category)
}

func TestDeleteTransactionIsSoft(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	tx := seedTx(t, models.Transaction{UserID: 1, Name: "Coffee", Category: "Food", Cost: 3, AddedOn: day(2025, time.March, 1)})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/transactions/%d", tx.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Row still exists, flagged deleted
	var got models.Transaction
	require.NoError(t, database.DB.First(&got, tx.ID).Error)
	assert.True(t, got.IsDeleted)
}

func TestBulkDeleteAllOrNothing(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	mine := seedTx(t, models.Transaction{UserID: 1, Name: "Mine", Category: "Food", Cost: 1, AddedOn: day(2025, time.March, 1)})
	theirs := seedTx(t, models.Transaction{UserID: 2, Name: "Theirs", Category: "Food", Cost: 1, AddedOn: day(2025, time.March, 1)})

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/transactions/bulk", fiber.Map{
		"transactionIds": []uint{mine.ID, theirs.ID},
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Zero deletions happened
	var count int64
	database.DB.Model(&models.Transaction{}).Where("is_deleted = ?", true).Count(&count)
	assert.Zero(t, count)
}

func TestBulkDeleteSuccess(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	a := seedTx(t, models.Transaction{UserID: 1, Name: "A", Category: "Food", Cost: 1, AddedOn: day(2025, time.March, 1)})
	b := seedTx(t, models.Transaction{UserID: 1, Name: "B", Category: "Food", Cost: 1, AddedOn: day(2025, time.March, 2)})

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/transactions/bulk", fiber.Map{
		"transactionIds": []uint{a.ID, b.ID},
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	database.DB.Model(&models.Transaction{}).Where("is_deleted = ?", true).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestBulkDeleteEmptyIDs(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/transactions/bulk", fiber.Map{
		"transactionIds": []uint{},
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSummary(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	seedTx(t, models.Transaction{UserID: 1, Name: "Salary", Category: "Salary", Cost: 100, AddedOn: day(2025, time.March, 1), IsIncome: true})
	seedTx(t, models.Transaction{UserID: 1, Name: "Shop", Category: "Food", Cost: 40, AddedOn: day(2025, time.March, 2)})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/summary", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body SummaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 100.0, body.TotalIncome)
	assert.Equal(t, 40.0, body.TotalExpenses)
	assert.Equal(t, 60.0, body.Balance)
	require.Len(t, body.RecentTransactions, 2)
	assert.Equal(t, "Shop", body.RecentTransactions[0].Name)
}

func TestGetChartData(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	now := time.Now()
	seedTx(t, models.Transaction{UserID: 1, Name: "Shop", Category: "Groceries", Cost: 25, AddedOn: now.AddDate(0, 0, -2)})
	seedTx(t, models.Transaction{UserID: 1, Name: "Pay", Category: "Salary", Cost: 100, AddedOn: now.AddDate(0, 0, -1), IsIncome: true})
	require.NoError(t, database.DB.Create(&models.RecurringTransaction{
		UserID: 1, Name: "Netflix", Category: "Subscriptions", Amount: 10,
		Frequency: models.FrequencyMonthly, StartDate: now.AddDate(0, -1, 0), NextDueDate: now.AddDate(0, 0, 5),
	}).Error)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/charts", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChartDataResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.ExpensesByCategory, 1)
	assert.Equal(t, "Groceries", body.ExpensesByCategory[0].Name)
	assert.Equal(t, 25.0, body.ExpensesByCategory[0].Total)
	assert.Len(t, body.ExpensesOverTime, 1)
	assert.Len(t, body.IncomeOverTime, 1)
	require.Len(t, body.UpcomingRecurring, 1)
	assert.Equal(t, "Netflix", body.UpcomingRecurring[0].Name)
}

func TestExpenseCategoriesMergedAndSorted(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	seedTx(t, models.Transaction{UserID: 1, Name: "Vet", Category: "Pets", Cost: 50, AddedOn: day(2025, time.March, 1)})
	// Deleted rows don't contribute categories
	seedTx(t, models.Transaction{UserID: 1, Name: "Old", Category: "Archived", Cost: 5, AddedOn: day(2025, time.March, 1), IsDeleted: true})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/categories", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Contains(t, categories, "Pets")
	assert.Contains(t, categories, "Groceries") // default
	assert.NotContains(t, categories, "Archived")
	assert.IsIncreasing(t, categories)
}

func TestIncomeCategoriesIncludeDefaults(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/categories/income", nil), -1)
	require.NoError(t, err)

	var categories []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Contains(t, categories, "Salary")
	assert.Contains(t, categories, "Refunds")
}

func TestDeleteCategoryReassignsTransactions(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	tx := seedTx(t, models.Transaction{UserID: 1, Name: "Vet", Category: "Pets", Cost: 50, AddedOn: day(2025, time.March, 1)})

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/transactions/category", fiber.Map{
		"categoryToDelete": "Pets",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Transaction
	require.NoError(t, database.DB.First(&got, tx.ID).Error)
	assert.Equal(t, "Miscellaneous", got.Category)
}

func TestDeleteCategoryRequiresName(t *testing.T) {
	setupDB(t)
	app := newApp(1)

	resp, err := app.Test(jsonRequest(http.MethodDelete, "/transactions/category", fiber.Map{}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

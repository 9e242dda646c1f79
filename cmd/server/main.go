package main

import (
	"context"
	"log"
	"strings"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/budget"
	"paisable-backend/internal/config"
	"paisable-backend/internal/database"
	"paisable-backend/internal/receipt"
	"paisable-backend/internal/recurring"
	"paisable-backend/internal/transaction"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	// Process-wide Gemini client; receipt uploads fall back to default
	// fields when it is not configured.
	var extractor receipt.Extractor
	if cfg.GeminiAPIKey != "" {
		g, err := receipt.NewGeminiExtractor(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Could not create Gemini client: %v", err)
		}
		extractor = g
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"message": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Server Error",
				"error":   err.Error(),
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Liveness ping for the external uptime timer
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Transactions
	protected.Post("/transactions", transaction.CreateTransactionHandler())
	protected.Get("/transactions", transaction.ListTransactionsHandler())
	protected.Get("/transactions/summary", transaction.GetSummaryHandler())
	protected.Get("/transactions/charts", transaction.GetChartDataHandler())
	protected.Get("/transactions/categories", transaction.GetExpenseCategoriesHandler())
	protected.Get("/transactions/categories/income", transaction.GetIncomeCategoriesHandler())
	protected.Get("/transactions/export", transaction.ExportTransactionsHandler())
	protected.Get("/transactions/export/xlsx", transaction.ExportTransactionsXLSXHandler())
	protected.Delete("/transactions/bulk", transaction.BulkDeleteTransactionsHandler())
	protected.Delete("/transactions/category", transaction.DeleteCategoryHandler())
	protected.Put("/transactions/:id", transaction.UpdateTransactionHandler())
	protected.Delete("/transactions/:id", transaction.DeleteTransactionHandler())

	// Budgets
	protected.Post("/budgets", budget.CreateBudgetHandler())
	protected.Get("/budgets", budget.ListBudgetsHandler())
	protected.Put("/budgets/:id", budget.UpdateBudgetHandler())
	protected.Delete("/budgets/:id", budget.DeleteBudgetHandler())

	// Recurring transactions
	protected.Post("/recurring/create", recurring.CreateRecurringHandler())
	protected.Get("/recurring", recurring.ListRecurringHandler())
	protected.Put("/recurring/:id", recurring.UpdateRecurringHandler())
	protected.Delete("/recurring/:id", recurring.DeleteRecurringHandler())

	// Receipts
	protected.Post("/receipts/upload", receipt.UploadReceiptHandler(cfg, extractor))

	log.Println("Server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}

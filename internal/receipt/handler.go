package receipt

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/config"
	"paisable-backend/internal/database"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReceiptResponse struct {
	ID       uint    `json:"id"`
	FileURL  string  `json:"fileUrl"`
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// POST /api/receipts/upload (multipart, field "file")
//
// The Receipt is the source of truth here: extraction failures fall back
// to defaults, and a failure to create the matching expense transaction is
// logged and swallowed so the upload itself still succeeds.
func UploadReceiptHandler(cfg *config.Config, extractor Extractor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Please upload a file")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not read uploaded file")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not read uploaded file")
		}

		if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store uploaded file")
		}
		storedName := uuid.New().String() + filepath.Ext(fileHeader.Filename)
		if err := os.WriteFile(filepath.Join(cfg.UploadPath, storedName), data, 0o644); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store uploaded file")
		}
		fileURL := "/uploads/" + storedName

		fields := &ExtractedFields{}
		if extractor != nil {
			extracted, err := extractor.Extract(c.Context(), data, fileHeader.Header.Get("Content-Type"))
			if err != nil {
				log.Println("[WARN] receipt extraction failed, using defaults:", err)
			} else {
				fields = extracted
			}
		}

		merchant := fields.Merchant
		if merchant == "" {
			merchant = "Unknown Merchant"
		}
		category := fields.Category
		if category == "" {
			category = "Miscellaneous"
		}
		date := time.Now()
		if fields.Date != "" {
			if parsed, err := time.Parse("2006-01-02", fields.Date); err == nil {
				date = parsed
			}
		}

		rec := models.Receipt{
			UserID:   userID,
			FileURL:  fileURL,
			Merchant: merchant,
			Amount:   fields.Amount,
			Category: category,
			Date:     date,
		}

		if err := database.DB.Create(&rec).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to process receipt")
		}

		tx := models.Transaction{
			UserID:   userID,
			Name:     merchant,
			Category: category,
			Cost:     fields.Amount,
			AddedOn:  date,
			IsIncome: false,
			Note:     "Added from receipt: " + fileURL,
		}
		if err := database.DB.Create(&tx).Error; err != nil {
			// Best effort: the receipt is already saved, don't roll it back.
			log.Println("[WARN] could not create transaction from receipt:", err)
		}

		return c.Status(fiber.StatusCreated).JSON(ReceiptResponse{
			ID:       rec.ID,
			FileURL:  rec.FileURL,
			Merchant: rec.Merchant,
			Amount:   rec.Amount,
			Category: rec.Category,
			Date:     rec.Date.Format("2006-01-02"),
		})
	}
}

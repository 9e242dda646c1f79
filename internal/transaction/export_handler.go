package transaction

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"paisable-backend/internal/auth"
	"paisable-backend/internal/database"
	"paisable-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"id", "user", "name", "category", "cost", "addedOn", "isIncome"}

func exportRows(userID uint) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := database.DB.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("added_on desc").
		Find(&rows).Error
	return rows, err
}

func exportRecord(tx *models.Transaction) []string {
	return []string{
		strconv.FormatUint(uint64(tx.ID), 10),
		strconv.FormatUint(uint64(tx.UserID), 10),
		tx.Name,
		tx.Category,
		strconv.FormatFloat(tx.Cost, 'f', -1, 64),
		tx.AddedOn.Format(time.RFC3339),
		strconv.FormatBool(tx.IsIncome),
	}
}

// GET /api/transactions/export
func ExportTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		rows, err := exportRows(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transactions")
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(exportHeader); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write CSV")
		}
		for i := range rows {
			if err := w.Write(exportRecord(&rows[i])); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not write CSV")
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write CSV")
		}

		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="paisable_transactions.csv"`)
		return c.Send(buf.Bytes())
	}
}

// GET /api/transactions/export/xlsx
func ExportTransactionsXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		rows, err := exportRows(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load transactions")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		header := make([]interface{}, len(exportHeader))
		for i, h := range exportHeader {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build spreadsheet")
		}

		for i := range rows {
			tx := &rows[i]
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			row := []interface{}{
				tx.ID,
				tx.UserID,
				tx.Name,
				tx.Category,
				tx.Cost,
				tx.AddedOn.Format(time.RFC3339),
				tx.IsIncome,
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build spreadsheet")
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build spreadsheet")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="paisable_transactions.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

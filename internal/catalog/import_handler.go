package catalog

import (
	"errors"
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"` // rows that could not be parsed
}

// POST /api/materials/import
// Imports a supplier price list (.xlsx, columns: SKU | name | unit price).
// Known SKUs get their catalog price refreshed, unknown SKUs are created.
// Budgets already written keep their frozen prices.
func ImportMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload failed: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not open uploaded file")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read excel file: "+err.Error())
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "excel file has no sheets")
		}
		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read sheet: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "excel file is empty")
		}

		// Header row is optional; detect it by a non-numeric price cell.
		start := 0
		if _, _, _, ok := parsePriceRow(rows[0]); !ok {
			start = 1
		}

		result := ImportResult{Skipped: make([]string, 0)}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for i := start; i < len(rows); i++ {
				sku, name, price, ok := parsePriceRow(rows[i])
				if !ok {
					if len(rows[i]) > 0 {
						result.Skipped = append(result.Skipped, strings.Join(rows[i], " | "))
					}
					continue
				}

				var m models.Material
				findErr := tx.Where("sku = ?", sku).First(&m).Error
				switch {
				case findErr == nil:
					m.UnitPrice = price
					if name != "" {
						m.Name = name
					}
					if err := tx.Save(&m).Error; err != nil {
						return err
					}
					result.Updated++
				case errors.Is(findErr, gorm.ErrRecordNotFound):
					m = models.Material{Name: name, SKU: sku, UnitPrice: price}
					if m.Name == "" {
						m.Name = sku
					}
					if err := tx.Create(&m).Error; err != nil {
						return err
					}
					result.Created++
				default:
					return findErr
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "price list import failed")
		}

		return c.JSON(result)
	}
}

// parsePriceRow reads one "SKU | name | price" row. Rows with a missing
// SKU or an unparsable price are reported back to the caller, not imported.
func parsePriceRow(row []string) (sku, name string, price decimal.Decimal, ok bool) {
	if len(row) < 3 {
		return "", "", decimal.Zero, false
	}
	sku = strings.ToUpper(strings.TrimSpace(row[0]))
	name = strings.TrimSpace(row[1])
	if sku == "" {
		return "", "", decimal.Zero, false
	}

	raw := strings.TrimSpace(row[2])
	raw = strings.ReplaceAll(raw, ",", ".")
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return "", "", decimal.Zero, false
	}
	return sku, name, price, true
}

package catalog

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type MaterialResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	UnitPrice     string `json:"unit_price"`
	StockQuantity int    `json:"stock_quantity"`
	CreatedAt     string `json:"created_at"`
}

type CreateMaterialRequest struct {
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	StockQuantity int              `json:"stock_quantity"`
}

type UpdateMaterialRequest struct {
	Name          *string          `json:"name"`
	SKU           *string          `json:"sku"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	StockQuantity *int             `json:"stock_quantity"`
}

func toMaterialResponse(m models.Material) MaterialResponse {
	return MaterialResponse{
		ID:            m.ID,
		Name:          m.Name,
		SKU:           m.SKU,
		UnitPrice:     m.UnitPrice.StringFixed(2),
		StockQuantity: m.StockQuantity,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/materials
func CreateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)
		if body.Name == "" || body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and sku are required")
		}
		if body.UnitPrice == nil || body.UnitPrice.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "unit_price is required and cannot be negative")
		}

		var existing models.Material
		if err := database.DB.Where("sku = ?", body.SKU).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "a material with this sku already exists")
		}

		m := models.Material{
			Name:          body.Name,
			SKU:           body.SKU,
			UnitPrice:     *body.UnitPrice,
			StockQuantity: body.StockQuantity,
		}
		if err := database.DB.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create material")
		}
		return c.Status(fiber.StatusCreated).JSON(toMaterialResponse(m))
	}
}

// GET /api/materials
func ListMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := database.DB.Order("id desc").Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list materials")
		}
		res := make([]MaterialResponse, 0, len(materials))
		for _, m := range materials {
			res = append(res, toMaterialResponse(m))
		}
		return c.JSON(res)
	}
}

// GET /api/materials/:id
func GetMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := database.DB.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "material not found")
		}
		return c.JSON(toMaterialResponse(m))
	}
}

// PUT /api/materials/:id
func UpdateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := database.DB.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "material not found")
		}

		var body UpdateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			m.Name = name
		}
		if body.SKU != nil {
			sku := strings.TrimSpace(*body.SKU)
			if sku == "" {
				return fiber.NewError(fiber.StatusBadRequest, "sku cannot be empty")
			}
			m.SKU = sku
		}
		if body.UnitPrice != nil {
			if body.UnitPrice.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "unit_price cannot be negative")
			}
			// Only the catalog default changes; prices already frozen into
			// budget lines stay as they were written.
			m.UnitPrice = *body.UnitPrice
		}
		if body.StockQuantity != nil {
			m.StockQuantity = *body.StockQuantity
		}

		if err := database.DB.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update material")
		}
		return c.JSON(toMaterialResponse(m))
	}
}

// DELETE /api/materials/:id
func DeleteMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.Material
		if err := database.DB.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "material not found")
		}

		var lines int64
		database.DB.Model(&models.BudgetMaterialLine{}).Where("material_id = ?", m.ID).Count(&lines)
		if lines > 0 {
			return fiber.NewError(fiber.StatusConflict, "material is referenced by budget lines and cannot be deleted")
		}

		if err := database.DB.Delete(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete material")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

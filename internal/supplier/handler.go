package supplier

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}

type CreateSupplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"` // "material" | "service"
}

type UpdateSupplierRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Type  *string `json:"type"`
}

func toResponse(s models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Type:      string(s.Type),
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseType(raw string) (models.SupplierType, bool) {
	switch models.SupplierType(strings.ToLower(strings.TrimSpace(raw))) {
	case models.SupplierTypeMaterial:
		return models.SupplierTypeMaterial, true
	case models.SupplierTypeService:
		return models.SupplierTypeService, true
	}
	return "", false
}

// POST /api/suppliers
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		supplierType := models.SupplierTypeMaterial
		if body.Type != "" {
			parsed, ok := parseType(body.Type)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "type must be material or service")
			}
			supplierType = parsed
		}

		var existing models.Supplier
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "a supplier with this name already exists")
		}

		s := models.Supplier{
			Name:  body.Name,
			Email: strings.TrimSpace(body.Email),
			Phone: strings.TrimSpace(body.Phone),
			Type:  supplierType,
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create supplier")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(s))
	}
}

// GET /api/suppliers?type=material
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Supplier{})
		if raw := c.Query("type"); raw != "" {
			parsed, ok := parseType(raw)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "type must be material or service")
			}
			dbq = dbq.Where("type = ?", parsed)
		}

		var suppliers []models.Supplier
		if err := dbq.Order("id desc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list suppliers")
		}
		res := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			res = append(res, toResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/suppliers/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		return c.JSON(toResponse(s))
	}
}

// PUT /api/suppliers/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			s.Name = name
		}
		if body.Email != nil {
			s.Email = strings.TrimSpace(*body.Email)
		}
		if body.Phone != nil {
			s.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Type != nil {
			parsed, ok := parseType(*body.Type)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "type must be material or service")
			}
			s.Type = parsed
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update supplier")
		}
		return c.JSON(toResponse(s))
	}
}

// DELETE /api/suppliers/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete supplier")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

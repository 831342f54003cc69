package catalog

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HourlyRate  string `json:"hourly_rate"`
	CreatedAt   string `json:"created_at"`
}

type CreateServiceRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
}

type UpdateServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
}

func toServiceResponse(s models.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		HourlyRate:  s.HourlyRate.StringFixed(2),
		CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/services
func CreateServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateServiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.HourlyRate == nil || body.HourlyRate.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "hourly_rate is required and cannot be negative")
		}

		s := models.Service{
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
			HourlyRate:  *body.HourlyRate,
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create service")
		}
		return c.Status(fiber.StatusCreated).JSON(toServiceResponse(s))
	}
}

// GET /api/services
func ListServicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var services []models.Service
		if err := database.DB.Order("id desc").Find(&services).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list services")
		}
		res := make([]ServiceResponse, 0, len(services))
		for _, s := range services {
			res = append(res, toServiceResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/services/:id
func GetServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Service
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "service not found")
		}
		return c.JSON(toServiceResponse(s))
	}
}

// PUT /api/services/:id
func UpdateServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Service
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "service not found")
		}

		var body UpdateServiceRequest
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
		if body.Description != nil {
			s.Description = strings.TrimSpace(*body.Description)
		}
		if body.HourlyRate != nil {
			if body.HourlyRate.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "hourly_rate cannot be negative")
			}
			s.HourlyRate = *body.HourlyRate
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update service")
		}
		return c.JSON(toServiceResponse(s))
	}
}

// DELETE /api/services/:id
func DeleteServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Service
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "service not found")
		}

		var lines int64
		database.DB.Model(&models.BudgetServiceLine{}).Where("service_id = ?", s.ID).Count(&lines)
		if lines > 0 {
			return fiber.NewError(fiber.StatusConflict, "service is referenced by budget lines and cannot be deleted")
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete service")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

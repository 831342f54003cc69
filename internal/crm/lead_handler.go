package crm

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeadResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type LeadRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

func toLeadResponse(l models.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseStatus(raw string) (models.LeadStatus, bool) {
	switch models.LeadStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case models.LeadStatusNew:
		return models.LeadStatusNew, true
	case models.LeadStatusContacted:
		return models.LeadStatusContacted, true
	case models.LeadStatusQualified:
		return models.LeadStatusQualified, true
	case models.LeadStatusWon:
		return models.LeadStatusWon, true
	case models.LeadStatusLost:
		return models.LeadStatusLost, true
	}
	return "", false
}

// POST /api/leads
func CreateLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LeadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		status := models.LeadStatusNew
		if body.Status != "" {
			parsed, ok := parseStatus(body.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "status must be one of new, contacted, qualified, won, lost")
			}
			status = parsed
		}

		l := models.Lead{
			Name:   body.Name,
			Email:  strings.TrimSpace(body.Email),
			Phone:  strings.TrimSpace(body.Phone),
			Status: status,
		}
		if err := database.DB.Create(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create lead")
		}
		return c.Status(fiber.StatusCreated).JSON(toLeadResponse(l))
	}
}

// GET /api/leads
func ListLeadsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var leads []models.Lead
		if err := database.DB.Order("id desc").Find(&leads).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list leads")
		}
		res := make([]LeadResponse, 0, len(leads))
		for _, l := range leads {
			res = append(res, toLeadResponse(l))
		}
		return c.JSON(res)
	}
}

// GET /api/leads/:id
func GetLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Lead
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}
		return c.JSON(toLeadResponse(l))
	}
}

// PUT /api/leads/:id
func UpdateLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Lead
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}

		var body LeadRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		status, ok := parseStatus(body.Status)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "status must be one of new, contacted, qualified, won, lost")
		}

		l.Name = body.Name
		l.Email = strings.TrimSpace(body.Email)
		l.Phone = strings.TrimSpace(body.Phone)
		l.Status = status

		if err := database.DB.Save(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update lead")
		}
		return c.JSON(toLeadResponse(l))
	}
}

// DELETE /api/leads/:id
// A lead owns its activities; both go in one transaction.
func DeleteLeadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var l models.Lead
		if err := database.DB.First(&l, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.LeadActivity{}, "lead_id = ?", l.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&l).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete lead")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

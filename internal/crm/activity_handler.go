package crm

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActivityResponse struct {
	ID        uint   `json:"id"`
	LeadID    uint   `json:"lead_id"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

type CreateActivityRequest struct {
	LeadID uint   `json:"lead_id"`
	Type   string `json:"type"` // call, meeting, email
	Notes  string `json:"notes"`
}

func toActivityResponse(a models.LeadActivity) ActivityResponse {
	return ActivityResponse{
		ID:        a.ID,
		LeadID:    a.LeadID,
		Type:      string(a.Type),
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseActivityType(raw string) (models.LeadActivityType, bool) {
	switch models.LeadActivityType(strings.ToLower(strings.TrimSpace(raw))) {
	case models.LeadActivityCall:
		return models.LeadActivityCall, true
	case models.LeadActivityMeeting:
		return models.LeadActivityMeeting, true
	case models.LeadActivityEmail:
		return models.LeadActivityEmail, true
	}
	return "", false
}

// POST /api/activities
func CreateActivityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateActivityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		activityType, ok := parseActivityType(body.Type)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "type must be one of call, meeting, email")
		}

		var lead models.Lead
		if err := database.DB.First(&lead, "id = ?", body.LeadID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}

		a := models.LeadActivity{
			LeadID: lead.ID,
			Type:   activityType,
			Notes:  strings.TrimSpace(body.Notes),
		}
		if err := database.DB.Create(&a).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create activity")
		}
		return c.Status(fiber.StatusCreated).JSON(toActivityResponse(a))
	}
}

// GET /api/activities/:leadId
func ListActivitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var activities []models.LeadActivity
		if err := database.DB.
			Where("lead_id = ?", c.Params("leadId")).
			Order("id desc").
			Find(&activities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list activities")
		}
		res := make([]ActivityResponse, 0, len(activities))
		for _, a := range activities {
			res = append(res, toActivityResponse(a))
		}
		return c.JSON(res)
	}
}

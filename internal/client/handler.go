package client

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func toResponse(c models.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/clients
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Email = strings.TrimSpace(body.Email)
		if body.Name == "" || body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and email are required")
		}

		var existing models.Client
		if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "a client with this email already exists")
		}

		client := models.Client{
			Name:  body.Name,
			Email: body.Email,
			Phone: strings.TrimSpace(body.Phone),
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create client")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(client))
	}
}

// GET /api/clients
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clients []models.Client
		if err := database.DB.Order("id desc").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list clients")
		}

		res := make([]ClientResponse, 0, len(clients))
		for _, cl := range clients {
			res = append(res, toResponse(cl))
		}
		return c.JSON(res)
	}
}

// GET /api/clients/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return c.JSON(toResponse(client))
	}
}

// PUT /api/clients/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			client.Name = name
		}
		if body.Email != nil {
			email := strings.TrimSpace(*body.Email)
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "email cannot be empty")
			}
			client.Email = email
		}
		if body.Phone != nil {
			client.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update client")
		}
		return c.JSON(toResponse(client))
	}
}

// DELETE /api/clients/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}

		// Budgets keep a client reference; refuse to orphan them.
		var budgets int64
		database.DB.Model(&models.Budget{}).Where("client_id = ?", client.ID).Count(&budgets)
		if budgets > 0 {
			return fiber.NewError(fiber.StatusConflict, "client has budgets and cannot be deleted")
		}

		if err := database.DB.Delete(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete client")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

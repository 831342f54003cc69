package budget

import (
	"errors"
	"strconv"

	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type MaterialLineResponse struct {
	ID         uint   `json:"id"`
	MaterialID uint   `json:"material_id"`
	Material   string `json:"material"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	Subtotal   string `json:"subtotal"`
}

type ServiceLineResponse struct {
	ID        uint   `json:"id"`
	ServiceID uint   `json:"service_id"`
	Service   string `json:"service"`
	Hours     string `json:"hours"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type BudgetResponse struct {
	ID        uint                   `json:"id"`
	Number    string                 `json:"number"`
	Client    ClientRef              `json:"client"`
	Materials []MaterialLineResponse `json:"materials"`
	Services  []ServiceLineResponse  `json:"services"`
	Total     string                 `json:"total"`
	CreatedAt string                 `json:"created_at"`
}

func toResponse(b *models.Budget) BudgetResponse {
	materials := make([]MaterialLineResponse, 0, len(b.MaterialLines))
	for _, l := range b.MaterialLines {
		materials = append(materials, MaterialLineResponse{
			ID:         l.ID,
			MaterialID: l.MaterialID,
			Material:   l.Material.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice.StringFixed(2),
			Subtotal:   materialSubtotal(l).StringFixed(2),
		})
	}
	services := make([]ServiceLineResponse, 0, len(b.ServiceLines))
	for _, l := range b.ServiceLines {
		services = append(services, ServiceLineResponse{
			ID:        l.ID,
			ServiceID: l.ServiceID,
			Service:   l.Service.Name,
			Hours:     l.Hours.String(),
			UnitPrice: l.UnitPrice.StringFixed(2),
			Subtotal:  serviceSubtotal(l).StringFixed(2),
		})
	}
	return BudgetResponse{
		ID:        b.ID,
		Number:    b.Number,
		Client:    ClientRef{ID: b.Client.ID, Name: b.Client.Name},
		Materials: materials,
		Services:  services,
		Total:     b.Total.StringFixed(2),
		CreatedAt: b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// httpError maps the engine's error kinds onto HTTP statuses. Unknown
// errors stay 500 with a neutral message.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrClientNotFound),
		errors.Is(err, ErrReferenceNotFound),
		errors.Is(err, ErrBudgetNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateNumber):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "budget operation failed")
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid budget id")
	}
	return uint(id), nil
}

// POST /api/budgets
func CreateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Input
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		b, err := svc.Create(c.Context(), body)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(b))
	}
}

// PUT /api/budgets/:id
func UpdateHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var body Input
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		b, err := svc.Update(c.Context(), id, body)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toResponse(b))
	}
}

// DELETE /api/budgets/:id
func DeleteHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

// GET /api/budgets/:id
func GetHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		b, err := svc.Get(c.Context(), id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toResponse(b))
	}
}

// GET /api/budgets
func ListHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		budgets, err := svc.List(c.Context())
		if err != nil {
			return httpError(err)
		}
		res := make([]BudgetResponse, 0, len(budgets))
		for i := range budgets {
			res = append(res, toResponse(&budgets[i]))
		}
		return c.JSON(res)
	}
}

package person

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LegalEntityResponse struct {
	ID             uint   `json:"id"`
	CNPJ           string `json:"cnpj"`
	LegalName      string `json:"legal_name"`
	TradeName      string `json:"trade_name"`
	Address        string `json:"address"`
	Complement     string `json:"complement"`
	District       string `json:"district"`
	ZipCode        string `json:"zip_code"`
	City           string `json:"city"`
	State          string `json:"state"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Representative string `json:"representative"`
	Mobile         string `json:"mobile"`
	Whatsapp       string `json:"whatsapp"`
	CreatedAt      string `json:"created_at"`
}

type LegalEntityRequest struct {
	CNPJ           string `json:"cnpj"`
	LegalName      string `json:"legal_name"`
	TradeName      string `json:"trade_name"`
	Address        string `json:"address"`
	Complement     string `json:"complement"`
	District       string `json:"district"`
	ZipCode        string `json:"zip_code"`
	City           string `json:"city"`
	State          string `json:"state"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Representative string `json:"representative"`
	Mobile         string `json:"mobile"`
	Whatsapp       string `json:"whatsapp"`
}

func toLegalResponse(e models.LegalEntity) LegalEntityResponse {
	return LegalEntityResponse{
		ID:             e.ID,
		CNPJ:           e.CNPJ,
		LegalName:      e.LegalName,
		TradeName:      e.TradeName,
		Address:        e.Address,
		Complement:     e.Complement,
		District:       e.District,
		ZipCode:        e.ZipCode,
		City:           e.City,
		State:          e.State,
		Phone:          e.Phone,
		Email:          e.Email,
		Representative: e.Representative,
		Mobile:         e.Mobile,
		Whatsapp:       e.Whatsapp,
		CreatedAt:      e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (r *LegalEntityRequest) validate() error {
	r.CNPJ = strings.TrimSpace(r.CNPJ)
	r.LegalName = strings.TrimSpace(r.LegalName)
	r.Address = strings.TrimSpace(r.Address)
	r.District = strings.TrimSpace(r.District)
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Email = strings.TrimSpace(r.Email)

	if r.CNPJ == "" || r.LegalName == "" || r.Address == "" || r.District == "" ||
		r.ZipCode == "" || r.City == "" || r.State == "" || r.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "cnpj, legal_name, address, district, zip_code, city, state and email are required")
	}
	if len(r.State) != 2 {
		return fiber.NewError(fiber.StatusBadRequest, "state must be a two-letter code")
	}
	return nil
}

func (r *LegalEntityRequest) apply(e *models.LegalEntity) {
	e.CNPJ = r.CNPJ
	e.LegalName = r.LegalName
	e.TradeName = strings.TrimSpace(r.TradeName)
	e.Address = r.Address
	e.Complement = strings.TrimSpace(r.Complement)
	e.District = r.District
	e.ZipCode = r.ZipCode
	e.City = r.City
	e.State = r.State
	e.Phone = strings.TrimSpace(r.Phone)
	e.Email = r.Email
	e.Representative = strings.TrimSpace(r.Representative)
	e.Mobile = strings.TrimSpace(r.Mobile)
	e.Whatsapp = strings.TrimSpace(r.Whatsapp)
}

// POST /api/legal-entities
func CreateLegalEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LegalEntityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		var existing models.LegalEntity
		if err := database.DB.Where("cnpj = ?", body.CNPJ).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "an entity with this cnpj already exists")
		}

		var e models.LegalEntity
		body.apply(&e)
		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create entity")
		}
		return c.Status(fiber.StatusCreated).JSON(toLegalResponse(e))
	}
}

// GET /api/legal-entities
func ListLegalEntitiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entities []models.LegalEntity
		if err := database.DB.Order("id desc").Find(&entities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list entities")
		}
		res := make([]LegalEntityResponse, 0, len(entities))
		for _, e := range entities {
			res = append(res, toLegalResponse(e))
		}
		return c.JSON(res)
	}
}

// GET /api/legal-entities/:id
func GetLegalEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e models.LegalEntity
		if err := database.DB.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "entity not found")
		}
		return c.JSON(toLegalResponse(e))
	}
}

// PUT /api/legal-entities/:id
func UpdateLegalEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e models.LegalEntity
		if err := database.DB.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "entity not found")
		}

		var body LegalEntityRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		body.apply(&e)
		if err := database.DB.Save(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update entity")
		}
		return c.JSON(toLegalResponse(e))
	}
}

// DELETE /api/legal-entities/:id
func DeleteLegalEntityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e models.LegalEntity
		if err := database.DB.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "entity not found")
		}
		if err := database.DB.Delete(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete entity")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

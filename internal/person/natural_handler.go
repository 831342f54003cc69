package person

import (
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NaturalPersonResponse struct {
	ID         uint   `json:"id"`
	CPF        string `json:"cpf"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	ZipCode    string `json:"zip_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	Mobile     string `json:"mobile"`
	Whatsapp   string `json:"whatsapp"`
	Email      string `json:"email"`
	CreatedAt  string `json:"created_at"`
}

type NaturalPersonRequest struct {
	CPF        string `json:"cpf"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	ZipCode    string `json:"zip_code"`
	City       string `json:"city"`
	State      string `json:"state"`
	Mobile     string `json:"mobile"`
	Whatsapp   string `json:"whatsapp"`
	Email      string `json:"email"`
}

func toNaturalResponse(p models.NaturalPerson) NaturalPersonResponse {
	return NaturalPersonResponse{
		ID:         p.ID,
		CPF:        p.CPF,
		Name:       p.Name,
		Address:    p.Address,
		Complement: p.Complement,
		District:   p.District,
		ZipCode:    p.ZipCode,
		City:       p.City,
		State:      p.State,
		Mobile:     p.Mobile,
		Whatsapp:   p.Whatsapp,
		Email:      p.Email,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (r *NaturalPersonRequest) validate() error {
	r.CPF = strings.TrimSpace(r.CPF)
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.District = strings.TrimSpace(r.District)
	r.ZipCode = strings.TrimSpace(r.ZipCode)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.Email = strings.TrimSpace(r.Email)

	if r.CPF == "" || r.Name == "" || r.Address == "" || r.District == "" ||
		r.ZipCode == "" || r.City == "" || r.State == "" || r.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "cpf, name, address, district, zip_code, city, state and email are required")
	}
	if len(r.State) != 2 {
		return fiber.NewError(fiber.StatusBadRequest, "state must be a two-letter code")
	}
	return nil
}

func (r *NaturalPersonRequest) apply(p *models.NaturalPerson) {
	p.CPF = r.CPF
	p.Name = r.Name
	p.Address = r.Address
	p.Complement = strings.TrimSpace(r.Complement)
	p.District = r.District
	p.ZipCode = r.ZipCode
	p.City = r.City
	p.State = r.State
	p.Mobile = strings.TrimSpace(r.Mobile)
	p.Whatsapp = strings.TrimSpace(r.Whatsapp)
	p.Email = r.Email
}

// POST /api/natural-persons
func CreateNaturalPersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NaturalPersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		var existing models.NaturalPerson
		if err := database.DB.Where("cpf = ?", body.CPF).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, "a person with this cpf already exists")
		}

		var p models.NaturalPerson
		body.apply(&p)
		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create person")
		}
		return c.Status(fiber.StatusCreated).JSON(toNaturalResponse(p))
	}
}

// GET /api/natural-persons
func ListNaturalPersonsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var persons []models.NaturalPerson
		if err := database.DB.Order("id desc").Find(&persons).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list persons")
		}
		res := make([]NaturalPersonResponse, 0, len(persons))
		for _, p := range persons {
			res = append(res, toNaturalResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/natural-persons/:id
func GetNaturalPersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.NaturalPerson
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "person not found")
		}
		return c.JSON(toNaturalResponse(p))
	}
}

// PUT /api/natural-persons/:id
func UpdateNaturalPersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.NaturalPerson
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "person not found")
		}

		var body NaturalPersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		body.apply(&p)
		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update person")
		}
		return c.JSON(toNaturalResponse(p))
	}
}

// DELETE /api/natural-persons/:id
func DeleteNaturalPersonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.NaturalPerson
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "person not found")
		}
		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete person")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

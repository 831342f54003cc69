package notes

import (
	"encoding/json"
	"strconv"
	"strings"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NoteResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	ClientID  *uint    `json:"client_id"`
	CreatedAt string   `json:"created_at"`
}

type NoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	ClientID *uint    `json:"client_id"`
}

func toResponse(n models.Note) NoteResponse {
	tags := []string{}
	if len(n.Tags) > 0 {
		_ = json.Unmarshal(n.Tags, &tags)
	}
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		ClientID:  n.ClientID,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func encodeTags(tags []string) ([]byte, error) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return json.Marshal(cleaned)
}

// filterFromQuery builds the note list query. Filters: client_id, and tags
// as a comma separated list where every requested tag must be present.
func filterFromQuery(c *fiber.Ctx) ([]models.Note, error) {
	var notes []models.Note
	dbq := database.DB.Model(&models.Note{})

	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "client_id is not a number")
		}
		dbq = dbq.Where("client_id = ?", uint(id))
	}

	if err := dbq.Order("created_at desc").Find(&notes).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not list notes")
	}

	rawTags := strings.TrimSpace(c.Query("tags"))
	if rawTags == "" {
		return notes, nil
	}
	wanted := make([]string, 0)
	for _, t := range strings.Split(rawTags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			wanted = append(wanted, t)
		}
	}

	// Tag matching happens here rather than in SQL so it behaves the same
	// on every database the JSON column lands on.
	filtered := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		var tags []string
		if len(n.Tags) > 0 {
			_ = json.Unmarshal(n.Tags, &tags)
		}
		if containsAll(tags, wanted) {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

func containsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, t := range have {
		set[t] = struct{}{}
	}
	for _, t := range want {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// POST /api/notes
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title is required")
		}

		tags, err := encodeTags(body.Tags)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid tags")
		}

		n := models.Note{
			Title:    body.Title,
			Content:  body.Content,
			Tags:     tags,
			ClientID: body.ClientID,
		}
		if err := database.DB.Create(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create note")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(n))
	}
}

// GET /api/notes?client_id=...&tags=a,b
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := filterFromQuery(c)
		if err != nil {
			return err
		}
		res := make([]NoteResponse, 0, len(notes))
		for _, n := range notes {
			res = append(res, toResponse(n))
		}
		return c.JSON(res)
	}
}

// GET /api/notes/count
func CountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := filterFromQuery(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"count": len(notes)})
	}
}

// GET /api/notes/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n models.Note
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "note not found")
		}
		return c.JSON(toResponse(n))
	}
}

// PUT /api/notes/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n models.Note
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "note not found")
		}

		var body NoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if title := strings.TrimSpace(body.Title); title != "" {
			n.Title = title
		}
		n.Content = body.Content
		if body.Tags != nil {
			tags, err := encodeTags(body.Tags)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid tags")
			}
			n.Tags = tags
		}
		if body.ClientID != nil {
			n.ClientID = body.ClientID
		}

		if err := database.DB.Save(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update note")
		}
		return c.JSON(toResponse(n))
	}
}

// DELETE /api/notes/:id
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n models.Note
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "note not found")
		}
		if err := database.DB.Delete(&n).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete note")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}

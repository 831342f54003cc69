package crm

import (
	"strconv"
	"time"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	Activities int64            `json:"activities"`
	From       string           `json:"from,omitempty"`
	To         string           `json:"to,omitempty"`
}

// GET /api/crm/stats?days=30  or  ?from=2026-01-01&to=2026-02-01
// Lead counts by status over an optional creation-time window.
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var from, to *time.Time

		if raw := c.Query("days"); raw != "" {
			days, err := strconv.Atoi(raw)
			if err != nil || days < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be a positive number")
			}
			start := time.Now().UTC().AddDate(0, 0, -days)
			from = &start
		}
		if raw := c.Query("from"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			from = &t
		}
		if raw := c.Query("to"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			// Window end is inclusive of the named day.
			end := t.AddDate(0, 0, 1)
			to = &end
		}

		leadQuery := database.DB.Model(&models.Lead{})
		activityQuery := database.DB.Model(&models.LeadActivity{})
		if from != nil {
			leadQuery = leadQuery.Where("created_at >= ?", *from)
			activityQuery = activityQuery.Where("created_at >= ?", *from)
		}
		if to != nil {
			leadQuery = leadQuery.Where("created_at < ?", *to)
			activityQuery = activityQuery.Where("created_at < ?", *to)
		}

		res := StatsResponse{ByStatus: make(map[string]int64)}

		type statusCount struct {
			Status string
			Count  int64
		}
		var counts []statusCount
		if err := leadQuery.
			Select("status, count(*) as count").
			Group("status").
			Scan(&counts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute stats")
		}
		for _, sc := range counts {
			res.ByStatus[sc.Status] = sc.Count
			res.Total += sc.Count
		}

		if err := activityQuery.Count(&res.Activities).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute stats")
		}

		if from != nil {
			res.From = from.Format("2006-01-02")
		}
		if to != nil {
			res.To = to.AddDate(0, 0, -1).Format("2006-01-02")
		}
		return c.JSON(res)
	}
}

package crm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected server error"})
		},
	})
	app.Post("/api/leads", CreateLeadHandler())
	app.Get("/api/leads", ListLeadsHandler())
	app.Get("/api/leads/:id", GetLeadHandler())
	app.Put("/api/leads/:id", UpdateLeadHandler())
	app.Delete("/api/leads/:id", DeleteLeadHandler())
	app.Post("/api/activities", CreateActivityHandler())
	app.Get("/api/activities/:leadId", ListActivitiesHandler())
	app.Get("/api/crm/stats", StatsHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var parsed map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func TestLeads_CreateDefaultsToNew(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"Acme Telecom","email":"buyer@acme.com"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "new", body["status"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"","email":"x@y.z"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"Bad Status","status":"frozen"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLeads_GetOne(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"Acme Telecom"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/leads/1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Acme Telecom", body["name"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/leads/99", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLeads_UpdateStatus(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"Acme","status":"contacted"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "contacted", body["status"])

	resp, body = doJSON(t, app, http.MethodPut, "/api/leads/1", `{"name":"Acme","status":"won"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "won", body["status"])

	resp, _ = doJSON(t, app, http.MethodPut, "/api/leads/99", `{"name":"Ghost","status":"won"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestActivities_RequireExistingLead(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/activities", `{"lead_id":1,"type":"call"}`)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"Acme"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/activities", `{"lead_id":1,"type":"walkabout"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/activities", `{"lead_id":1,"type":"call","notes":"intro call"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "call", body["type"])
}

func TestLeads_DeleteRemovesActivities(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/leads", `{"name":"Acme"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	for _, typ := range []string{"call", "email"} {
		resp, _ = doJSON(t, app, http.MethodPost, "/api/activities", `{"lead_id":1,"type":"`+typ+`"}`)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/leads/1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var activities int64
	require.NoError(t, database.DB.Model(&models.LeadActivity{}).Count(&activities).Error)
	assert.Zero(t, activities)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/leads/1", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestStats_CountsByStatus(t *testing.T) {
	app := newTestApp(t)

	for _, payload := range []string{
		`{"name":"A","status":"new"}`,
		`{"name":"B","status":"won"}`,
		`{"name":"C","status":"won"}`,
	} {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/leads", payload)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/activities", `{"lead_id":1,"type":"call"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/crm/stats", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 1, body["activities"])
	byStatus, ok := body["by_status"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, byStatus["won"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/crm/stats?days=0", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

package main

import (
	"strings"

	"erp-backend/internal/budget"
	"erp-backend/internal/catalog"
	"erp-backend/internal/client"
	"erp-backend/internal/config"
	"erp-backend/internal/crm"
	"erp-backend/internal/database"
	"erp-backend/internal/logger"
	"erp-backend/internal/notes"
	"erp-backend/internal/person"
	"erp-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database.Init(cfg, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("unexpected error", "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	origins := strings.Split(cfg.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	api.Post("/clients", client.CreateHandler())
	api.Get("/clients", client.ListHandler())
	api.Get("/clients/:id", client.GetHandler())
	api.Put("/clients/:id", client.UpdateHandler())
	api.Delete("/clients/:id", client.DeleteHandler())

	api.Post("/materials", catalog.CreateMaterialHandler())
	api.Post("/materials/import", catalog.ImportMaterialsHandler())
	api.Get("/materials", catalog.ListMaterialsHandler())
	api.Get("/materials/:id", catalog.GetMaterialHandler())
	api.Put("/materials/:id", catalog.UpdateMaterialHandler())
	api.Delete("/materials/:id", catalog.DeleteMaterialHandler())

	api.Post("/services", catalog.CreateServiceHandler())
	api.Get("/services", catalog.ListServicesHandler())
	api.Get("/services/:id", catalog.GetServiceHandler())
	api.Put("/services/:id", catalog.UpdateServiceHandler())
	api.Delete("/services/:id", catalog.DeleteServiceHandler())

	api.Post("/suppliers", supplier.CreateHandler())
	api.Get("/suppliers", supplier.ListHandler())
	api.Get("/suppliers/:id", supplier.GetHandler())
	api.Put("/suppliers/:id", supplier.UpdateHandler())
	api.Delete("/suppliers/:id", supplier.DeleteHandler())

	budgetSvc := budget.NewService(database.DB, log)
	api.Post("/budgets", budget.CreateHandler(budgetSvc))
	api.Get("/budgets", budget.ListHandler(budgetSvc))
	api.Get("/budgets/:id", budget.GetHandler(budgetSvc))
	api.Put("/budgets/:id", budget.UpdateHandler(budgetSvc))
	api.Delete("/budgets/:id", budget.DeleteHandler(budgetSvc))

	api.Post("/natural-persons", person.CreateNaturalPersonHandler())
	api.Get("/natural-persons", person.ListNaturalPersonsHandler())
	api.Get("/natural-persons/:id", person.GetNaturalPersonHandler())
	api.Put("/natural-persons/:id", person.UpdateNaturalPersonHandler())
	api.Delete("/natural-persons/:id", person.DeleteNaturalPersonHandler())

	api.Post("/legal-entities", person.CreateLegalEntityHandler())
	api.Get("/legal-entities", person.ListLegalEntitiesHandler())
	api.Get("/legal-entities/:id", person.GetLegalEntityHandler())
	api.Put("/legal-entities/:id", person.UpdateLegalEntityHandler())
	api.Delete("/legal-entities/:id", person.DeleteLegalEntityHandler())

	api.Post("/notes", notes.CreateHandler())
	api.Get("/notes", notes.ListHandler())
	// count must be registered before the :id route
	api.Get("/notes/count", notes.CountHandler())
	api.Get("/notes/:id", notes.GetHandler())
	api.Put("/notes/:id", notes.UpdateHandler())
	api.Delete("/notes/:id", notes.DeleteHandler())

	api.Post("/leads", crm.CreateLeadHandler())
	api.Get("/leads", crm.ListLeadsHandler())
	api.Get("/leads/:id", crm.GetLeadHandler())
	api.Put("/leads/:id", crm.UpdateLeadHandler())
	api.Delete("/leads/:id", crm.DeleteLeadHandler())
	api.Post("/activities", crm.CreateActivityHandler())
	api.Get("/activities/:leadId", crm.ListActivitiesHandler())
	api.Get("/crm/stats", crm.StatsHandler())

	log.Info("server listening", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

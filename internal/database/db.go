package database

import (
	"erp-backend/internal/config"
	"erp-backend/internal/logger"
	"erp-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config, log *logger.Logger) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("could not connect to database", "err", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("automigrate failed", "err", err)
	}

	log.Info("database connected, migrations applied")
}

// Migrate creates or updates the schema. Split out so tests can run the
// same migrations against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Client{},
		&models.Material{},
		&models.Service{},
		&models.Supplier{},
		&models.Budget{},
		&models.BudgetMaterialLine{},
		&models.BudgetServiceLine{},
		&models.NaturalPerson{},
		&models.LegalEntity{},
		&models.Note{},
		&models.Lead{},
		&models.LeadActivity{},
	)
}

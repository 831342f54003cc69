package ingest

import (
	"testing"

	"erp-backend/internal/database"
	"erp-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedMaterials_CreatesAndUpdatesBySKU(t *testing.T) {
	db := newSeedTestDB(t)

	created, updated, err := SeedMaterials(db, []CatalogItem{
		{Name: "FITELcord S122A15", SKU: "S122A15"},
		{Name: "Single-mode fiber SM-9", SKU: "SM-9"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Zero(t, updated)

	// A second run with a renamed item updates in place, nothing doubles.
	created, updated, err = SeedMaterials(db, []CatalogItem{
		{Name: "FITELcord S122A15 rev2", SKU: "S122A15"},
	})
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 1, updated)

	var count int64
	require.NoError(t, db.Model(&models.Material{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var m models.Material
	require.NoError(t, db.Where("sku = ?", "S122A15").First(&m).Error)
	assert.Equal(t, "FITELcord S122A15 rev2", m.Name)
}

func TestSeedMaterials_KeepsExistingPrices(t *testing.T) {
	db := newSeedTestDB(t)

	created, _, err := SeedMaterials(db, []CatalogItem{{Name: "Drop cable", SKU: "DC-1"}})
	require.NoError(t, err)
	require.Equal(t, 1, created)

	var m models.Material
	require.NoError(t, db.Where("sku = ?", "DC-1").First(&m).Error)
	priced := m
	priced.UnitPrice = decimal.RequireFromString("12.34")
	require.NoError(t, db.Save(&priced).Error)

	_, updated, err := SeedMaterials(db, []CatalogItem{{Name: "Drop cable LSZH", SKU: "DC-1"}})
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	require.NoError(t, db.Where("sku = ?", "DC-1").First(&m).Error)
	assert.Equal(t, "Drop cable LSZH", m.Name)
	assert.True(t, m.UnitPrice.Equal(priced.UnitPrice), "price is %s", m.UnitPrice)
}

func TestSeedMaterials_StorageErrorAborts(t *testing.T) {
	db := newSeedTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Material{}))

	created, updated, err := SeedMaterials(db, []CatalogItem{{Name: "Ghost", SKU: "G-1"}})
	require.Error(t, err)
	assert.Zero(t, created)
	assert.Zero(t, updated)
}

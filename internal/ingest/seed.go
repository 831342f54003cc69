package ingest

import (
	"errors"

	"erp-backend/internal/models"

	"gorm.io/gorm"
)

// SeedMaterials upserts scraped catalogue items into the material catalog,
// keyed by SKU, inside one transaction. Scraped rows carry no price: new
// materials start at zero and existing catalog prices are left alone.
func SeedMaterials(db *gorm.DB, items []CatalogItem) (created, updated int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			var m models.Material
			findErr := tx.Where("sku = ?", it.SKU).First(&m).Error
			switch {
			case findErr == nil:
				m.Name = it.Name
				if err := tx.Save(&m).Error; err != nil {
					return err
				}
				updated++
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				m = models.Material{Name: it.Name, SKU: it.SKU}
				if err := tx.Create(&m).Error; err != nil {
					return err
				}
				created++
			default:
				return findErr
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, updated, nil
}

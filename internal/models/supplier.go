package models

import "time"

// SupplierType - which side of the catalog the supplier serves
type SupplierType string

const (
	SupplierTypeMaterial SupplierType = "material"
	SupplierTypeService  SupplierType = "service"
)

type Supplier struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:120;uniqueIndex;not null"`
	Email     string       `gorm:"size:120"`
	Phone     string       `gorm:"size:40"`
	Type      SupplierType `gorm:"type:varchar(20);not null;index;default:material"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

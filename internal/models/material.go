package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Material struct {
	ID            uint            `gorm:"primaryKey"`
	Name          string          `gorm:"size:120;not null"`
	SKU           string          `gorm:"size:60;uniqueIndex;not null"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:120;not null"`
	Description string          `gorm:"type:text"`
	HourlyRate  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

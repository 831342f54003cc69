package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget - a quote document for a client. Total is a materialized aggregate:
// after every successful write it equals the decimal sum of all line
// subtotals. Lines are owned exclusively by their budget; replacing or
// deleting the budget replaces or deletes them inside the same transaction
// (no database-level cascade, ownership is enforced in internal/budget).
type Budget struct {
	ID            uint                 `gorm:"primaryKey"`
	Number        string               `gorm:"size:30;uniqueIndex;not null"`
	ClientID      uint                 `gorm:"index;not null"`
	Client        Client               `gorm:"foreignKey:ClientID"`
	Total         decimal.Decimal      `gorm:"type:numeric(14,2);not null;default:0"`
	MaterialLines []BudgetMaterialLine `gorm:"foreignKey:BudgetID"`
	ServiceLines  []BudgetServiceLine  `gorm:"foreignKey:BudgetID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BudgetMaterialLine - one quantity-priced entry. UnitPrice is a copy frozen
// at write time; later catalog price changes never touch existing budgets.
type BudgetMaterialLine struct {
	ID         uint            `gorm:"primaryKey"`
	BudgetID   uint            `gorm:"index;not null"`
	MaterialID uint            `gorm:"index;not null"`
	Material   Material        `gorm:"foreignKey:MaterialID"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// BudgetServiceLine - one hours-priced entry. UnitPrice is per hour, frozen
// at write time like the material lines.
type BudgetServiceLine struct {
	ID        uint            `gorm:"primaryKey"`
	BudgetID  uint            `gorm:"index;not null"`
	ServiceID uint            `gorm:"index;not null"`
	Service   Service         `gorm:"foreignKey:ServiceID"`
	Hours     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

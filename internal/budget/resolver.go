package budget

import (
	"errors"
	"fmt"

	"erp-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialLineInput - one requested material line. UnitPrice, when set,
// overrides the catalog price.
type MaterialLineInput struct {
	MaterialID uint             `json:"material_id"`
	Quantity   int              `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
}

// ServiceLineInput - one requested service line, priced per hour.
type ServiceLineInput struct {
	ServiceID uint             `json:"service_id"`
	Hours     decimal.Decimal  `json:"hours"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// resolveMaterialLine freezes the effective unit price for one material
// line: the caller's override when present, otherwise the catalog price at
// this moment. The catalog is never consulted again for this line.
func resolveMaterialLine(tx *gorm.DB, in MaterialLineInput) (models.BudgetMaterialLine, error) {
	var line models.BudgetMaterialLine

	if in.Quantity <= 0 {
		return line, fmt.Errorf("%w: material %d: quantity must be positive", ErrValidation, in.MaterialID)
	}

	var material models.Material
	if err := tx.First(&material, "id = ?", in.MaterialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return line, fmt.Errorf("%w: material %d", ErrReferenceNotFound, in.MaterialID)
		}
		return line, storageErr(err)
	}

	price := material.UnitPrice
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}

	line = models.BudgetMaterialLine{
		MaterialID: material.ID,
		Quantity:   in.Quantity,
		UnitPrice:  price,
	}
	return line, nil
}

func resolveServiceLine(tx *gorm.DB, in ServiceLineInput) (models.BudgetServiceLine, error) {
	var line models.BudgetServiceLine

	if !in.Hours.IsPositive() {
		return line, fmt.Errorf("%w: service %d: hours must be positive", ErrValidation, in.ServiceID)
	}

	var service models.Service
	if err := tx.First(&service, "id = ?", in.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return line, fmt.Errorf("%w: service %d", ErrReferenceNotFound, in.ServiceID)
		}
		return line, storageErr(err)
	}

	price := service.HourlyRate
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}

	line = models.BudgetServiceLine{
		ServiceID: service.ID,
		Hours:     in.Hours,
		UnitPrice: price,
	}
	return line, nil
}

func materialSubtotal(line models.BudgetMaterialLine) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

func serviceSubtotal(line models.BudgetServiceLine) decimal.Decimal {
	return line.UnitPrice.Mul(line.Hours)
}

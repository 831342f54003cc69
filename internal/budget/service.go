package budget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp-backend/internal/logger"
	"erp-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Input - everything a create or update carries. The line lists are
// authoritative: an update replaces the stored line set with exactly these
// lines, there is no merge by line id.
type Input struct {
	Number    string              `json:"number"`
	ClientID  uint                `json:"client_id"`
	Materials []MaterialLineInput `json:"materials"`
	Services  []ServiceLineInput  `json:"services"`
}

// Service resolves requested lines against the catalog and keeps the
// budget's materialized total consistent with its line set. Every write
// happens inside a single transaction: either the header and all lines land
// together or nothing does.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(db *gorm.DB, log *logger.Logger) *Service {
	return &Service{db: db, log: log.With("component", "budget")}
}

func (s *Service) Create(ctx context.Context, in Input) (*models.Budget, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: number is required", ErrValidation)
	}

	var out *models.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkClient(tx, in.ClientID); err != nil {
			return err
		}
		if err := s.checkNumberFree(tx, number, 0); err != nil {
			return err
		}

		materialLines, serviceLines, total, err := resolveLines(tx, in)
		if err != nil {
			return err
		}

		b := models.Budget{
			Number:   number,
			ClientID: in.ClientID,
			Total:    total,
		}
		if err := tx.Create(&b).Error; err != nil {
			return dupOrStorage(err, number)
		}
		if err := insertLines(tx, b.ID, materialLines, serviceLines); err != nil {
			return err
		}

		out, err = reload(tx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("budget created", "id", out.ID, "number", out.Number, "total", out.Total.StringFixed(2))
	return out, nil
}

// Update replaces the whole budget: header fields and the entire line set.
// Calling it twice with the same input yields the same stored state.
func (s *Service) Update(ctx context.Context, id uint, in Input) (*models.Budget, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: number is required", ErrValidation)
	}

	var out *models.Budget
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBudget(tx, id)
		if err != nil {
			return err
		}
		if err := s.checkClient(tx, in.ClientID); err != nil {
			return err
		}
		if err := s.checkNumberFree(tx, number, b.ID); err != nil {
			return err
		}

		materialLines, serviceLines, total, err := resolveLines(tx, in)
		if err != nil {
			return err
		}

		if err := deleteLines(tx, b.ID); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"number":    number,
			"client_id": in.ClientID,
			"total":     total,
		}
		if err := tx.Model(&models.Budget{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			return dupOrStorage(err, number)
		}
		if err := insertLines(tx, b.ID, materialLines, serviceLines); err != nil {
			return err
		}

		out, err = reload(tx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("budget replaced", "id", out.ID, "number", out.Number, "total", out.Total.StringFixed(2))
	return out, nil
}

// Delete removes the budget and every owned line. An absent id reports
// ErrBudgetNotFound so callers can tell "deleted" from "nothing to delete".
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockBudget(tx, id)
		if err != nil {
			return err
		}
		if err := deleteLines(tx, b.ID); err != nil {
			return err
		}
		if err := tx.Delete(&models.Budget{}, "id = ?", b.ID).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("budget deleted", "id", id)
	return nil
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Budget, error) {
	var b models.Budget
	err := withLines(s.db.WithContext(ctx)).First(&b, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBudgetNotFound, id)
		}
		return nil, storageErr(err)
	}
	return &b, nil
}

// List returns all budgets with their lines, most recent first.
func (s *Service) List(ctx context.Context) ([]models.Budget, error) {
	var budgets []models.Budget
	err := withLines(s.db.WithContext(ctx)).Order("id desc").Find(&budgets).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return budgets, nil
}

// -------------------------
// transaction-scoped helpers
// -------------------------

// resolveLines prices every requested line, stopping at the first failure.
// A budget is never partially priced.
func resolveLines(tx *gorm.DB, in Input) ([]models.BudgetMaterialLine, []models.BudgetServiceLine, decimal.Decimal, error) {
	total := decimal.Zero

	materialLines := make([]models.BudgetMaterialLine, 0, len(in.Materials))
	for _, req := range in.Materials {
		line, err := resolveMaterialLine(tx, req)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		total = total.Add(materialSubtotal(line))
		materialLines = append(materialLines, line)
	}

	serviceLines := make([]models.BudgetServiceLine, 0, len(in.Services))
	for _, req := range in.Services {
		line, err := resolveServiceLine(tx, req)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		total = total.Add(serviceSubtotal(line))
		serviceLines = append(serviceLines, line)
	}

	return materialLines, serviceLines, total.Round(2), nil
}

// lockBudget loads the header under a row lock so concurrent full-replaces
// of the same budget serialize. sqlite (tests) has no row locks and
// serializes writers on its own, so the clause is postgres-only.
func lockBudget(tx *gorm.DB, id uint) (*models.Budget, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b models.Budget
	if err := q.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBudgetNotFound, id)
		}
		return nil, storageErr(err)
	}
	return &b, nil
}

func (s *Service) checkClient(tx *gorm.DB, clientID uint) error {
	var client models.Client
	if err := tx.First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrClientNotFound, clientID)
		}
		return storageErr(err)
	}
	return nil
}

// checkNumberFree reports ErrDuplicateNumber when another budget already
// carries this number. The unique index on budgets.number is the backstop
// for writes racing past this check.
func (s *Service) checkNumberFree(tx *gorm.DB, number string, selfID uint) error {
	var count int64
	err := tx.Model(&models.Budget{}).
		Where("number = ? AND id <> ?", number, selfID).
		Count(&count).Error
	if err != nil {
		return storageErr(err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateNumber, number)
	}
	return nil
}

// dupOrStorage maps a unique-index violation on the header write to
// ErrDuplicateNumber: a write racing past checkNumberFree still reports
// the duplicate as a duplicate, not as a storage failure. Needs
// TranslateError on the gorm handle.
func dupOrStorage(err error, number string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateNumber, number)
	}
	return storageErr(err)
}

func insertLines(tx *gorm.DB, budgetID uint, materials []models.BudgetMaterialLine, services []models.BudgetServiceLine) error {
	for i := range materials {
		materials[i].BudgetID = budgetID
	}
	for i := range services {
		services[i].BudgetID = budgetID
	}
	if len(materials) > 0 {
		if err := tx.Create(&materials).Error; err != nil {
			return storageErr(err)
		}
	}
	if len(services) > 0 {
		if err := tx.Create(&services).Error; err != nil {
			return storageErr(err)
		}
	}
	return nil
}

func deleteLines(tx *gorm.DB, budgetID uint) error {
	if err := tx.Delete(&models.BudgetMaterialLine{}, "budget_id = ?", budgetID).Error; err != nil {
		return storageErr(err)
	}
	if err := tx.Delete(&models.BudgetServiceLine{}, "budget_id = ?", budgetID).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("MaterialLines.Material").
		Preload("ServiceLines.Service")
}

// reload re-reads the budget inside the same transaction so the caller
// observes exactly what was stored.
func reload(tx *gorm.DB, id uint) (*models.Budget, error) {
	var b models.Budget
	if err := withLines(tx).First(&b, "id = ?", id).Error; err != nil {
		return nil, storageErr(err)
	}
	return &b, nil
}

package budget

import (
	"context"
	"errors"
	"testing"

	"erp-backend/internal/database"
	"erp-backend/internal/logger"
	"erp-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewService(db, logger.NewNop()), db
}

func seedCatalog(t *testing.T, db *gorm.DB) (client models.Client, material models.Material, service models.Service) {
	t.Helper()

	client = models.Client{Name: "ACME Ltda", Email: "acme@example.com"}
	require.NoError(t, db.Create(&client).Error)

	material = models.Material{Name: "Fiber cable", SKU: "FIB-100", UnitPrice: dec("10.00")}
	require.NoError(t, db.Create(&material).Error)

	service = models.Service{Name: "Installation", HourlyRate: dec("55.00")}
	require.NoError(t, db.Create(&service).Error)

	return client, material, service
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCreate_TotalIsSumOfLines(t *testing.T) {
	svc, db := newTestService(t)
	client, material, service := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{
		Number:   "Q-1001",
		ClientID: client.ID,
		Materials: []MaterialLineInput{
			{MaterialID: material.ID, Quantity: 2},
		},
		Services: []ServiceLineInput{
			{ServiceID: service.ID, Hours: dec("1.5"), UnitPrice: decPtr("40.00")},
		},
	})
	require.NoError(t, err)

	// 2*10.00 + 1.5*40.00 = 80.00
	assert.Equal(t, "80.00", b.Total.StringFixed(2))
	require.Len(t, b.MaterialLines, 1)
	require.Len(t, b.ServiceLines, 1)
	assert.Equal(t, "10.00", b.MaterialLines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "40.00", b.ServiceLines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, client.ID, b.Client.ID)
}

func TestCreate_EmptyLineSetIsValid(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)

	b, err := svc.Create(context.Background(), Input{Number: "Q-EMPTY", ClientID: client.ID})
	require.NoError(t, err)
	assert.True(t, b.Total.IsZero())
	assert.Empty(t, b.MaterialLines)
	assert.Empty(t, b.ServiceLines)
}

func TestCreate_EmptyNumberRejected(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)

	_, err := svc.Create(context.Background(), Input{Number: "   ", ClientID: client.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_UnknownClient(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), Input{Number: "Q-1", ClientID: 999})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestCreate_DuplicateNumber(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Number: "Q-1001", ClientID: client.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{Number: "Q-1001", ClientID: client.ID})
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestCreate_UnknownReferenceRollsBackEverything(t *testing.T) {
	svc, db := newTestService(t)
	client, material, _ := seedCatalog(t, db)

	_, err := svc.Create(context.Background(), Input{
		Number:   "Q-ATOMIC",
		ClientID: client.ID,
		Materials: []MaterialLineInput{
			{MaterialID: material.ID, Quantity: 1},
			{MaterialID: 12345, Quantity: 3}, // unknown, fails mid-request
			{MaterialID: material.ID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, ErrReferenceNotFound)

	// Nothing from the failed request may be visible.
	var headers int64
	require.NoError(t, db.Model(&models.Budget{}).Where("number = ?", "Q-ATOMIC").Count(&headers).Error)
	assert.Zero(t, headers)

	var lines int64
	require.NoError(t, db.Model(&models.BudgetMaterialLine{}).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestCreate_OverrideWinsOverCatalogPrice(t *testing.T) {
	svc, db := newTestService(t)
	client, material, _ := seedCatalog(t, db)

	b, err := svc.Create(context.Background(), Input{
		Number:   "Q-OVR",
		ClientID: client.ID,
		Materials: []MaterialLineInput{
			{MaterialID: material.ID, Quantity: 3, UnitPrice: decPtr("7.50")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "7.50", b.MaterialLines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "22.50", b.Total.StringFixed(2))
}

func TestCreate_FrozenPriceSurvivesCatalogDrift(t *testing.T) {
	svc, db := newTestService(t)
	client, material, _ := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{
		Number:    "Q-DRIFT",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, "20.00", b.Total.StringFixed(2))

	// Catalog price changes after the fact.
	require.NoError(t, db.Model(&models.Material{}).
		Where("id = ?", material.ID).
		Update("unit_price", dec("99.99")).Error)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.MaterialLines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "20.00", got.Total.StringFixed(2))
}

func TestUpdate_FullReplace(t *testing.T) {
	svc, db := newTestService(t)
	client, material, service := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{
		Number:   "Q-1001",
		ClientID: client.ID,
		Materials: []MaterialLineInput{
			{MaterialID: material.ID, Quantity: 2},
		},
		Services: []ServiceLineInput{
			{ServiceID: service.ID, Hours: dec("1.5"), UnitPrice: decPtr("40.00")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "80.00", b.Total.StringFixed(2))

	// Replace: drop the material line, keep a single service line.
	replaced, err := svc.Update(ctx, b.ID, Input{
		Number:   "Q-1001",
		ClientID: client.ID,
		Services: []ServiceLineInput{
			{ServiceID: service.ID, Hours: dec("2"), UnitPrice: decPtr("40.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "80.00", replaced.Total.StringFixed(2))
	assert.Empty(t, replaced.MaterialLines)
	require.Len(t, replaced.ServiceLines, 1)
	assert.Equal(t, "2", replaced.ServiceLines[0].Hours.String())

	// The prior material line must be gone from storage, not just hidden.
	var orphaned int64
	require.NoError(t, db.Model(&models.BudgetMaterialLine{}).
		Where("budget_id = ?", b.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestUpdate_Idempotent(t *testing.T) {
	svc, db := newTestService(t)
	client, material, service := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{Number: "Q-IDEM", ClientID: client.ID})
	require.NoError(t, err)

	in := Input{
		Number:    "Q-IDEM",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 4}},
		Services:  []ServiceLineInput{{ServiceID: service.ID, Hours: dec("0.5")}},
	}

	first, err := svc.Update(ctx, b.ID, in)
	require.NoError(t, err)
	second, err := svc.Update(ctx, b.ID, in)
	require.NoError(t, err)

	assert.Equal(t, first.Total.StringFixed(2), second.Total.StringFixed(2))
	require.Len(t, second.MaterialLines, 1)
	require.Len(t, second.ServiceLines, 1)
	assert.Equal(t, first.MaterialLines[0].Quantity, second.MaterialLines[0].Quantity)
	assert.True(t, first.MaterialLines[0].UnitPrice.Equal(second.MaterialLines[0].UnitPrice))
	assert.True(t, first.ServiceLines[0].Hours.Equal(second.ServiceLines[0].Hours))
	assert.True(t, first.ServiceLines[0].UnitPrice.Equal(second.ServiceLines[0].UnitPrice))
}

func TestUpdate_FailedReplaceKeepsPriorState(t *testing.T) {
	svc, db := newTestService(t)
	client, material, _ := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{
		Number:    "Q-KEEP",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, Input{
		Number:    "Q-KEEP",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: 777, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrReferenceNotFound)

	// Prior lines and total are intact.
	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.Total.StringFixed(2))
	require.Len(t, got.MaterialLines, 1)
	assert.Equal(t, 2, got.MaterialLines[0].Quantity)
}

func TestUpdate_UnknownBudget(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)

	_, err := svc.Update(context.Background(), 42, Input{Number: "Q-X", ClientID: client.ID})
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}

func TestUpdate_DuplicateNumberOfOtherBudget(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Number: "Q-A", ClientID: client.ID})
	require.NoError(t, err)
	b, err := svc.Create(ctx, Input{Number: "Q-B", ClientID: client.ID})
	require.NoError(t, err)

	// Renaming Q-B to Q-A collides; keeping its own number does not.
	_, err = svc.Update(ctx, b.ID, Input{Number: "Q-A", ClientID: client.ID})
	assert.ErrorIs(t, err, ErrDuplicateNumber)

	_, err = svc.Update(ctx, b.ID, Input{Number: "Q-B", ClientID: client.ID})
	assert.NoError(t, err)
}

func TestDelete_RemovesBudgetAndLines(t *testing.T) {
	svc, db := newTestService(t)
	client, material, service := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{
		Number:    "Q-DEL",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 1}},
		Services:  []ServiceLineInput{{ServiceID: service.ID, Hours: dec("1")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))

	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBudgetNotFound)

	var lines int64
	require.NoError(t, db.Model(&models.BudgetMaterialLine{}).Where("budget_id = ?", b.ID).Count(&lines).Error)
	assert.Zero(t, lines)
	require.NoError(t, db.Model(&models.BudgetServiceLine{}).Where("budget_id = ?", b.ID).Count(&lines).Error)
	assert.Zero(t, lines)

	// Deleting again reports not-found, not a silent success.
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), ErrBudgetNotFound)
}

func TestCreate_CancelledContextCommitsNothing(t *testing.T) {
	svc, db := newTestService(t)
	client, material, _ := seedCatalog(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, Input{
		Number:    "Q-1",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 2}},
	})
	require.Error(t, err)

	var budgets, lines int64
	require.NoError(t, db.Model(&models.Budget{}).Count(&budgets).Error)
	require.NoError(t, db.Model(&models.BudgetMaterialLine{}).Count(&lines).Error)
	assert.Zero(t, budgets)
	assert.Zero(t, lines)
}

func TestUpdate_CancelledContextKeepsPriorState(t *testing.T) {
	svc, db := newTestService(t)
	client, material, _ := seedCatalog(t, db)
	ctx := context.Background()

	b, err := svc.Create(ctx, Input{
		Number:    "Q-1",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Update(cancelled, b.ID, Input{
		Number:    "Q-1",
		ClientID:  client.ID,
		Materials: []MaterialLineInput{{MaterialID: material.ID, Quantity: 5}},
	})
	require.Error(t, err)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(dec("20.00")), "total is %s", got.Total)
	require.Len(t, got.MaterialLines, 1)
	assert.Equal(t, 2, got.MaterialLines[0].Quantity)
}

func TestCreate_NumberRaceFallsBackOnUniqueIndex(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Number: "Q-1", ClientID: client.ID})
	require.NoError(t, err)

	// A concurrent write that slipped past the pre-check lands on the
	// unique index; the violation must still read as a duplicate number.
	err = db.Create(&models.Budget{Number: "Q-1", ClientID: client.ID}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, dupOrStorage(err, "Q-1"), ErrDuplicateNumber)

	assert.ErrorIs(t, dupOrStorage(errors.New("disk full"), "Q-1"), ErrStorage)
}

func TestList_MostRecentFirst(t *testing.T) {
	svc, db := newTestService(t)
	client, _, _ := seedCatalog(t, db)
	ctx := context.Background()

	for _, n := range []string{"Q-1", "Q-2", "Q-3"} {
		_, err := svc.Create(ctx, Input{Number: n, ClientID: client.ID})
		require.NoError(t, err)
	}

	budgets, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 3)
	assert.Equal(t, "Q-3", budgets[0].Number)
	assert.Equal(t, "Q-1", budgets[2].Number)
}

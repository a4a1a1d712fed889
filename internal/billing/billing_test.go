package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vetclinic-server/internal/errs"
	"vetclinic-server/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedPet(t *testing.T, db *gorm.DB) models.Pet {
	t.Helper()
	owner := models.Owner{Name: "Maria Santos", Contact: "09171234567"}
	require.NoError(t, db.Create(&owner).Error)
	pet := models.Pet{OwnerID: owner.ID, PetUID: "PET-2025-0001", Name: "Bantay", Type: "dog"}
	require.NoError(t, db.Create(&pet).Error)
	return pet
}

func seedItem(t *testing.T, db *gorm.DB, name, price string, qty int) models.InventoryItem {
	t.Helper()
	item := models.InventoryItem{
		Name:     name,
		Category: "medicine",
		Quantity: qty,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestComputeTotalInvariant(t *testing.T) {
	db := openTestDB(t)
	amoxicillin := seedItem(t, db, "Amoxicillin", "150.00", 20)
	syringe := seedItem(t, db, "Syringe 5ml", "12.50", 100)

	engine := NewEngine(db, false)
	fee := decimal.RequireFromString("500.00")

	lines, total, err := engine.Compute(context.Background(), fee, []RequestedItem{
		{InventoryID: amoxicillin.ID, Quantity: 3},
		{InventoryID: syringe.ID, Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// total == fee + sum(unit_price * quantity)
	sum := fee
	for _, line := range lines {
		assert.True(t, line.Subtotal.Equal(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)))
		sum = sum.Add(line.Subtotal)
	}
	assert.True(t, total.Equal(sum), "total %s != %s", total, sum)
	assert.Equal(t, "975.00", total.StringFixed(2))
}

func TestComputeNoItems(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, false)

	lines, total, err := engine.Compute(context.Background(), decimal.RequireFromString("350.00"), nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, "350.00", total.StringFixed(2))
}

func TestComputeRoundsAtLineLevel(t *testing.T) {
	db := openTestDB(t)
	// 33.335 * 3 = 100.005 -> 100.01 at the line, not deferred to the total
	item := seedItem(t, db, "Odd priced vial", "33.335", 5)

	engine := NewEngine(db, false)
	lines, total, err := engine.Compute(context.Background(), decimal.Zero, []RequestedItem{
		{InventoryID: item.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "100.01", lines[0].Subtotal.StringFixed(2))
	assert.Equal(t, "100.01", total.StringFixed(2))
}

func TestComputeUnknownItems(t *testing.T) {
	db := openTestDB(t)
	known := seedItem(t, db, "Dewormer", "80.00", 10)

	engine := NewEngine(db, false)
	_, _, err := engine.Compute(context.Background(), decimal.Zero, []RequestedItem{
		{InventoryID: known.ID, Quantity: 1},
		{InventoryID: "no-such-id", Quantity: 2},
	})
	var pricingErr *errs.PricingError
	require.ErrorAs(t, err, &pricingErr)
	assert.Equal(t, []string{"no-such-id"}, pricingErr.UnknownIDs)
}

func TestComputeUnknownItemsLegacyFallback(t *testing.T) {
	db := openTestDB(t)

	engine := NewEngine(db, true)
	lines, total, err := engine.Compute(context.Background(), decimal.RequireFromString("100.00"), []RequestedItem{
		{InventoryID: "no-such-id", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Unknown", lines[0].Name)
	assert.True(t, lines[0].Subtotal.IsZero())
	assert.Equal(t, "100.00", total.StringFixed(2))
}

func TestComputeRejectsNegativeFee(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, false)

	_, _, err := engine.Compute(context.Background(), decimal.RequireFromString("-1"), nil)
	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateBillEndToEnd(t *testing.T) {
	db := openTestDB(t)
	pet := seedPet(t, db)
	item := seedItem(t, db, "Rabies vaccine", "150.00", 10)

	service := NewService(db, NewEngine(db, false))
	bill, err := service.CreateBill(context.Background(), CreateBillInput{
		PetID:           pet.ID,
		ConsultationFee: decimal.RequireFromString("500.00"),
		Items:           []RequestedItem{{InventoryID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "950.00", bill.TotalCost.StringFixed(2))
	assert.Equal(t, models.BillUnpaid, bill.Status)

	// markPaid, then again: paid both times, no error the second time
	require.NoError(t, service.MarkPaid(context.Background(), bill.ID))
	reloaded, err := service.GetBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, reloaded.Status)

	require.NoError(t, service.MarkPaid(context.Background(), bill.ID))
	reloaded, err = service.GetBill(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, reloaded.Status)
}

func TestCreateBillSnapshotsPrices(t *testing.T) {
	db := openTestDB(t)
	pet := seedPet(t, db)
	item := seedItem(t, db, "Antibiotic", "200.00", 10)

	service := NewService(db, NewEngine(db, false))
	bill, err := service.CreateBill(context.Background(), CreateBillInput{
		PetID:           pet.ID,
		ConsultationFee: decimal.Zero,
		Items:           []RequestedItem{{InventoryID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// A later price change must not touch the existing bill.
	require.NoError(t, db.Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Update("price", decimal.RequireFromString("999.00")).Error)

	reloaded, err := service.GetBill(context.Background(), bill.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "200.00", reloaded.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "200.00", reloaded.TotalCost.StringFixed(2))
}

func TestCreateBillValidation(t *testing.T) {
	db := openTestDB(t)
	service := NewService(db, NewEngine(db, false))

	var validationErr *errs.ValidationError

	_, err := service.CreateBill(context.Background(), CreateBillInput{
		PetID:           "ghost-pet",
		ConsultationFee: decimal.RequireFromString("100.00"),
	})
	require.ErrorAs(t, err, &validationErr)

	pet := seedPet(t, db)
	_, err = service.CreateBill(context.Background(), CreateBillInput{
		PetID:           pet.ID,
		ConsultationFee: decimal.RequireFromString("-5.00"),
	})
	require.ErrorAs(t, err, &validationErr)
}

func TestMarkPaidUnknownBill(t *testing.T) {
	db := openTestDB(t)
	service := NewService(db, NewEngine(db, false))

	err := service.MarkPaid(context.Background(), "no-such-bill")
	var notFoundErr *errs.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
}

func TestListBillsFilter(t *testing.T) {
	db := openTestDB(t)
	pet := seedPet(t, db)
	service := NewService(db, NewEngine(db, false))

	first, err := service.CreateBill(context.Background(), CreateBillInput{
		PetID:           pet.ID,
		ConsultationFee: decimal.RequireFromString("300.00"),
	})
	require.NoError(t, err)
	_, err = service.CreateBill(context.Background(), CreateBillInput{
		PetID:           pet.ID,
		ConsultationFee: decimal.RequireFromString("450.00"),
	})
	require.NoError(t, err)
	require.NoError(t, service.MarkPaid(context.Background(), first.ID))

	unpaid, err := service.ListBills(context.Background(), ListFilter{Status: models.BillUnpaid})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "450.00", unpaid[0].TotalCost.StringFixed(2))

	all, err := service.ListBills(context.Background(), ListFilter{PetID: pet.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

package billing

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetclinic-server/internal/errs"
	"vetclinic-server/internal/models"
)

// RequestedItem is one inventory line requested on a bill.
type RequestedItem struct {
	InventoryID string `json:"inventory_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// PricedLine is a requested item resolved against current inventory.
// Name and UnitPrice are snapshots; Subtotal is rounded to the centavo at
// the line level, not at the total.
type PricedLine struct {
	InventoryID string
	Name        string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Engine resolves requested items against current inventory prices and
// computes bill totals. It reads inventory and has no other side effects;
// given the same inventory snapshot it is deterministic.
type Engine struct {
	db *gorm.DB

	// allowUnknown preserves the legacy behavior of pricing unresolved
	// inventory ids at zero with name "Unknown" instead of failing.
	allowUnknown bool
}

// NewEngine creates a pricing engine over the given store handle.
func NewEngine(db *gorm.DB, allowUnknown bool) *Engine {
	return &Engine{db: db, allowUnknown: allowUnknown}
}

// Compute prices the requested items and returns the lines plus the grand
// total (consultation fee + sum of line subtotals). Unresolved inventory
// ids produce a PricingError unless the engine runs in legacy
// compatibility mode.
func (e *Engine) Compute(ctx context.Context, consultationFee decimal.Decimal, items []RequestedItem) ([]PricedLine, decimal.Decimal, error) {
	if consultationFee.IsNegative() {
		return nil, decimal.Zero, errs.Validation("consultation fee must not be negative")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, decimal.Zero, errs.Validation("quantity for item %s must be at least 1", item.InventoryID)
		}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.InventoryID)
	}

	byID := map[string]models.InventoryItem{}
	if len(ids) > 0 {
		var stock []models.InventoryItem
		if err := e.db.WithContext(ctx).Where("id IN ?", ids).Find(&stock).Error; err != nil {
			return nil, decimal.Zero, errs.Persistence("load inventory", err)
		}
		for _, s := range stock {
			byID[s.ID] = s
		}
	}

	var unknown []string
	lines := make([]PricedLine, 0, len(items))
	total := consultationFee
	for _, item := range items {
		stock, ok := byID[item.InventoryID]
		name := stock.Name
		price := stock.Price
		if !ok {
			if !e.allowUnknown {
				unknown = append(unknown, item.InventoryID)
				continue
			}
			name = "Unknown"
			price = decimal.Zero
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		lines = append(lines, PricedLine{
			InventoryID: item.InventoryID,
			Name:        name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}

	if len(unknown) > 0 {
		return nil, decimal.Zero, &errs.PricingError{UnknownIDs: unknown}
	}

	return lines, total, nil
}

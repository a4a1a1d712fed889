package billing

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetclinic-server/internal/errs"
	"vetclinic-server/internal/models"
)

// Service owns the bill lifecycle: unpaid at creation, one irreversible
// transition to paid. Bills are otherwise immutable.
type Service struct {
	db      *gorm.DB
	pricing *Engine
}

// NewService creates a billing service over the given store handle.
func NewService(db *gorm.DB, pricing *Engine) *Service {
	return &Service{db: db, pricing: pricing}
}

// CreateBillInput carries everything needed to invoice a visit.
type CreateBillInput struct {
	PetID           string
	DiagnosisID     *string
	ConsultationFee decimal.Decimal
	Items           []RequestedItem
}

// CreateBill prices the requested items and persists the bill header and
// its line items in one transaction, so a failed item write never leaves
// an orphaned header behind.
func (s *Service) CreateBill(ctx context.Context, input CreateBillInput) (*models.Bill, error) {
	if input.PetID == "" {
		return nil, errs.Validation("pet_id is required")
	}

	var pet models.Pet
	if err := s.db.WithContext(ctx).First(&pet, "id = ?", input.PetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Validation("pet %s does not exist", input.PetID)
		}
		return nil, errs.Persistence("load pet", err)
	}

	lines, total, err := s.pricing.Compute(ctx, input.ConsultationFee, input.Items)
	if err != nil {
		return nil, err
	}

	bill := models.Bill{
		PetID:           input.PetID,
		DiagnosisID:     input.DiagnosisID,
		ConsultationFee: input.ConsultationFee,
		TotalCost:       total,
		Status:          models.BillUnpaid,
	}
	for _, line := range lines {
		bill.Items = append(bill.Items, models.BillItem{
			InventoryID: line.InventoryID,
			Name:        line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&bill).Error
	})
	if err != nil {
		return nil, errs.Persistence("create bill", err)
	}

	return &bill, nil
}

// MarkPaid transitions the bill to paid. Calling it on an already-paid
// bill is a no-op success.
func (s *Service) MarkPaid(ctx context.Context, billID string) error {
	var bill models.Bill
	if err := s.db.WithContext(ctx).First(&bill, "id = ?", billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("bill", billID)
		}
		return errs.Persistence("load bill", err)
	}

	if bill.Status == models.BillPaid {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.Bill{}).
		Where("id = ?", billID).
		Update("status", models.BillPaid)
	if res.Error != nil {
		return errs.Persistence("mark bill paid", res.Error)
	}
	return nil
}

// GetBill loads one bill with its line items.
func (s *Service) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.WithContext(ctx).Preload("Items").First(&bill, "id = ?", billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("bill", billID)
		}
		return nil, errs.Persistence("load bill", err)
	}
	return &bill, nil
}

// ListFilter narrows ListBills; zero values mean "any".
type ListFilter struct {
	PetID  string
	Status models.BillStatus
}

// ListBills returns bills with items preloaded, newest first.
func (s *Service) ListBills(ctx context.Context, filter ListFilter) ([]models.Bill, error) {
	query := s.db.WithContext(ctx).Preload("Items").Order("created_at desc")
	if filter.PetID != "" {
		query = query.Where("pet_id = ?", filter.PetID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var bills []models.Bill
	if err := query.Find(&bills).Error; err != nil {
		return nil, errs.Persistence("list bills", err)
	}
	return bills, nil
}

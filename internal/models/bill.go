package models

import (
	"github.com/shopspring/decimal"
)

// BillStatus represents the payment status of a bill
type BillStatus string

const (
	BillUnpaid BillStatus = "unpaid"
	BillPaid   BillStatus = "paid"
)

// Bill is a financial record for one pet, optionally tied to a diagnosis.
// TotalCost is fixed at creation time; line items carry price snapshots and
// are never recomputed when inventory prices change.
type Bill struct {
	BaseModel
	PetID           string          `gorm:"size:36;index" json:"petId"`
	DiagnosisID     *string         `gorm:"size:36" json:"diagnosisId,omitempty"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2)" json:"consultationFee"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalCost"`
	Status          BillStatus      `gorm:"size:10;default:'unpaid'" json:"status"`

	Pet   Pet        `gorm:"foreignKey:PetID" json:"-"`
	Items []BillItem `gorm:"foreignKey:BillID" json:"items"`
}

func (Bill) TableName() string { return "billing" }

// BillItem is one priced line on a bill. Name and UnitPrice are snapshots
// from inventory at billing time; Subtotal = UnitPrice x Quantity rounded
// to the centavo.
type BillItem struct {
	BaseModel
	BillID      string          `gorm:"size:36;index" json:"billId"`
	InventoryID string          `gorm:"size:36" json:"inventoryId"`
	Name        string          `gorm:"size:150" json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"unitPrice"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2)" json:"subtotal"`
}

func (BillItem) TableName() string { return "billing_items" }

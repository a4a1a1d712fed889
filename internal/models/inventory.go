package models

import (
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked medicine or supply. Its price is read by the
// pricing engine at bill time; bills snapshot the price, so later edits
// here never change existing bills. Stock quantity is not decremented by
// billing or diagnosis creation (manual restock workflow).
type InventoryItem struct {
	BaseModel
	Name       string          `gorm:"size:150;not null" json:"name"`
	Category   string          `gorm:"size:100" json:"category"`
	Quantity   int             `gorm:"default:0" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	ExpiryDate string          `gorm:"size:10" json:"expiryDate"`
}

func (InventoryItem) TableName() string { return "inventory" }

package models

import (
	"github.com/shopspring/decimal"
)

// Diagnosis is a visit record written by a doctor. A non-empty
// FollowUpDate implicitly schedules a follow-up appointment.
type Diagnosis struct {
	BaseModel
	PetID        string  `gorm:"size:36;index" json:"petId"`
	Vaccination  string  `gorm:"size:150" json:"vaccination"`
	Date         string  `gorm:"size:10" json:"date"`
	Weight       float64 `json:"weight"`
	Temperature  float64 `json:"temperature"`
	Test         string  `gorm:"size:255" json:"test"`
	Dx           string  `gorm:"type:text" json:"dx"`
	Rx           string  `gorm:"type:text" json:"rx"`
	Remarks      string  `gorm:"type:text" json:"remarks"`
	FollowUpDate string  `gorm:"size:10" json:"followUpDate"`
	CreatedBy    string  `gorm:"size:36" json:"createdBy,omitempty"`

	Pet         Pet                   `gorm:"foreignKey:PetID" json:"-"`
	Medications []DiagnosisMedication `gorm:"foreignKey:DiagnosisID" json:"medications,omitempty"`
}

// DiagnosisMedication records a medicine given during a visit. Name and
// unit price are snapshots taken from inventory at recording time.
type DiagnosisMedication struct {
	BaseModel
	DiagnosisID string          `gorm:"size:36;index" json:"diagnosisId"`
	InventoryID string          `gorm:"size:36" json:"inventoryId"`
	Name        string          `gorm:"size:150" json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2)" json:"unitPrice"`
}

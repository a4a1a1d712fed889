package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vetclinic-server/internal/billing"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// BillingHandler handles billing requests.
type BillingHandler struct {
	Service *billing.Service
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(service *billing.Service) *BillingHandler {
	return &BillingHandler{Service: service}
}

// CreateBillRequest represents the request body for invoicing a visit.
type CreateBillRequest struct {
	PetID           string                  `json:"pet_id" binding:"required"`
	DiagnosisID     *string                 `json:"diagnosis_id"`
	ConsultationFee decimal.Decimal         `json:"consultation_fee"`
	Items           []billing.RequestedItem `json:"items" binding:"omitempty,dive"`
}

// CreateBill prices the requested items against current inventory and
// persists the bill in unpaid status.
func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	bill, err := h.Service.CreateBill(c.Request.Context(), billing.CreateBillInput{
		PetID:           req.PetID,
		DiagnosisID:     req.DiagnosisID,
		ConsultationFee: req.ConsultationFee,
		Items:           req.Items,
	})
	if err != nil {
		utils.MapError(c, err)
		return
	}

	utils.Created(c, "Billed", gin.H{"id": bill.ID, "totalCost": bill.TotalCost})
}

// GetBills lists bills, optionally filtered by pet_id or status.
func (h *BillingHandler) GetBills(c *gin.Context) {
	bills, err := h.Service.ListBills(c.Request.Context(), billing.ListFilter{
		PetID:  c.Query("pet_id"),
		Status: models.BillStatus(c.Query("status")),
	})
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Bills fetched successfully", bills)
}

// GetBillByID fetches one bill with line items, for receipt display.
func (h *BillingHandler) GetBillByID(c *gin.Context) {
	bill, err := h.Service.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Bill fetched successfully", bill)
}

// UpdateBillStatusRequest is the only mutation a bill accepts after
// creation. Arbitrary field patches are deliberately not exposed; they
// could corrupt the snapshotted total.
type UpdateBillStatusRequest struct {
	Status models.BillStatus `json:"status" binding:"required,oneof=paid"`
}

// UpdateBillStatus marks a bill paid. Re-marking a paid bill succeeds as
// a no-op.
func (h *BillingHandler) UpdateBillStatus(c *gin.Context) {
	var req UpdateBillStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Service.MarkPaid(c.Request.Context(), c.Param("id")); err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Bill marked as paid", nil)
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vetclinic-server/internal/appointments"
	"vetclinic-server/internal/middleware"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// DiagnosisHandler handles diagnosis requests.
type DiagnosisHandler struct {
	DB           *gorm.DB
	Appointments *appointments.Service
}

// NewDiagnosisHandler creates a new DiagnosisHandler.
func NewDiagnosisHandler(db *gorm.DB, appts *appointments.Service) *DiagnosisHandler {
	return &DiagnosisHandler{DB: db, Appointments: appts}
}

// MedicationPayload is one medicine given during a visit.
type MedicationPayload struct {
	InventoryID string `json:"inventory_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// CreateDiagnosisRequest is the body for recording a visit.
type CreateDiagnosisRequest struct {
	PetID        string              `json:"pet_id" binding:"required"`
	Vaccination  string              `json:"vaccination"`
	Date         string              `json:"date" binding:"required"`
	Weight       float64             `json:"weight"`
	Temperature  float64             `json:"temperature"`
	Test         string              `json:"test"`
	Dx           string              `json:"dx"`
	Rx           string              `json:"rx"`
	Remarks      string              `json:"remarks"`
	FollowUpDate string              `json:"follow_up_date"`
	FollowUpTime string              `json:"follow_up_time"`
	Medications  []MedicationPayload `json:"medications"`
}

// CreateDiagnosis records a visit. Medication lines snapshot name and
// price from inventory (stock is not decremented). A follow-up date
// schedules a new appointment, and the reminder check for it runs in the
// background so a failure there never fails the diagnosis.
func (h *DiagnosisHandler) CreateDiagnosis(c *gin.Context) {
	var req CreateDiagnosisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)

	var pet models.Pet
	if err := h.DB.First(&pet, "id = ?", req.PetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.BadRequest(c, "Pet "+req.PetID+" does not exist")
		} else {
			utils.InternalServerError(c, "Database error verifying pet: "+err.Error())
		}
		return
	}

	diagnosis := models.Diagnosis{
		PetID:        req.PetID,
		Vaccination:  req.Vaccination,
		Date:         req.Date,
		Weight:       req.Weight,
		Temperature:  req.Temperature,
		Test:         req.Test,
		Dx:           req.Dx,
		Rx:           req.Rx,
		Remarks:      req.Remarks,
		FollowUpDate: req.FollowUpDate,
		CreatedBy:    userID,
	}

	for _, med := range req.Medications {
		var stock models.InventoryItem
		if err := h.DB.First(&stock, "id = ?", med.InventoryID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.BadRequest(c, "Inventory item "+med.InventoryID+" does not exist")
			} else {
				utils.InternalServerError(c, "Database error verifying medication: "+err.Error())
			}
			return
		}
		diagnosis.Medications = append(diagnosis.Medications, models.DiagnosisMedication{
			InventoryID: med.InventoryID,
			Name:        stock.Name,
			Quantity:    med.Quantity,
			UnitPrice:   stock.Price,
		})
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&diagnosis).Error
	}); err != nil {
		utils.InternalServerError(c, "Failed to save diagnosis: "+err.Error())
		return
	}

	response := gin.H{"id": diagnosis.ID}

	if req.FollowUpDate != "" {
		followUpTime := req.FollowUpTime
		if followUpTime == "" {
			followUpTime = "09:00:00"
		}
		appt, err := h.Appointments.Create(c.Request.Context(), appointments.CreateInput{
			PetID:     req.PetID,
			Date:      req.FollowUpDate,
			Time:      followUpTime,
			Reason:    "Follow-up check-up",
			CreatedBy: userID,
		})
		if err != nil {
			// The diagnosis itself is saved; report the follow-up problem
			// without failing the whole request.
			response["followUpError"] = err.Error()
		} else {
			response["followUpAppointmentId"] = appt.ID
		}
	}

	utils.Created(c, "Diagnosis saved successfully", response)
}

// GetDiagnoses lists all diagnoses with medication lines.
func (h *DiagnosisHandler) GetDiagnoses(c *gin.Context) {
	var diagnoses []models.Diagnosis
	if err := h.DB.Preload("Medications").Order("date desc").Find(&diagnoses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch diagnoses: "+err.Error())
		return
	}
	utils.Success(c, "Diagnoses fetched successfully", diagnoses)
}

// DeleteDiagnosis removes a diagnosis and its medication lines.
func (h *DiagnosisHandler) DeleteDiagnosis(c *gin.Context) {
	id := c.Param("id")
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.DiagnosisMedication{}, "diagnosis_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Diagnosis{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Diagnosis not found")
		} else {
			utils.InternalServerError(c, "Failed to delete diagnosis: "+err.Error())
		}
		return
	}
	utils.Success(c, "Diagnosis deleted successfully", nil)
}

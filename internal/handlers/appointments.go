package handlers

import (
	"github.com/gin-gonic/gin"

	"vetclinic-server/internal/appointments"
	"vetclinic-server/internal/middleware"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *appointments.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *appointments.Service) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	PetID     string `json:"pet_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time"`
	Frequency string `json:"frequency" binding:"omitempty,oneof=once weekly monthly 3months 6months"`
	Reason    string `json:"reason"`
}

// CreateAppointment schedules a new visit. The response does not wait for
// the reminder check; that runs in the background.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)

	appt, err := h.Service.Create(c.Request.Context(), appointments.CreateInput{
		PetID:     req.PetID,
		Date:      req.Date,
		Time:      req.Time,
		Frequency: models.AppointmentFrequency(req.Frequency),
		Reason:    req.Reason,
		CreatedBy: userID,
	})
	if err != nil {
		utils.MapError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", appt)
}

// GetAppointments lists all appointments.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appts, err := h.Service.List(c.Request.Context())
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// GetAppointmentByID fetches a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.MapError(c, err)
		return
	}
	appt.Status = models.NormalizeStatus(appt.Status)
	utils.Success(c, "Appointment fetched successfully", appt)
}

// UpdateAppointmentRequest represents the request body for rescheduling.
type UpdateAppointmentRequest struct {
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Frequency *string `json:"frequency" binding:"omitempty,oneof=once weekly monthly 3months 6months"`
	Reason    *string `json:"reason"`
}

// UpdateAppointment reschedules a Scheduled appointment. A reschedule
// into the reminder window re-triggers the scoped dispatch.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	input := appointments.UpdateInput{
		Date:   req.Date,
		Time:   req.Time,
		Reason: req.Reason,
	}
	if req.Frequency != nil {
		freq := models.AppointmentFrequency(*req.Frequency)
		input.Frequency = &freq
	}

	appt, err := h.Service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appt)
}

// UpdateAppointmentStatusRequest represents a status transition request.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=completed cancelled"`
}

// UpdateAppointmentStatus handles the two allowed transitions:
// Scheduled -> completed and Scheduled -> cancelled.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appt *models.Appointment
	var err error
	if req.Status == models.StatusCompleted {
		appt, err = h.Service.Complete(c.Request.Context(), c.Param("id"))
	} else {
		appt, err = h.Service.Cancel(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", appt)
}

// DeleteAppointment soft-cancels the appointment. The row is kept so the
// cancelled status keeps suppressing reminders.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	appt, err := h.Service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", appt)
}

package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vetclinic-server/internal/reminder"
	"vetclinic-server/internal/utils"
)

// ReminderHandler exposes the manual send and cron sweep endpoints.
type ReminderHandler struct {
	Dispatcher *reminder.Dispatcher
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(dispatcher *reminder.Dispatcher) *ReminderHandler {
	return &ReminderHandler{Dispatcher: dispatcher}
}

// SendSMSRequest is the body for the staff "send now" action.
type SendSMSRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=1d sameday"`
}

// SendSMS sends one reminder immediately, bypassing the date window.
// Unlike the sweep, gateway failures here are reported to the caller so
// staff get feedback.
func (h *ReminderHandler) SendSMS(c *gin.Context) {
	var req SendSMSRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	err := h.Dispatcher.SendManual(c.Request.Context(), req.AppointmentID, reminder.Type(req.Type))
	if err != nil {
		if errors.Is(err, reminder.ErrAlreadySent) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.MapError(c, err)
		return
	}

	utils.Success(c, "SMS sent successfully", nil)
}

// SendReminders runs the full sweep. Intended for a scheduler, not a
// human; per-appointment failures are collected in the result, never
// failing the sweep.
func (h *ReminderHandler) SendReminders(c *gin.Context) {
	result, err := h.Dispatcher.Sweep(c.Request.Context())
	if err != nil {
		utils.MapError(c, err)
		return
	}
	utils.Success(c, "Reminders processed", result)
}

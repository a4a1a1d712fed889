package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vetclinic-server/internal/models"
)

var manila = time.FixedZone("PHT", 8*60*60)

func TestDecideSameDay(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, manila)
	appt := &models.Appointment{Date: "2025-06-15", Status: models.StatusScheduled}

	decision := Decide(appt, today)
	if assert.NotNil(t, decision) {
		assert.Equal(t, TypeSameDay, decision.Type)
	}
}

func TestDecideDayBefore(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, manila)
	appt := &models.Appointment{Date: "2025-06-16", Status: models.StatusScheduled}

	decision := Decide(appt, today)
	if assert.NotNil(t, decision) {
		assert.Equal(t, Type1D, decision.Type)
	}
}

func TestDecideOutsideWindow(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, manila)

	assert.Nil(t, Decide(&models.Appointment{Date: "2025-06-14", Status: models.StatusScheduled}, today))
	assert.Nil(t, Decide(&models.Appointment{Date: "2025-06-20", Status: models.StatusScheduled}, today))
}

func TestDecideSkipsAlreadySentFlags(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, manila)

	sameDay := &models.Appointment{Date: "2025-06-15", Status: models.StatusScheduled, SMSSameDaySent: true}
	assert.Nil(t, Decide(sameDay, today))

	dayBefore := &models.Appointment{Date: "2025-06-16", Status: models.StatusScheduled, SMS1DSent: true}
	assert.Nil(t, Decide(dayBefore, today))
}

func TestDecideNeverRemindsTerminalAppointments(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, manila)
	dates := []string{"2025-06-14", "2025-06-15", "2025-06-16"}

	for _, status := range []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled} {
		for _, date := range dates {
			appt := &models.Appointment{Date: date, Status: status}
			assert.Nil(t, Decide(appt, today), "status=%s date=%s", status, date)
		}
	}
}

func TestDecideLegacyStatusesStillRemind(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, manila)

	for _, status := range []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed} {
		appt := &models.Appointment{Date: "2025-06-15", Status: status}
		decision := Decide(appt, today)
		if assert.NotNil(t, decision, "status=%s", status) {
			assert.Equal(t, TypeSameDay, decision.Type)
		}
	}
}

// A host in UTC at 23:30 on June 15 is already June 16, 07:30 clinic-local.
// The policy must see June 16 as "today".
func TestDecideUsesClinicTimezone(t *testing.T) {
	hostNow := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	today := hostNow.In(manila)

	june16 := &models.Appointment{Date: "2025-06-16", Status: models.StatusScheduled}
	decision := Decide(june16, today)
	if assert.NotNil(t, decision) {
		assert.Equal(t, TypeSameDay, decision.Type)
	}

	// June 15 is already over in clinic time; no same-day reminder.
	june15 := &models.Appointment{Date: "2025-06-15", Status: models.StatusScheduled}
	assert.Nil(t, Decide(june15, today))

	// June 17 is now "tomorrow".
	june17 := &models.Appointment{Date: "2025-06-17", Status: models.StatusScheduled}
	decision = Decide(june17, today)
	if assert.NotNil(t, decision) {
		assert.Equal(t, Type1D, decision.Type)
	}
}

package reminder

import (
	"time"

	"vetclinic-server/internal/models"
)

// Type identifies which reminder a decision refers to.
type Type string

const (
	TypeSameDay Type = "sameday"
	Type1D      Type = "1d"
)

// Decision says a reminder is due and which flag to set after a
// confirmed send.
type Decision struct {
	Type Type
}

// Decide is the pure reminder policy. today must already be in the
// clinic's timezone; the appointment date is compared as a clinic-local
// YYYY-MM-DD string. Terminal appointments never get reminders. The
// same-day check runs first so it wins if clock skew ever made both
// windows match.
func Decide(appt *models.Appointment, today time.Time) *Decision {
	if appt.IsTerminal() {
		return nil
	}

	todayStr := today.Format("2006-01-02")
	tomorrowStr := today.AddDate(0, 0, 1).Format("2006-01-02")

	switch {
	case appt.Date == todayStr && !appt.SMSSameDaySent:
		return &Decision{Type: TypeSameDay}
	case appt.Date == tomorrowStr && !appt.SMS1DSent:
		return &Decision{Type: Type1D}
	default:
		return nil
	}
}

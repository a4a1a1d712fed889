package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"

	// Legacy statuses still present in migrated rows. They behave as
	// Scheduled everywhere; NormalizeStatus maps them for display.
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
)

// AppointmentFrequency is advisory only; recurring visits are not
// auto-expanded into future rows.
type AppointmentFrequency string

const (
	FrequencyOnce        AppointmentFrequency = "once"
	FrequencyWeekly      AppointmentFrequency = "weekly"
	FrequencyMonthly     AppointmentFrequency = "monthly"
	FrequencyThreeMonths AppointmentFrequency = "3months"
	FrequencySixMonths   AppointmentFrequency = "6months"
)

// Appointment represents a scheduled clinic visit. Date and Time are kept
// as clinic-local strings (YYYY-MM-DD, HH:MM:SS) because the reminder
// policy works on clinic-local date string equality.
type Appointment struct {
	BaseModel
	PetID     string               `gorm:"size:36;index" json:"petId"`
	Date      string               `gorm:"size:10;index" json:"date"`
	Time      string               `gorm:"size:8" json:"time"`
	Frequency AppointmentFrequency `gorm:"size:20;default:'once'" json:"frequency"`
	Reason    string               `gorm:"size:255" json:"reason"`
	Status    AppointmentStatus    `gorm:"size:20;default:'Scheduled'" json:"status"`
	CreatedBy string               `gorm:"size:36" json:"createdBy,omitempty"`

	// Reminder flags are monotonic: they only ever move false -> true,
	// and only after a confirmed gateway send.
	SMS1DSent      bool `gorm:"column:sms_1d_sent;default:false" json:"sms1dSent"`
	SMSSameDaySent bool `gorm:"column:sms_sameday_sent;default:false" json:"smsSamedaySent"`

	Pet Pet `gorm:"foreignKey:PetID" json:"pet,omitempty"`
}

// NormalizeStatus maps legacy statuses onto Scheduled for display.
func NormalizeStatus(s AppointmentStatus) AppointmentStatus {
	switch s {
	case StatusPending, StatusConfirmed:
		return StatusScheduled
	default:
		return s
	}
}

// IsTerminal reports whether the appointment can no longer change or
// receive reminders.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}

package appointments

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/gorm"

	"vetclinic-server/internal/errs"
	"vetclinic-server/internal/models"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// ReminderTrigger is the slice of the dispatcher the lifecycle needs:
// fire-and-forget re-evaluation scoped to the touched appointment.
type ReminderTrigger interface {
	DispatchAsync(ids ...string)
}

// Service owns the appointment lifecycle: Scheduled is the only live
// state; completed and cancelled are terminal. Cancellation is a status
// transition, never a row delete, so the reminder policy can keep
// honoring "no reminders after terminal status".
type Service struct {
	db       *gorm.DB
	reminder ReminderTrigger
}

// NewService creates an appointment service over the given store handle.
func NewService(db *gorm.DB, reminder ReminderTrigger) *Service {
	return &Service{db: db, reminder: reminder}
}

// CreateInput carries the fields for a new appointment.
type CreateInput struct {
	PetID     string
	Date      string
	Time      string
	Frequency models.AppointmentFrequency
	Reason    string
	CreatedBy string
}

// Create schedules a visit and kicks off a scoped reminder check in the
// background, so a booking for today or tomorrow gets its SMS without
// waiting for the next sweep. The reminder check can never fail the
// create.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Appointment, error) {
	if input.PetID == "" {
		return nil, errs.Validation("pet_id is required")
	}
	if !dateRe.MatchString(input.Date) {
		return nil, errs.Validation("date must be formatted YYYY-MM-DD")
	}
	if input.Time != "" && !timeRe.MatchString(input.Time) {
		return nil, errs.Validation("time must be formatted HH:MM or HH:MM:SS")
	}

	var pet models.Pet
	if err := s.db.WithContext(ctx).First(&pet, "id = ?", input.PetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Validation("pet %s does not exist", input.PetID)
		}
		return nil, errs.Persistence("load pet", err)
	}

	frequency := input.Frequency
	if frequency == "" {
		frequency = models.FrequencyOnce
	}

	appt := models.Appointment{
		PetID:     input.PetID,
		Date:      input.Date,
		Time:      input.Time,
		Frequency: frequency,
		Reason:    input.Reason,
		Status:    models.StatusScheduled,
		CreatedBy: input.CreatedBy,
	}
	if err := s.db.WithContext(ctx).Create(&appt).Error; err != nil {
		return nil, errs.Persistence("create appointment", err)
	}

	s.reminder.DispatchAsync(appt.ID)
	return &appt, nil
}

// UpdateInput carries reschedule fields. Nil pointers leave the column
// untouched.
type UpdateInput struct {
	Date      *string
	Time      *string
	Frequency *models.AppointmentFrequency
	Reason    *string
}

// Update reschedules a Scheduled appointment and re-triggers the scoped
// reminder check. Moving into today/tomorrow can still fire a reminder;
// moving out of the window never un-sets flags that are already true.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*models.Appointment, error) {
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.IsTerminal() {
		return nil, errs.Validation("appointment %s is %s and cannot be modified", id, appt.Status)
	}

	if input.Date != nil {
		if !dateRe.MatchString(*input.Date) {
			return nil, errs.Validation("date must be formatted YYYY-MM-DD")
		}
		appt.Date = *input.Date
	}
	if input.Time != nil {
		if *input.Time != "" && !timeRe.MatchString(*input.Time) {
			return nil, errs.Validation("time must be formatted HH:MM or HH:MM:SS")
		}
		appt.Time = *input.Time
	}
	if input.Frequency != nil {
		appt.Frequency = *input.Frequency
	}
	if input.Reason != nil {
		appt.Reason = *input.Reason
	}

	if err := s.db.WithContext(ctx).Save(appt).Error; err != nil {
		return nil, errs.Persistence("update appointment", err)
	}

	s.reminder.DispatchAsync(appt.ID)
	return appt, nil
}

// Complete transitions Scheduled -> completed. No reminder implication.
func (s *Service) Complete(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCompleted)
}

// Cancel transitions Scheduled -> cancelled. Once cancelled the reminder
// policy returns nothing for this appointment, permanently. Cancelling an
// already-cancelled appointment is a no-op success.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id string, target models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.Status == target {
		return appt, nil
	}
	if appt.IsTerminal() {
		return nil, errs.Validation("appointment %s is already %s", id, appt.Status)
	}

	appt.Status = target
	if err := s.db.WithContext(ctx).Save(appt).Error; err != nil {
		return nil, errs.Persistence("update appointment status", err)
	}
	return appt, nil
}

// Get loads one appointment with pet and owner preloaded.
func (s *Service) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).Preload("Pet.Owner").First(&appt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("appointment", id)
		}
		return nil, errs.Persistence("load appointment", err)
	}
	return &appt, nil
}

// List returns appointments ordered by date and time. Legacy statuses are
// normalized so old rows display as Scheduled.
func (s *Service) List(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.WithContext(ctx).Preload("Pet.Owner").
		Order("date asc, time asc").
		Find(&appointments).Error
	if err != nil {
		return nil, errs.Persistence("list appointments", err)
	}
	for i := range appointments {
		appointments[i].Status = models.NormalizeStatus(appointments[i].Status)
	}
	return appointments, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("appointment", id)
		}
		return nil, errs.Persistence("load appointment", err)
	}
	return &appt, nil
}

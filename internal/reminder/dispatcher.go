package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"vetclinic-server/internal/errs"
	"vetclinic-server/internal/models"
)

// ErrAlreadySent is returned by SendManual when the requested reminder's
// flag is already set.
var ErrAlreadySent = errors.New("reminder already sent for this appointment")

// Gateway is the SMS side of the dispatcher; sms.Client satisfies it and
// tests plug in fakes.
type Gateway interface {
	Send(ctx context.Context, number, message string) error
}

// SendFailure records one appointment whose reminder could not be sent
// during a batch. Failures never abort the rest of the batch.
type SendFailure struct {
	AppointmentID string `json:"appointmentId"`
	Reason        string `json:"reason"`
}

// Result summarizes one dispatcher invocation.
type Result struct {
	SentCount int           `json:"sentCount"`
	Failures  []SendFailure `json:"failures,omitempty"`
}

// Dispatcher runs the reminder policy over appointments and talks to the
// SMS gateway. The one hard invariant: a reminder flag is persisted only
// after the gateway confirms the send. A duplicate SMS after a failed flag
// write is accepted; a silently skipped reminder is not.
type Dispatcher struct {
	db      *gorm.DB
	gateway Gateway
	loc     *time.Location
	logger  *slog.Logger
	now     func() time.Time
}

// NewDispatcher creates a dispatcher. loc is the clinic's timezone; all
// date matching happens there regardless of the host zone.
func NewDispatcher(db *gorm.DB, gateway Gateway, loc *time.Location, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		db:      db,
		gateway: gateway,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}
}

// WithNow overrides the dispatcher's clock. Test hook.
func (d *Dispatcher) WithNow(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Sweep is the cron path: it processes every open appointment dated today
// or tomorrow (clinic-local).
func (d *Dispatcher) Sweep(ctx context.Context) (*Result, error) {
	today := d.today()
	todayStr := today.Format("2006-01-02")
	tomorrowStr := today.AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []models.Appointment
	err := d.db.WithContext(ctx).
		Preload("Pet.Owner").
		Where("date IN ?", []string{todayStr, tomorrowStr}).
		Where("status NOT IN ?", []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled}).
		Find(&appointments).Error
	if err != nil {
		return nil, errs.Persistence("load sweep candidates", err)
	}

	return d.processBatch(ctx, appointments), nil
}

// DispatchFor is the scoped path used right after an appointment is
// created or updated. Unknown ids are skipped silently; the appointment
// may have been removed since the trigger fired.
func (d *Dispatcher) DispatchFor(ctx context.Context, ids ...string) (*Result, error) {
	if len(ids) == 0 {
		return &Result{}, nil
	}

	var appointments []models.Appointment
	err := d.db.WithContext(ctx).
		Preload("Pet.Owner").
		Where("id IN ?", ids).
		Find(&appointments).Error
	if err != nil {
		return nil, errs.Persistence("load appointments", err)
	}

	return d.processBatch(ctx, appointments), nil
}

// DispatchAsync runs DispatchFor on a background goroutine with its own
// error boundary, so a reminder failure can never fail the request that
// triggered it.
func (d *Dispatcher) DispatchAsync(ids ...string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("reminder dispatch panic", "recover", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := d.DispatchFor(ctx, ids...); err != nil {
			d.logger.Error("background reminder dispatch failed", "ids", ids, "error", err)
		}
	}()
}

// SendManual is the staff "send now" path. It bypasses the policy's date
// check but still refuses terminal appointments, still skips an
// already-sent reminder, and still sets the flag only after the gateway
// confirms.
func (d *Dispatcher) SendManual(ctx context.Context, appointmentID string, typ Type) error {
	if typ != TypeSameDay && typ != Type1D {
		return errs.Validation("type must be %q or %q", TypeSameDay, Type1D)
	}

	var appt models.Appointment
	err := d.db.WithContext(ctx).Preload("Pet.Owner").First(&appt, "id = ?", appointmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("appointment", appointmentID)
		}
		return errs.Persistence("load appointment", err)
	}

	if appt.IsTerminal() {
		return errs.Validation("appointment %s is %s and cannot receive reminders", appt.ID, appt.Status)
	}
	if (typ == TypeSameDay && appt.SMSSameDaySent) || (typ == Type1D && appt.SMS1DSent) {
		return ErrAlreadySent
	}
	if appt.Pet.Owner.Contact == "" {
		return errs.Validation("owner contact number not found for appointment %s", appt.ID)
	}

	message := RenderMessage(typ, appt.Pet.Owner.Name, appt.Pet.Name, FormatTime12h(appt.Time), appt.Reason)
	if err := d.gateway.Send(ctx, appt.Pet.Owner.Contact, message); err != nil {
		return errs.Gateway("send", err)
	}

	return d.setFlag(ctx, appt.ID, typ)
}

func (d *Dispatcher) processBatch(ctx context.Context, appointments []models.Appointment) *Result {
	result := &Result{}
	today := d.today()

	for i := range appointments {
		appt := &appointments[i]
		decision := Decide(appt, today)
		if decision == nil {
			continue
		}
		if appt.Pet.Owner.Contact == "" {
			d.logger.Warn("skipping reminder, owner has no contact number",
				"appointment", appt.ID, "pet", appt.Pet.Name)
			continue
		}

		message := RenderMessage(decision.Type, appt.Pet.Owner.Name, appt.Pet.Name, FormatTime12h(appt.Time), appt.Reason)
		if err := d.gateway.Send(ctx, appt.Pet.Owner.Contact, message); err != nil {
			d.logger.Error("reminder send failed",
				"appointment", appt.ID, "type", decision.Type, "error", err)
			result.Failures = append(result.Failures, SendFailure{
				AppointmentID: appt.ID,
				Reason:        err.Error(),
			})
			continue
		}

		if err := d.setFlag(ctx, appt.ID, decision.Type); err != nil {
			// The SMS went out but the flag write failed; a later
			// invocation may send a duplicate. Log for reconciliation,
			// do not re-send.
			d.logger.Error("reminder flag write failed after successful send",
				"appointment", appt.ID, "type", decision.Type, "error", err)
		}
		result.SentCount++
	}

	return result
}

// setFlag marks the reminder as sent with a conditional update so
// overlapping invocations cannot both claim the transition.
func (d *Dispatcher) setFlag(ctx context.Context, appointmentID string, typ Type) error {
	column := "sms_1d_sent"
	if typ == TypeSameDay {
		column = "sms_sameday_sent"
	}

	res := d.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Where(column+" = ?", false).
		Update(column, true)
	if res.Error != nil {
		return errs.Persistence("set reminder flag", res.Error)
	}
	if res.RowsAffected == 0 {
		// A concurrent invocation set it first; the reminder is sent
		// either way.
		d.logger.Info("reminder flag already set", "appointment", appointmentID, "type", typ)
	}
	return nil
}

func (d *Dispatcher) today() time.Time {
	return d.now().In(d.loc)
}

package scheduling

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/platform/outcome"
)

// AppointmentDAO is the boolean / empty-result facade over the
// appointment service.
type AppointmentDAO struct {
	svc    *Service
	logger zerolog.Logger
}

func NewAppointmentDAO(svc *Service, logger zerolog.Logger) *AppointmentDAO {
	return &AppointmentDAO{svc: svc, logger: logger.With().Str("dao", "appointment").Logger()}
}

func (d *AppointmentDAO) AddAppointment(ctx context.Context, a *Appointment) bool {
	return d.ok(d.svc.CreateAppointment(ctx, a), "add", a.AppointmentID)
}

func (d *AppointmentDAO) GetAllAppointments(ctx context.Context) []*Appointment {
	appts, err := d.svc.ListAppointments(ctx)
	return d.orEmpty(appts, err, "list", "")
}

func (d *AppointmentDAO) GetAppointmentByID(ctx context.Context, appointmentID string) *Appointment {
	a, err := d.svc.GetAppointment(ctx, appointmentID)
	if err != nil {
		d.log(err, "get", appointmentID)
		return nil
	}
	return a
}

func (d *AppointmentDAO) GetAppointmentsByDate(ctx context.Context, date time.Time) []*Appointment {
	appts, err := d.svc.ListAppointmentsByDate(ctx, date)
	return d.orEmpty(appts, err, "by_date", date.Format(DateLayout))
}

func (d *AppointmentDAO) GetAppointmentsByDoctor(ctx context.Context, doctorID string) []*Appointment {
	appts, err := d.svc.ListAppointmentsByDoctor(ctx, doctorID)
	return d.orEmpty(appts, err, "by_doctor", doctorID)
}

func (d *AppointmentDAO) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status Status) bool {
	return d.ok(d.svc.UpdateAppointmentStatus(ctx, appointmentID, status), "update_status", appointmentID)
}

func (d *AppointmentDAO) UpdateAppointmentDetails(ctx context.Context, a *Appointment) bool {
	return d.ok(d.svc.UpdateAppointmentDetails(ctx, a), "update_details", a.AppointmentID)
}

func (d *AppointmentDAO) DeleteAppointment(ctx context.Context, appointmentID string) bool {
	return d.ok(d.svc.DeleteAppointment(ctx, appointmentID), "delete", appointmentID)
}

// IsTimeSlotAvailable reports false when the check itself fails.
func (d *AppointmentDAO) IsTimeSlotAvailable(ctx context.Context, doctorID string, date time.Time, at TimeOfDay) bool {
	free, err := d.svc.IsTimeSlotAvailable(ctx, doctorID, date, at)
	if err != nil {
		d.log(err, "slot", doctorID)
		return false
	}
	return free
}

func (d *AppointmentDAO) CountAppointments(ctx context.Context) int {
	n, err := d.svc.CountAppointments(ctx)
	if err != nil {
		d.log(err, "count", "")
		return 0
	}
	return n
}

func (d *AppointmentDAO) ok(err error, op, id string) bool {
	if err != nil {
		d.log(err, op, id)
		return false
	}
	return true
}

func (d *AppointmentDAO) orEmpty(appts []*Appointment, err error, op, key string) []*Appointment {
	if err != nil {
		d.log(err, op, key)
		return []*Appointment{}
	}
	if appts == nil {
		return []*Appointment{}
	}
	return appts
}

func (d *AppointmentDAO) log(err error, op, key string) {
	kind := outcome.KindOf(err)
	level := zerolog.WarnLevel
	if kind == outcome.KindConnectivity || kind == outcome.KindUnknown {
		level = zerolog.ErrorLevel
	}
	d.logger.WithLevel(level).Err(err).
		Str("op", op).
		Str("key", key).
		Str("kind", kind.String()).
		Msg("storage operation failed")
}

package scheduling

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/ehr/hms/internal/platform/outcome"
)

type Service struct {
	appointments AppointmentRepository
}

func NewService(appt AppointmentRepository) *Service {
	return &Service{appointments: appt}
}

// CreateAppointment defaults the status to Scheduled, then refuses the
// booking when the doctor already has a non-cancelled appointment at that
// exact date and time. The check and the insert are separate statements.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	const op = "appointment.create"
	if strings.TrimSpace(a.AppointmentID) == "" {
		return outcome.Validation(op, "appointment_id is required")
	}
	if strings.TrimSpace(a.PatientID) == "" {
		return outcome.Validation(op, "patient_id is required")
	}
	if strings.TrimSpace(a.DoctorID) == "" {
		return outcome.Validation(op, "doctor_id is required")
	}
	if a.AppointmentDate.IsZero() {
		return outcome.Validation(op, "appointment_date is required")
	}
	if !a.AppointmentTime.IsSet() {
		return outcome.Validation(op, "appointment_time is required")
	}
	if strings.TrimSpace(a.Reason) == "" {
		return outcome.Validation(op, "reason is required")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if err := validateStatus(op, a.Status); err != nil {
		return err
	}
	if !validFee(a.Fee) {
		return outcome.Validation(op, "fee must be a non-negative number")
	}

	free, err := s.IsTimeSlotAvailable(ctx, a.DoctorID, a.AppointmentDate, a.AppointmentTime)
	if err != nil {
		return err
	}
	if !free {
		return outcome.Conflict(op, "doctor %s already has an appointment on %s at %s",
			a.DoctorID, a.DateString(), a.AppointmentTime)
	}
	return s.appointments.Create(ctx, a)
}

// IsTimeSlotAvailable is true iff no appointment other than a Cancelled
// one exists for exactly this doctor, date and time. Completed and No-Show
// appointments still hold the slot.
func (s *Service) IsTimeSlotAvailable(ctx context.Context, doctorID string, date time.Time, at TimeOfDay) (bool, error) {
	n, err := s.appointments.CountActiveAt(ctx, doctorID, date, at)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (s *Service) GetAppointment(ctx context.Context, appointmentID string) (*Appointment, error) {
	return s.appointments.GetByAppointmentID(ctx, appointmentID)
}

func (s *Service) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.appointments.List(ctx)
}

func (s *Service) ListAppointmentsByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	return s.appointments.ListByDate(ctx, date)
}

func (s *Service) ListAppointmentsByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorID)
}

func (s *Service) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status Status) error {
	if err := validateStatus("appointment.update_status", status); err != nil {
		return err
	}
	return s.appointments.UpdateStatus(ctx, appointmentID, status)
}

// UpdateAppointmentDetails overwrites diagnosis, prescription, fee and
// status; the other fields of a are ignored.
func (s *Service) UpdateAppointmentDetails(ctx context.Context, a *Appointment) error {
	const op = "appointment.update_details"
	if err := validateStatus(op, a.Status); err != nil {
		return err
	}
	if !validFee(a.Fee) {
		return outcome.Validation(op, "fee must be a non-negative number")
	}
	return s.appointments.UpdateDetails(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, appointmentID string) error {
	return s.appointments.Delete(ctx, appointmentID)
}

func (s *Service) CountAppointments(ctx context.Context) (int, error) {
	return s.appointments.Count(ctx)
}

func validateStatus(op string, status Status) error {
	if !status.Valid() {
		return outcome.Validation(op, "invalid status %q", status)
	}
	return nil
}

// validFee also rejects NaN and +Inf, which compare false against zero.
func validFee(fee float64) bool {
	return fee >= 0 && !math.IsInf(fee, 1)
}

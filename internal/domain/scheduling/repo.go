package scheduling

import (
	"context"
	"time"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	List(ctx context.Context) ([]*Appointment, error)
	GetByAppointmentID(ctx context.Context, appointmentID string) (*Appointment, error)
	ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID string, status Status) error
	UpdateDetails(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, appointmentID string) error

	// CountActiveAt counts appointments that are not Cancelled at exactly
	// this doctor, date and time.
	CountActiveAt(ctx context.Context, doctorID string, date time.Time, at TimeOfDay) (int, error)
	Count(ctx context.Context) (int, error)
}

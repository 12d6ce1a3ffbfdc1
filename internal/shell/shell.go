// Package shell is the presentation layer shared by the CLI and any other
// front end. It turns form input into single DAO calls, keeps one table per
// entity, and reloads all three after every successful change.
package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/domain/identity"
	"github.com/ehr/hms/internal/domain/scheduling"
	"github.com/ehr/hms/internal/platform/table"
)

type PatientStore interface {
	AddPatient(ctx context.Context, p *identity.Patient) bool
	GetAllPatients(ctx context.Context) []*identity.Patient
	GetPatientByID(ctx context.Context, patientID string) *identity.Patient
	UpdatePatient(ctx context.Context, p *identity.Patient) bool
	DeletePatient(ctx context.Context, patientID string) bool
	SearchPatientsByName(ctx context.Context, name string) []*identity.Patient
}

type DoctorStore interface {
	AddDoctor(ctx context.Context, d *identity.Doctor) bool
	GetAllDoctors(ctx context.Context) []*identity.Doctor
	GetDoctorByID(ctx context.Context, doctorID string) *identity.Doctor
	GetDoctorsBySpecialization(ctx context.Context, specialization string) []*identity.Doctor
	GetAvailableDoctors(ctx context.Context) []*identity.Doctor
	GetAllSpecializations(ctx context.Context) []string
	UpdateDoctor(ctx context.Context, d *identity.Doctor) bool
	DeleteDoctor(ctx context.Context, doctorID string) bool
}

type AppointmentStore interface {
	AddAppointment(ctx context.Context, a *scheduling.Appointment) bool
	GetAllAppointments(ctx context.Context) []*scheduling.Appointment
	GetAppointmentByID(ctx context.Context, appointmentID string) *scheduling.Appointment
	GetAppointmentsByDate(ctx context.Context, date time.Time) []*scheduling.Appointment
	GetAppointmentsByDoctor(ctx context.Context, doctorID string) []*scheduling.Appointment
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status scheduling.Status) bool
	UpdateAppointmentDetails(ctx context.Context, a *scheduling.Appointment) bool
	DeleteAppointment(ctx context.Context, appointmentID string) bool
	IsTimeSlotAvailable(ctx context.Context, doctorID string, date time.Time, at scheduling.TimeOfDay) bool
}

// ActionResult is what a front end shows the user after an action.
type ActionResult struct {
	OK      bool
	Message string
}

func success(format string, args ...interface{}) ActionResult {
	return ActionResult{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...interface{}) ActionResult {
	return ActionResult{Message: fmt.Sprintf(format, args...)}
}

// Shell owns the three tables the front ends render.
type Shell struct {
	patients     PatientStore
	doctors      DoctorStore
	appointments AppointmentStore
	logger       zerolog.Logger

	Patients     *table.Table[*identity.Patient]
	Doctors      *table.Table[*identity.Doctor]
	Appointments *table.Table[*scheduling.Appointment]
}

func New(patients PatientStore, doctors DoctorStore, appointments AppointmentStore, logger zerolog.Logger) *Shell {
	return &Shell{
		patients:     patients,
		doctors:      doctors,
		appointments: appointments,
		logger:       logger.With().Str("component", "shell").Logger(),
		Patients:     table.New(nil, identity.PatientColumns),
		Doctors:      table.New(nil, identity.DoctorColumns),
		Appointments: table.New(nil, scheduling.AppointmentColumns),
	}
}

// Reload runs three independent full scans. A write landing between them
// can leave the counts briefly inconsistent.
func (s *Shell) Reload(ctx context.Context) {
	s.Patients.ReplaceData(s.patients.GetAllPatients(ctx))
	s.Doctors.ReplaceData(s.doctors.GetAllDoctors(ctx))
	s.Appointments.ReplaceData(s.appointments.GetAllAppointments(ctx))
	s.logger.Debug().Interface("summary", s.Summary()).Msg("tables reloaded")
}

type Summary struct {
	Patients     int `json:"patients"`
	Doctors      int `json:"doctors"`
	Appointments int `json:"appointments"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Total Patients: %d | Total Doctors: %d | Total Appointments: %d",
		s.Patients, s.Doctors, s.Appointments)
}

// Summary reports the row counts of the tables as last loaded.
func (s *Shell) Summary() Summary {
	return Summary{
		Patients:     s.Patients.RowCount(),
		Doctors:      s.Doctors.RowCount(),
		Appointments: s.Appointments.RowCount(),
	}
}

// done reloads after a successful mutation.
func (s *Shell) done(ctx context.Context, ok bool, onOK, onFail string, args ...interface{}) ActionResult {
	if !ok {
		return failure(onFail, args...)
	}
	s.Reload(ctx)
	return success(onOK, args...)
}

// -- Patients --

func (s *Shell) AddPatient(ctx context.Context, f PatientForm) ActionResult {
	p, err := f.Parse()
	if err != nil {
		return failure("%s", validationMessage(err))
	}
	return s.done(ctx, s.patients.AddPatient(ctx, p), "Patient %s added successfully", "Failed to add patient %s", p.PatientID)
}

func (s *Shell) UpdatePatient(ctx context.Context, f PatientForm) ActionResult {
	p, err := f.Parse()
	if err != nil {
		return failure("%s", validationMessage(err))
	}
	return s.done(ctx, s.patients.UpdatePatient(ctx, p), "Patient %s updated successfully", "Failed to update patient %s", p.PatientID)
}

func (s *Shell) DeletePatient(ctx context.Context, patientID string) ActionResult {
	return s.done(ctx, s.patients.DeletePatient(ctx, patientID),
		"Patient %s deleted successfully", "Failed to delete patient %s", patientID)
}

// SearchPatients narrows the patient table to names containing name. An
// empty name reloads the full list.
func (s *Shell) SearchPatients(ctx context.Context, name string) {
	if name == "" {
		s.Patients.ReplaceData(s.patients.GetAllPatients(ctx))
		return
	}
	s.Patients.ReplaceData(s.patients.SearchPatientsByName(ctx, name))
}

// -- Doctors --

func (s *Shell) AddDoctor(ctx context.Context, f DoctorForm) ActionResult {
	d, err := f.Parse()
	if err != nil {
		return failure("%s", validationMessage(err))
	}
	return s.done(ctx, s.doctors.AddDoctor(ctx, d), "Doctor %s added successfully", "Failed to add doctor %s", d.DoctorID)
}

func (s *Shell) UpdateDoctor(ctx context.Context, f DoctorForm) ActionResult {
	d, err := f.Parse()
	if err != nil {
		return failure("%s", validationMessage(err))
	}
	return s.done(ctx, s.doctors.UpdateDoctor(ctx, d), "Doctor %s updated successfully", "Failed to update doctor %s", d.DoctorID)
}

func (s *Shell) DeleteDoctor(ctx context.Context, doctorID string) ActionResult {
	return s.done(ctx, s.doctors.DeleteDoctor(ctx, doctorID),
		"Doctor %s deleted successfully", "Failed to delete doctor %s", doctorID)
}

func (s *Shell) AvailableDoctors(ctx context.Context, specialization string) []*identity.Doctor {
	if specialization != "" {
		return s.doctors.GetDoctorsBySpecialization(ctx, specialization)
	}
	return s.doctors.GetAvailableDoctors(ctx)
}

func (s *Shell) Specializations(ctx context.Context) []string {
	return s.doctors.GetAllSpecializations(ctx)
}

// -- Appointments --

// SchedulingOptions is what the booking form offers: every patient and
// only the doctors currently available.
type SchedulingOptions struct {
	Patients []*identity.Patient
	Doctors  []*identity.Doctor
}

func (s *Shell) SchedulingOptions(ctx context.Context) SchedulingOptions {
	return SchedulingOptions{
		Patients: s.patients.GetAllPatients(ctx),
		Doctors:  s.doctors.GetAvailableDoctors(ctx),
	}
}

// ScheduleAppointment refuses unavailable doctors and booked slots before
// attempting the insert.
func (s *Shell) ScheduleAppointment(ctx context.Context, f AppointmentForm) ActionResult {
	a, err := f.Parse()
	if err != nil {
		return failure("%s", validationMessage(err))
	}

	doc := s.doctors.GetDoctorByID(ctx, a.DoctorID)
	if doc == nil || !doc.Available {
		return failure("Doctor %s is not available for new appointments", a.DoctorID)
	}
	if !s.appointments.IsTimeSlotAvailable(ctx, a.DoctorID, a.AppointmentDate, a.AppointmentTime) {
		return failure("This time slot is already booked for doctor %s", a.DoctorID)
	}
	return s.done(ctx, s.appointments.AddAppointment(ctx, a),
		"Appointment %s scheduled successfully", "Failed to schedule appointment %s", a.AppointmentID)
}

func (s *Shell) UpdateAppointment(ctx context.Context, f AppointmentDetailsForm) ActionResult {
	a, err := f.Parse()
	if err != nil {
		return failure("%s", validationMessage(err))
	}
	return s.done(ctx, s.appointments.UpdateAppointmentDetails(ctx, a),
		"Appointment %s updated successfully", "Failed to update appointment %s", a.AppointmentID)
}

func (s *Shell) SetAppointmentStatus(ctx context.Context, appointmentID, status string) ActionResult {
	st, err := scheduling.ParseStatus(status)
	if err != nil {
		return failure("%v", err)
	}
	return s.done(ctx, s.appointments.UpdateAppointmentStatus(ctx, appointmentID, st),
		"Appointment %s status updated", "Failed to update status of appointment %s", appointmentID)
}

// CancelAppointment removes the appointment row.
func (s *Shell) CancelAppointment(ctx context.Context, appointmentID string) ActionResult {
	return s.done(ctx, s.appointments.DeleteAppointment(ctx, appointmentID),
		"Appointment %s cancelled successfully", "Failed to cancel appointment %s", appointmentID)
}

func (s *Shell) AppointmentsOn(ctx context.Context, date string) ([]*scheduling.Appointment, error) {
	d, err := scheduling.ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.appointments.GetAppointmentsByDate(ctx, d), nil
}

func (s *Shell) AppointmentsForDoctor(ctx context.Context, doctorID string) []*scheduling.Appointment {
	return s.appointments.GetAppointmentsByDoctor(ctx, doctorID)
}

// CheckSlot reports whether the doctor is free at that exact date and time.
func (s *Shell) CheckSlot(ctx context.Context, doctorID, date, at string) ActionResult {
	d, err := scheduling.ParseDate(date)
	if err != nil {
		return failure("%v", err)
	}
	t, err := scheduling.ParseTimeOfDay(at)
	if err != nil {
		return failure("%v", err)
	}
	if !s.appointments.IsTimeSlotAvailable(ctx, doctorID, d, t) {
		return failure("Doctor %s is booked on %s at %s", doctorID, d.Format(scheduling.DateLayout), t)
	}
	return success("Doctor %s is free on %s at %s", doctorID, d.Format(scheduling.DateLayout), t)
}

// validationMessage drops the operation prefix for display.
func validationMessage(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}

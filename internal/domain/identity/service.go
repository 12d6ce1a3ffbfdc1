package identity

import (
	"context"
	"math"
	"strings"

	"github.com/ehr/hms/internal/platform/outcome"
)

// Service validates records and returns failures tagged with an
// outcome.Kind.
type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository) *Service {
	return &Service{patients: patients, doctors: doctors}
}

// -- Patient --

func validatePatient(op string, p *Patient) error {
	if strings.TrimSpace(p.PatientID) == "" {
		return outcome.Validation(op, "patient_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return outcome.Validation(op, "name is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return outcome.Validation(op, "phone is required")
	}
	if p.Age < 0 {
		return outcome.Validation(op, "age must not be negative")
	}
	if !p.Gender.Valid() {
		return outcome.Validation(op, "gender must be one of Male, Female, Other")
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validatePatient("patient.create", p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, patientID string) (*Patient, error) {
	return s.patients.GetByPatientID(ctx, patientID)
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.List(ctx)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := validatePatient("patient.update", p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, patientID string) error {
	return s.patients.Delete(ctx, patientID)
}

func (s *Service) SearchPatients(ctx context.Context, name string) ([]*Patient, error) {
	return s.patients.SearchByName(ctx, strings.TrimSpace(name))
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}

// -- Doctor --

func validateDoctor(op string, d *Doctor) error {
	if strings.TrimSpace(d.DoctorID) == "" {
		return outcome.Validation(op, "doctor_id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return outcome.Validation(op, "name is required")
	}
	if strings.TrimSpace(d.Specialization) == "" {
		return outcome.Validation(op, "specialization is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return outcome.Validation(op, "phone is required")
	}
	if strings.TrimSpace(d.Qualification) == "" {
		return outcome.Validation(op, "qualification is required")
	}
	if d.ExperienceYears < 0 {
		return outcome.Validation(op, "experience_years must not be negative")
	}
	if !validFee(d.ConsultationFee) {
		return outcome.Validation(op, "consultation_fee must be a non-negative number")
	}
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if err := validateDoctor("doctor.create", d); err != nil {
		return err
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, doctorID string) (*Doctor, error) {
	return s.doctors.GetByDoctorID(ctx, doctorID)
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if err := validateDoctor("doctor.update", d); err != nil {
		return err
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, doctorID string) error {
	return s.doctors.Delete(ctx, doctorID)
}

// ListDoctorsBySpecialization returns only the available doctors of that
// specialization.
func (s *Service) ListDoctorsBySpecialization(ctx context.Context, specialization string) ([]*Doctor, error) {
	return s.doctors.ListBySpecialization(ctx, specialization)
}

func (s *Service) ListAvailableDoctors(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.ListAvailable(ctx)
}

// Specializations lists the distinct specializations of available doctors.
func (s *Service) Specializations(ctx context.Context) ([]string, error) {
	return s.doctors.Specializations(ctx)
}

func (s *Service) CountDoctors(ctx context.Context) (int, error) {
	return s.doctors.Count(ctx)
}

func validFee(fee float64) bool {
	return fee >= 0 && !math.IsInf(fee, 1)
}

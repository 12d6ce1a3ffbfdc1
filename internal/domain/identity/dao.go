package identity

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/platform/outcome"
)

// PatientDAO is the boolean / empty-result facade over the patient
// service. Every failure is logged with its kind and then reduced to false,
// nil or an empty slice.
type PatientDAO struct {
	svc    *Service
	logger zerolog.Logger
}

func NewPatientDAO(svc *Service, logger zerolog.Logger) *PatientDAO {
	return &PatientDAO{svc: svc, logger: logger.With().Str("dao", "patient").Logger()}
}

func (d *PatientDAO) AddPatient(ctx context.Context, p *Patient) bool {
	return d.ok(d.svc.CreatePatient(ctx, p), "add", p.PatientID)
}

func (d *PatientDAO) GetAllPatients(ctx context.Context) []*Patient {
	patients, err := d.svc.ListPatients(ctx)
	return orEmpty(d.logger, patients, err, "list", "")
}

// GetPatientByID returns nil when the patient is absent or the lookup fails.
func (d *PatientDAO) GetPatientByID(ctx context.Context, patientID string) *Patient {
	p, err := d.svc.GetPatient(ctx, patientID)
	if err != nil {
		logFailure(d.logger, err, "get", patientID)
		return nil
	}
	return p
}

func (d *PatientDAO) UpdatePatient(ctx context.Context, p *Patient) bool {
	return d.ok(d.svc.UpdatePatient(ctx, p), "update", p.PatientID)
}

// DeletePatient is false both when the patient does not exist and when an
// appointment still references it.
func (d *PatientDAO) DeletePatient(ctx context.Context, patientID string) bool {
	return d.ok(d.svc.DeletePatient(ctx, patientID), "delete", patientID)
}

func (d *PatientDAO) SearchPatientsByName(ctx context.Context, name string) []*Patient {
	patients, err := d.svc.SearchPatients(ctx, name)
	return orEmpty(d.logger, patients, err, "search", name)
}

// CountPatients returns 0 on failure.
func (d *PatientDAO) CountPatients(ctx context.Context) int {
	n, err := d.svc.CountPatients(ctx)
	if err != nil {
		logFailure(d.logger, err, "count", "")
		return 0
	}
	return n
}

func (d *PatientDAO) ok(err error, op, id string) bool {
	if err != nil {
		logFailure(d.logger, err, op, id)
		return false
	}
	return true
}

// DoctorDAO is the boolean / empty-result facade over the doctor service.
type DoctorDAO struct {
	svc    *Service
	logger zerolog.Logger
}

func NewDoctorDAO(svc *Service, logger zerolog.Logger) *DoctorDAO {
	return &DoctorDAO{svc: svc, logger: logger.With().Str("dao", "doctor").Logger()}
}

func (d *DoctorDAO) AddDoctor(ctx context.Context, doc *Doctor) bool {
	return d.ok(d.svc.CreateDoctor(ctx, doc), "add", doc.DoctorID)
}

func (d *DoctorDAO) GetAllDoctors(ctx context.Context) []*Doctor {
	doctors, err := d.svc.ListDoctors(ctx)
	return orEmpty(d.logger, doctors, err, "list", "")
}

func (d *DoctorDAO) GetDoctorByID(ctx context.Context, doctorID string) *Doctor {
	doc, err := d.svc.GetDoctor(ctx, doctorID)
	if err != nil {
		logFailure(d.logger, err, "get", doctorID)
		return nil
	}
	return doc
}

func (d *DoctorDAO) GetDoctorsBySpecialization(ctx context.Context, specialization string) []*Doctor {
	doctors, err := d.svc.ListDoctorsBySpecialization(ctx, specialization)
	return orEmpty(d.logger, doctors, err, "by_specialization", specialization)
}

func (d *DoctorDAO) GetAvailableDoctors(ctx context.Context) []*Doctor {
	doctors, err := d.svc.ListAvailableDoctors(ctx)
	return orEmpty(d.logger, doctors, err, "available", "")
}

func (d *DoctorDAO) GetAllSpecializations(ctx context.Context) []string {
	specs, err := d.svc.Specializations(ctx)
	return orEmpty(d.logger, specs, err, "specializations", "")
}

func (d *DoctorDAO) UpdateDoctor(ctx context.Context, doc *Doctor) bool {
	return d.ok(d.svc.UpdateDoctor(ctx, doc), "update", doc.DoctorID)
}

func (d *DoctorDAO) DeleteDoctor(ctx context.Context, doctorID string) bool {
	return d.ok(d.svc.DeleteDoctor(ctx, doctorID), "delete", doctorID)
}

func (d *DoctorDAO) CountDoctors(ctx context.Context) int {
	n, err := d.svc.CountDoctors(ctx)
	if err != nil {
		logFailure(d.logger, err, "count", "")
		return 0
	}
	return n
}

func (d *DoctorDAO) ok(err error, op, id string) bool {
	if err != nil {
		logFailure(d.logger, err, op, id)
		return false
	}
	return true
}

func orEmpty[T any](logger zerolog.Logger, items []T, err error, op, key string) []T {
	if err != nil {
		logFailure(logger, err, op, key)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

func logFailure(logger zerolog.Logger, err error, op, key string) {
	level := zerolog.WarnLevel
	if k := outcome.KindOf(err); k == outcome.KindConnectivity || k == outcome.KindUnknown {
		level = zerolog.ErrorLevel
	}
	logger.WithLevel(level).Err(err).
		Str("op", op).
		Str("key", key).
		Str("kind", outcome.KindOf(err).String()).
		Msg("storage operation failed")
}

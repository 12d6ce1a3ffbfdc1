package identity

import (
	"context"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/ehr/hms/internal/platform/outcome"
)

// -- Mock Patient Repository --

type mockPatientRepo struct {
	patients   map[string]*Patient
	order      []string
	referenced map[string]bool
	nextID     int64
	err        error
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{
		patients:   make(map[string]*Patient),
		referenced: make(map[string]bool),
	}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.patients[p.PatientID]; ok {
		return outcome.Conflict("patient.create", "duplicate patient_id %s", p.PatientID)
	}
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	cp := *p
	m.patients[p.PatientID] = &cp
	m.order = append(m.order, p.PatientID)
	return nil
}

func (m *mockPatientRepo) List(_ context.Context) ([]*Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*Patient
	for i := len(m.order) - 1; i >= 0; i-- {
		if p, ok := m.patients[m.order[i]]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPatientRepo) GetByPatientID(_ context.Context, patientID string) (*Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.patients[patientID]
	if !ok {
		return nil, outcome.NotFound("patient.get", "patient %s", patientID)
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if m.err != nil {
		return m.err
	}
	existing, ok := m.patients[p.PatientID]
	if !ok {
		return outcome.NotFound("patient.update", "patient %s not found", p.PatientID)
	}
	cp := *p
	cp.ID, cp.CreatedAt = existing.ID, existing.CreatedAt
	m.patients[p.PatientID] = &cp
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, patientID string) error {
	if m.err != nil {
		return m.err
	}
	if m.referenced[patientID] {
		return outcome.Conflict("patient.delete", "patient %s is referenced", patientID)
	}
	if _, ok := m.patients[patientID]; !ok {
		return outcome.NotFound("patient.delete", "patient %s not found", patientID)
	}
	delete(m.patients, patientID)
	return nil
}

func (m *mockPatientRepo) SearchByName(_ context.Context, name string) ([]*Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []*Patient
	for _, p := range m.patients {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockPatientRepo) Count(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.patients), nil
}

// -- Mock Doctor Repository --

type mockDoctorRepo struct {
	doctors map[string]*Doctor
	nextID  int64
	err     error
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[string]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.doctors[d.DoctorID]; ok {
		return outcome.Conflict("doctor.create", "duplicate doctor_id %s", d.DoctorID)
	}
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	cp := *d
	m.doctors[d.DoctorID] = &cp
	return nil
}

func (m *mockDoctorRepo) sorted(keep func(*Doctor) bool) []*Doctor {
	var result []*Doctor
	for _, d := range m.doctors {
		if keep(d) {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (m *mockDoctorRepo) List(_ context.Context) ([]*Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(*Doctor) bool { return true }), nil
}

func (m *mockDoctorRepo) GetByDoctorID(_ context.Context, doctorID string) (*Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.doctors[doctorID]
	if !ok {
		return nil, outcome.NotFound("doctor.get", "doctor %s", doctorID)
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.doctors[d.DoctorID]; !ok {
		return outcome.NotFound("doctor.update", "doctor %s not found", d.DoctorID)
	}
	cp := *d
	m.doctors[d.DoctorID] = &cp
	return nil
}

func (m *mockDoctorRepo) Delete(_ context.Context, doctorID string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.doctors[doctorID]; !ok {
		return outcome.NotFound("doctor.delete", "doctor %s not found", doctorID)
	}
	delete(m.doctors, doctorID)
	return nil
}

func (m *mockDoctorRepo) ListBySpecialization(_ context.Context, specialization string) ([]*Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(d *Doctor) bool { return d.Available && d.Specialization == specialization }), nil
}

func (m *mockDoctorRepo) ListAvailable(_ context.Context) ([]*Doctor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(d *Doctor) bool { return d.Available }), nil
}

func (m *mockDoctorRepo) Specializations(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := make(map[string]bool)
	var specs []string
	for _, d := range m.doctors {
		if d.Available && !seen[d.Specialization] {
			seen[d.Specialization] = true
			specs = append(specs, d.Specialization)
		}
	}
	sort.Strings(specs)
	return specs, nil
}

func (m *mockDoctorRepo) Count(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.doctors), nil
}

func newTestService() *Service {
	return NewService(newMockPatientRepo(), newMockDoctorRepo())
}

func testPatient(id, name string) *Patient {
	return &Patient{PatientID: id, Name: name, Age: 30, Gender: GenderFemale, Phone: "555-0100"}
}

func testDoctor(id, name, spec string) *Doctor {
	return &Doctor{
		DoctorID: id, Name: name, Specialization: spec, Phone: "555-0200",
		Qualification: "MBBS", ExperienceYears: 5, ConsultationFee: 500, Available: true,
	}
}

// -- Patient Tests --

func TestService_CreatePatient(t *testing.T) {
	svc := newTestService()
	p := testPatient("PAT001", "Asha Rao")
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected storage id to be set")
	}

	got, err := svc.GetPatient(context.Background(), "PAT001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Asha Rao" || got.Age != 30 || got.Gender != GenderFemale || got.Phone != "555-0100" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestService_CreatePatient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Patient)
	}{
		{"missing id", func(p *Patient) { p.PatientID = "" }},
		{"missing name", func(p *Patient) { p.Name = "  " }},
		{"missing phone", func(p *Patient) { p.Phone = "" }},
		{"negative age", func(p *Patient) { p.Age = -1 }},
		{"unknown gender", func(p *Patient) { p.Gender = "Unknown" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			p := testPatient("PAT001", "Asha Rao")
			tt.mutate(p)
			err := svc.CreatePatient(context.Background(), p)
			if !outcome.Is(err, outcome.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_CreatePatient_Duplicate(t *testing.T) {
	svc := newTestService()
	svc.CreatePatient(context.Background(), testPatient("PAT001", "Asha Rao"))

	err := svc.CreatePatient(context.Background(), testPatient("PAT001", "Someone Else"))
	if !outcome.Is(err, outcome.KindConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestService_UpdatePatient_NotFound(t *testing.T) {
	svc := newTestService()
	err := svc.UpdatePatient(context.Background(), testPatient("PAT404", "Nobody"))
	if !outcome.Is(err, outcome.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	n, _ := svc.CountPatients(context.Background())
	if n != 0 {
		t.Errorf("expected storage unchanged, got %d patients", n)
	}
}

func TestService_DeletePatient_Referenced(t *testing.T) {
	repo := newMockPatientRepo()
	svc := NewService(repo, newMockDoctorRepo())
	svc.CreatePatient(context.Background(), testPatient("PAT001", "Asha Rao"))
	repo.referenced["PAT001"] = true

	err := svc.DeletePatient(context.Background(), "PAT001")
	if !outcome.Is(err, outcome.KindConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
	if _, err := svc.GetPatient(context.Background(), "PAT001"); err != nil {
		t.Errorf("expected patient to remain, got %v", err)
	}
}

func TestService_SearchPatients(t *testing.T) {
	svc := newTestService()
	svc.CreatePatient(context.Background(), testPatient("PAT001", "Asha Rao"))
	svc.CreatePatient(context.Background(), testPatient("PAT002", "Bilal Khan"))
	svc.CreatePatient(context.Background(), testPatient("PAT003", "Rashmi Rao"))

	got, err := svc.SearchPatients(context.Background(), " rao ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Name != "Asha Rao" || got[1].Name != "Rashmi Rao" {
		t.Errorf("expected results ordered by name, got %s, %s", got[0].Name, got[1].Name)
	}
}

// -- Doctor Tests --

func TestService_CreateDoctor_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Doctor)
	}{
		{"missing id", func(d *Doctor) { d.DoctorID = "" }},
		{"missing name", func(d *Doctor) { d.Name = "" }},
		{"missing specialization", func(d *Doctor) { d.Specialization = "" }},
		{"missing phone", func(d *Doctor) { d.Phone = "" }},
		{"missing qualification", func(d *Doctor) { d.Qualification = "" }},
		{"negative experience", func(d *Doctor) { d.ExperienceYears = -2 }},
		{"negative fee", func(d *Doctor) { d.ConsultationFee = -0.5 }},
		{"NaN fee", func(d *Doctor) { d.ConsultationFee = math.NaN() }},
		{"infinite fee", func(d *Doctor) { d.ConsultationFee = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			d := testDoctor("DOC001", "Dr. Mehta", "Cardiology")
			tt.mutate(d)
			if err := svc.CreateDoctor(context.Background(), d); !outcome.Is(err, outcome.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_DoctorFilters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.CreateDoctor(ctx, testDoctor("DOC001", "Dr. Mehta", "Cardiology"))
	svc.CreateDoctor(ctx, testDoctor("DOC002", "Dr. Adams", "Cardiology"))
	svc.CreateDoctor(ctx, testDoctor("DOC003", "Dr. Chen", "Neurology"))
	off := testDoctor("DOC004", "Dr. Bose", "Dermatology")
	off.Available = false
	svc.CreateDoctor(ctx, off)

	cardio, _ := svc.ListDoctorsBySpecialization(ctx, "Cardiology")
	if len(cardio) != 2 || cardio[0].Name != "Dr. Adams" {
		t.Errorf("unexpected cardiology doctors %+v", cardio)
	}

	derm, _ := svc.ListDoctorsBySpecialization(ctx, "Dermatology")
	if len(derm) != 0 {
		t.Errorf("unavailable doctors must not be listed by specialization, got %d", len(derm))
	}

	available, _ := svc.ListAvailableDoctors(ctx)
	if len(available) != 3 {
		t.Errorf("expected 3 available doctors, got %d", len(available))
	}

	specs, _ := svc.Specializations(ctx)
	if strings.Join(specs, ",") != "Cardiology,Neurology" {
		t.Errorf("unexpected specializations %v", specs)
	}

	all, _ := svc.ListDoctors(ctx)
	if len(all) != 4 {
		t.Errorf("expected 4 doctors, got %d", len(all))
	}
}

func TestService_UpdateDoctor_Availability(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	d := testDoctor("DOC001", "Dr. Mehta", "Cardiology")
	svc.CreateDoctor(ctx, d)

	d.Available = false
	if err := svc.UpdateDoctor(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetDoctor(ctx, "DOC001")
	if got.Available {
		t.Error("expected doctor to be unavailable after update")
	}
}

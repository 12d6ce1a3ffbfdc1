package identity

import (
	"context"
	"testing"

	"github.com/ehr/hms/internal/platform/db/dbtest"
	"github.com/ehr/hms/internal/platform/outcome"
)

func TestPatientRepoPG_RoundTrip(t *testing.T) {
	p := dbtest.New(t)
	repo := NewPatientRepo(p)
	ctx := context.Background()

	in := testPatient("PAT001", "Asha Rao")
	in.Email = ptrStr("asha@example.com")
	in.Address = "12 Lake Road"
	in.BloodGroup = "O+"
	in.EmergencyContact = "555-0199"
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if in.ID == 0 || in.CreatedAt.IsZero() {
		t.Errorf("expected storage-assigned id and timestamp, got %+v", in)
	}

	got, err := repo.GetByPatientID(ctx, "PAT001")
	if err != nil {
		t.Fatalf("GetByPatientID: %v", err)
	}
	if got.Name != in.Name || got.Age != in.Age || got.Gender != in.Gender || got.Phone != in.Phone ||
		got.Email == nil || *got.Email != *in.Email || got.Address != in.Address ||
		got.BloodGroup != in.BloodGroup || got.EmergencyContact != in.EmergencyContact {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}

	if err := repo.Create(ctx, testPatient("PAT001", "Duplicate")); !outcome.Is(err, outcome.KindConflict) {
		t.Errorf("expected conflict on duplicate id, got %v", err)
	}
	if _, err := repo.GetByPatientID(ctx, "PAT404"); !outcome.Is(err, outcome.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestPatientRepoPG_UpdateDeleteSearch(t *testing.T) {
	p := dbtest.New(t)
	repo := NewPatientRepo(p)
	ctx := context.Background()

	repo.Create(ctx, testPatient("PAT001", "Asha Rao"))
	repo.Create(ctx, testPatient("PAT002", "Bilal Khan"))

	if err := repo.Update(ctx, testPatient("PAT404", "Nobody")); !outcome.Is(err, outcome.KindNotFound) {
		t.Errorf("expected not found on update, got %v", err)
	}

	upd := testPatient("PAT001", "Asha R. Rao")
	upd.Age = 31
	if err := repo.Update(ctx, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := repo.SearchByName(ctx, "RAO")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(found) != 1 || found[0].Age != 31 {
		t.Errorf("unexpected search result %+v", found)
	}

	all, _ := repo.List(ctx)
	if len(all) != 2 || all[0].PatientID != "PAT002" {
		t.Errorf("expected newest first, got %+v", all)
	}

	if err := repo.Delete(ctx, "PAT404"); !outcome.Is(err, outcome.KindNotFound) {
		t.Errorf("expected not found on delete, got %v", err)
	}
	if err := repo.Delete(ctx, "PAT002"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("expected 1 patient, got %d", n)
	}
}

func TestRepoPG_DeleteReferenced(t *testing.T) {
	p := dbtest.New(t)
	patients, doctors := NewPatientRepo(p), NewDoctorRepo(p)
	ctx := context.Background()

	patients.Create(ctx, testPatient("PAT001", "Asha Rao"))
	doctors.Create(ctx, testDoctor("DOC001", "Dr. Mehta", "Cardiology"))

	pool, err := p.Pool(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO appointments (appointment_id, patient_id, doctor_id, appointment_date, appointment_time, reason)
		VALUES ('APT001', 'PAT001', 'DOC001', '2024-06-01', '09:00', 'checkup')`); err != nil {
		t.Fatalf("insert appointment: %v", err)
	}

	if err := patients.Delete(ctx, "PAT001"); !outcome.Is(err, outcome.KindConflict) {
		t.Errorf("expected conflict deleting referenced patient, got %v", err)
	}
	if err := doctors.Delete(ctx, "DOC001"); !outcome.Is(err, outcome.KindConflict) {
		t.Errorf("expected conflict deleting referenced doctor, got %v", err)
	}
	if n, _ := patients.Count(ctx); n != 1 {
		t.Errorf("expected patient to remain, got %d", n)
	}
}

func TestDoctorRepoPG_Filters(t *testing.T) {
	p := dbtest.New(t)
	repo := NewDoctorRepo(p)
	ctx := context.Background()

	in := testDoctor("DOC001", "Dr. Mehta", "Cardiology")
	in.ConsultationFee = 750.5
	if err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	repo.Create(ctx, testDoctor("DOC002", "Dr. Adams", "Cardiology"))
	off := testDoctor("DOC003", "Dr. Bose", "Dermatology")
	off.Available = false
	repo.Create(ctx, off)

	got, err := repo.GetByDoctorID(ctx, "DOC001")
	if err != nil {
		t.Fatalf("GetByDoctorID: %v", err)
	}
	if got.ConsultationFee != 750.5 || !got.Available || got.Qualification != "MBBS" {
		t.Errorf("round trip mismatch %+v", got)
	}

	cardio, _ := repo.ListBySpecialization(ctx, "Cardiology")
	if len(cardio) != 2 || cardio[0].Name != "Dr. Adams" {
		t.Errorf("unexpected cardiology list %+v", cardio)
	}
	if derm, _ := repo.ListBySpecialization(ctx, "Dermatology"); len(derm) != 0 {
		t.Errorf("unavailable doctor listed by specialization")
	}
	if avail, _ := repo.ListAvailable(ctx); len(avail) != 2 {
		t.Errorf("expected 2 available doctors, got %d", len(avail))
	}
	specs, _ := repo.Specializations(ctx)
	if len(specs) != 1 || specs[0] != "Cardiology" {
		t.Errorf("unexpected specializations %v", specs)
	}

	off.Available = true
	if err := repo.Update(ctx, off); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if specs, _ := repo.Specializations(ctx); len(specs) != 2 {
		t.Errorf("expected 2 specializations after update, got %v", specs)
	}
}

package identity

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ehr/hms/internal/platform/db"
	"github.com/ehr/hms/internal/platform/outcome"
)

// -- Patient Repository --

type patientRepoPG struct {
	db *db.Provider
}

func NewPatientRepo(p *db.Provider) PatientRepository {
	return &patientRepoPG{db: p}
}

func (r *patientRepoPG) conn(ctx context.Context) (db.Querier, error) {
	return r.db.Querier(ctx)
}

const patientCols = `id, patient_id, name, age, gender, phone, email,
	address, blood_group, emergency_contact, created_at`

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("patient.create", err)
	}
	err = q.QueryRow(ctx, `
		INSERT INTO patients (patient_id, name, age, gender, phone, email, address, blood_group, emergency_contact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		p.PatientID, p.Name, p.Age, string(p.Gender), p.Phone, p.Email, p.Address, p.BloodGroup, p.EmergencyContact,
	).Scan(&p.ID, &p.CreatedAt)
	return db.Classify("patient.create", err)
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	return r.query(ctx, "patient.list", `SELECT `+patientCols+` FROM patients ORDER BY created_at DESC`)
}

func (r *patientRepoPG) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify("patient.get", err)
	}
	p, err := scanPatient(q.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE patient_id = $1`, patientID))
	if err != nil {
		return nil, db.Classify("patient.get", err)
	}
	return p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("patient.update", err)
	}
	tag, err := q.Exec(ctx, `
		UPDATE patients SET name = $2, age = $3, gender = $4, phone = $5, email = $6,
			address = $7, blood_group = $8, emergency_contact = $9
		WHERE patient_id = $1`,
		p.PatientID, p.Name, p.Age, string(p.Gender), p.Phone, p.Email, p.Address, p.BloodGroup, p.EmergencyContact,
	)
	if err != nil {
		return db.Classify("patient.update", err)
	}
	if tag.RowsAffected() == 0 {
		return outcome.NotFound("patient.update", "patient %s not found", p.PatientID)
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, patientID string) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("patient.delete", err)
	}
	tag, err := q.Exec(ctx, `DELETE FROM patients WHERE patient_id = $1`, patientID)
	if err != nil {
		return db.Classify("patient.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return outcome.NotFound("patient.delete", "patient %s not found", patientID)
	}
	return nil
}

func (r *patientRepoPG) SearchByName(ctx context.Context, name string) ([]*Patient, error) {
	return r.query(ctx, "patient.search",
		`SELECT `+patientCols+` FROM patients WHERE name ILIKE $1 ORDER BY name`, "%"+name+"%")
}

func (r *patientRepoPG) Count(ctx context.Context) (int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, db.Classify("patient.count", err)
	}
	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, db.Classify("patient.count", err)
	}
	return n, nil
}

func (r *patientRepoPG) query(ctx context.Context, op, sql string, args ...interface{}) ([]*Patient, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify(op, err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(op, err)
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, db.Classify(op, err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(op, err)
	}
	return patients, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var gender string
	err := row.Scan(
		&p.ID, &p.PatientID, &p.Name, &p.Age, &gender, &p.Phone, &p.Email,
		&p.Address, &p.BloodGroup, &p.EmergencyContact, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Gender = Gender(gender)
	return &p, nil
}

// -- Doctor Repository --

type doctorRepoPG struct {
	db *db.Provider
}

func NewDoctorRepo(p *db.Provider) DoctorRepository {
	return &doctorRepoPG{db: p}
}

func (r *doctorRepoPG) conn(ctx context.Context) (db.Querier, error) {
	return r.db.Querier(ctx)
}

const doctorCols = `id, doctor_id, name, specialization, phone, email, qualification,
	experience_years, consultation_fee::float8, available, created_at`

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("doctor.create", err)
	}
	err = q.QueryRow(ctx, `
		INSERT INTO doctors (doctor_id, name, specialization, phone, email, qualification,
			experience_years, consultation_fee, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		d.DoctorID, d.Name, d.Specialization, d.Phone, d.Email, d.Qualification,
		d.ExperienceYears, d.ConsultationFee, d.Available,
	).Scan(&d.ID, &d.CreatedAt)
	return db.Classify("doctor.create", err)
}

func (r *doctorRepoPG) List(ctx context.Context) ([]*Doctor, error) {
	return r.query(ctx, "doctor.list", `SELECT `+doctorCols+` FROM doctors ORDER BY name`)
}

func (r *doctorRepoPG) GetByDoctorID(ctx context.Context, doctorID string) (*Doctor, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify("doctor.get", err)
	}
	d, err := scanDoctor(q.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE doctor_id = $1`, doctorID))
	if err != nil {
		return nil, db.Classify("doctor.get", err)
	}
	return d, nil
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("doctor.update", err)
	}
	tag, err := q.Exec(ctx, `
		UPDATE doctors SET name = $2, specialization = $3, phone = $4, email = $5, qualification = $6,
			experience_years = $7, consultation_fee = $8, available = $9
		WHERE doctor_id = $1`,
		d.DoctorID, d.Name, d.Specialization, d.Phone, d.Email, d.Qualification,
		d.ExperienceYears, d.ConsultationFee, d.Available,
	)
	if err != nil {
		return db.Classify("doctor.update", err)
	}
	if tag.RowsAffected() == 0 {
		return outcome.NotFound("doctor.update", "doctor %s not found", d.DoctorID)
	}
	return nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, doctorID string) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("doctor.delete", err)
	}
	tag, err := q.Exec(ctx, `DELETE FROM doctors WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return db.Classify("doctor.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return outcome.NotFound("doctor.delete", "doctor %s not found", doctorID)
	}
	return nil
}

func (r *doctorRepoPG) ListBySpecialization(ctx context.Context, specialization string) ([]*Doctor, error) {
	return r.query(ctx, "doctor.by_specialization",
		`SELECT `+doctorCols+` FROM doctors WHERE specialization = $1 AND available = TRUE ORDER BY name`, specialization)
}

func (r *doctorRepoPG) ListAvailable(ctx context.Context) ([]*Doctor, error) {
	return r.query(ctx, "doctor.available",
		`SELECT `+doctorCols+` FROM doctors WHERE available = TRUE ORDER BY name`)
}

func (r *doctorRepoPG) Specializations(ctx context.Context) ([]string, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify("doctor.specializations", err)
	}
	rows, err := q.Query(ctx,
		`SELECT DISTINCT specialization FROM doctors WHERE available = TRUE ORDER BY specialization`)
	if err != nil {
		return nil, db.Classify("doctor.specializations", err)
	}
	specs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, db.Classify("doctor.specializations", err)
	}
	return specs, nil
}

func (r *doctorRepoPG) Count(ctx context.Context) (int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, db.Classify("doctor.count", err)
	}
	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&n); err != nil {
		return 0, db.Classify("doctor.count", err)
	}
	return n, nil
}

func (r *doctorRepoPG) query(ctx context.Context, op, sql string, args ...interface{}) ([]*Doctor, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify(op, err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(op, err)
	}
	defer rows.Close()

	var doctors []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, db.Classify(op, err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(op, err)
	}
	return doctors, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID, &d.DoctorID, &d.Name, &d.Specialization, &d.Phone, &d.Email, &d.Qualification,
		&d.ExperienceYears, &d.ConsultationFee, &d.Available, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

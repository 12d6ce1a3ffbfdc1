package scheduling

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ehr/hms/internal/platform/db"
	"github.com/ehr/hms/internal/platform/outcome"
)

type appointmentRepoPG struct {
	db *db.Provider
}

func NewAppointmentRepo(p *db.Provider) AppointmentRepository {
	return &appointmentRepoPG{db: p}
}

func (r *appointmentRepoPG) conn(ctx context.Context) (db.Querier, error) {
	return r.db.Querier(ctx)
}

const appointmentSelect = `SELECT a.id, a.appointment_id, a.patient_id, a.doctor_id,
	a.appointment_date, a.appointment_time, a.status, a.reason, a.diagnosis, a.prescription,
	a.fee::float8, a.created_at, p.name, d.name
	FROM appointments a
	JOIN patients p ON a.patient_id = p.patient_id
	JOIN doctors d ON a.doctor_id = d.doctor_id`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify("appointment.create", err)
	}
	err = q.QueryRow(ctx, `
		INSERT INTO appointments (appointment_id, patient_id, doctor_id, appointment_date, appointment_time,
			status, reason, diagnosis, prescription, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		a.AppointmentID, a.PatientID, a.DoctorID, a.AppointmentDate, a.AppointmentTime.pgTime(),
		string(a.Status), a.Reason, a.Diagnosis, a.Prescription, a.Fee,
	).Scan(&a.ID, &a.CreatedAt)
	return db.Classify("appointment.create", err)
}

func (r *appointmentRepoPG) List(ctx context.Context) ([]*Appointment, error) {
	return r.query(ctx, "appointment.list",
		appointmentSelect+` ORDER BY a.appointment_date DESC, a.appointment_time DESC`)
}

func (r *appointmentRepoPG) GetByAppointmentID(ctx context.Context, appointmentID string) (*Appointment, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify("appointment.get", err)
	}
	a, err := scanAppointment(q.QueryRow(ctx, appointmentSelect+` WHERE a.appointment_id = $1`, appointmentID))
	if err != nil {
		return nil, db.Classify("appointment.get", err)
	}
	return a, nil
}

func (r *appointmentRepoPG) ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	return r.query(ctx, "appointment.by_date",
		appointmentSelect+` WHERE a.appointment_date = $1 ORDER BY a.appointment_time`, date)
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return r.query(ctx, "appointment.by_doctor",
		appointmentSelect+` WHERE a.doctor_id = $1 ORDER BY a.appointment_date DESC, a.appointment_time DESC`, doctorID)
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, appointmentID string, status Status) error {
	return r.exec(ctx, "appointment.update_status", appointmentID,
		`UPDATE appointments SET status = $2 WHERE appointment_id = $1`, appointmentID, string(status))
}

func (r *appointmentRepoPG) UpdateDetails(ctx context.Context, a *Appointment) error {
	return r.exec(ctx, "appointment.update_details", a.AppointmentID, `
		UPDATE appointments SET diagnosis = $2, prescription = $3, fee = $4, status = $5
		WHERE appointment_id = $1`,
		a.AppointmentID, a.Diagnosis, a.Prescription, a.Fee, string(a.Status))
}

func (r *appointmentRepoPG) Delete(ctx context.Context, appointmentID string) error {
	return r.exec(ctx, "appointment.delete", appointmentID,
		`DELETE FROM appointments WHERE appointment_id = $1`, appointmentID)
}

func (r *appointmentRepoPG) CountActiveAt(ctx context.Context, doctorID string, date time.Time, at TimeOfDay) (int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, db.Classify("appointment.slot", err)
	}
	var n int
	err = q.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2 AND appointment_time = $3 AND status <> $4`,
		doctorID, date, at.pgTime(), string(StatusCancelled),
	).Scan(&n)
	if err != nil {
		return 0, db.Classify("appointment.slot", err)
	}
	return n, nil
}

func (r *appointmentRepoPG) Count(ctx context.Context) (int, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return 0, db.Classify("appointment.count", err)
	}
	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n); err != nil {
		return 0, db.Classify("appointment.count", err)
	}
	return n, nil
}

// exec runs a statement keyed by appointment id and reports NotFound when
// it touched no row.
func (r *appointmentRepoPG) exec(ctx context.Context, op, appointmentID, sql string, args ...interface{}) error {
	q, err := r.conn(ctx)
	if err != nil {
		return db.Classify(op, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return db.Classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return outcome.NotFound(op, "appointment %s not found", appointmentID)
	}
	return nil
}

func (r *appointmentRepoPG) query(ctx context.Context, op, sql string, args ...interface{}) ([]*Appointment, error) {
	q, err := r.conn(ctx)
	if err != nil {
		return nil, db.Classify(op, err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(op, err)
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, db.Classify(op, err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(op, err)
	}
	return appts, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var at pgtype.Time
	var status string
	err := row.Scan(
		&a.ID, &a.AppointmentID, &a.PatientID, &a.DoctorID,
		&a.AppointmentDate, &at, &status, &a.Reason, &a.Diagnosis, &a.Prescription,
		&a.Fee, &a.CreatedAt, &a.PatientName, &a.DoctorName,
	)
	if err != nil {
		return nil, err
	}
	a.AppointmentTime = timeOfDayFromPG(at)
	a.Status = Status(status)
	return &a, nil
}

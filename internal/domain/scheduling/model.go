package scheduling

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ehr/hms/internal/platform/table"
)

// DateLayout is the wire and display format of appointment dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "No-Show"
)

var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Occupies reports whether an appointment in this status holds its slot.
// Only cancelled appointments free it.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// ParseStatus accepts any letter case, e.g. "no-show".
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("status must be one of Scheduled, Completed, Cancelled, No-Show, got %q", s)
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD, got %q", s)
	}
	return d, nil
}

// TimeOfDay is a wall-clock time without a date, to the second. The zero
// value is unset, which is distinct from midnight.
type TimeOfDay struct {
	sec int32
	set bool
}

func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time %02d:%02d:%02d", hour, minute, second)
	}
	return TimeOfDay{sec: int32(hour*3600 + minute*60 + second), set: true}, nil
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
		}
	}
	return TimeOfDay{}, fmt.Errorf("time must be HH:MM or HH:MM:SS, got %q", s)
}

// IsSet reports whether t came from a constructor, a parse or the database.
func (t TimeOfDay) IsSet() bool { return t.set }

func (t TimeOfDay) Hour() int   { return int(t.sec / 3600) }
func (t TimeOfDay) Minute() int { return int(t.sec % 3600 / 60) }
func (t TimeOfDay) Second() int { return int(t.sec % 60) }

// String prints HH:MM, adding :SS only when seconds are set.
func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) pgTime() pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.sec) * 1_000_000, Valid: t.set}
}

func timeOfDayFromPG(v pgtype.Time) TimeOfDay {
	return TimeOfDay{sec: int32(v.Microseconds / 1_000_000), set: v.Valid}
}

// Appointment maps to the appointments table. PatientName and DoctorName
// are filled by join on read and never written.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	AppointmentID   string    `db:"appointment_id" json:"appointment_id"`
	PatientID       string    `db:"patient_id" json:"patient_id"`
	DoctorID        string    `db:"doctor_id" json:"doctor_id"`
	AppointmentDate time.Time `db:"appointment_date" json:"-"`
	AppointmentTime TimeOfDay `db:"appointment_time" json:"appointment_time"`
	Status          Status    `db:"status" json:"status"`
	Reason          string    `db:"reason" json:"reason"`
	Diagnosis       *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription    *string   `db:"prescription" json:"prescription,omitempty"`
	Fee             float64   `db:"fee" json:"fee"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`

	PatientName string `json:"patient_name,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`
}

type appointmentJSON Appointment

// MarshalJSON writes appointment_date as YYYY-MM-DD.
func (a Appointment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		appointmentJSON
		AppointmentDate string `json:"appointment_date"`
	}{appointmentJSON(a), a.DateString()})
}

func (a *Appointment) UnmarshalJSON(b []byte) error {
	var aux struct {
		*appointmentJSON
		AppointmentDate string `json:"appointment_date"`
	}
	aux.appointmentJSON = (*appointmentJSON)(a)
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.AppointmentDate == "" {
		a.AppointmentDate = time.Time{}
		return nil
	}
	d, err := ParseDate(aux.AppointmentDate)
	if err != nil {
		return err
	}
	a.AppointmentDate = d
	return nil
}

// DateString returns the date as YYYY-MM-DD, or "" when unset.
func (a *Appointment) DateString() string {
	if a.AppointmentDate.IsZero() {
		return ""
	}
	return a.AppointmentDate.Format(DateLayout)
}

var AppointmentColumns = []table.Column[*Appointment]{
	{Label: "Appointment ID", Value: func(a *Appointment) any { return a.AppointmentID }},
	{Label: "Patient", Value: func(a *Appointment) any { return a.PatientName }},
	{Label: "Doctor", Value: func(a *Appointment) any { return a.DoctorName }},
	{Label: "Date", Value: func(a *Appointment) any { return a.DateString() }},
	{Label: "Time", Value: func(a *Appointment) any { return a.AppointmentTime.String() }},
	{Label: "Status", Value: func(a *Appointment) any { return string(a.Status) }},
	{Label: "Reason", Value: func(a *Appointment) any { return a.Reason }},
}

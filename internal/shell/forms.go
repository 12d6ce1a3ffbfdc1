package shell

import (
	"math"
	"strconv"
	"strings"

	"github.com/ehr/hms/internal/domain/identity"
	"github.com/ehr/hms/internal/domain/scheduling"
	"github.com/ehr/hms/internal/platform/outcome"
	"github.com/ehr/hms/pkg/bizid"
)

// Forms hold raw text as typed by the user. Parse trims every field and
// rejects the input before any storage call is made.

type PatientForm struct {
	PatientID        string
	Name             string
	Age              string
	Gender           string
	Phone            string
	Email            string
	Address          string
	BloodGroup       string
	EmergencyContact string
}

// Parse builds a Patient. Gender defaults to Male and an empty PatientID
// gets a generated one.
func (f PatientForm) Parse() (*identity.Patient, error) {
	const op = "form.patient"
	name, phone, rawAge := strings.TrimSpace(f.Name), strings.TrimSpace(f.Phone), strings.TrimSpace(f.Age)
	if name == "" || rawAge == "" || phone == "" {
		return nil, outcome.Validation(op, "please fill all required fields (name, age, phone)")
	}
	age, err := strconv.Atoi(rawAge)
	if err != nil || age < 0 {
		return nil, outcome.Validation(op, "please enter a valid age")
	}

	gender := identity.GenderMale
	if g := strings.TrimSpace(f.Gender); g != "" {
		if gender, err = identity.ParseGender(g); err != nil {
			return nil, outcome.Validation(op, "%v", err)
		}
	}

	return &identity.Patient{
		PatientID:        idOrNew(f.PatientID, bizid.PatientPrefix),
		Name:             name,
		Age:              age,
		Gender:           gender,
		Phone:            phone,
		Email:            optional(f.Email),
		Address:          strings.TrimSpace(f.Address),
		BloodGroup:       strings.TrimSpace(f.BloodGroup),
		EmergencyContact: strings.TrimSpace(f.EmergencyContact),
	}, nil
}

type DoctorForm struct {
	DoctorID       string
	Name           string
	Specialization string
	Phone          string
	Email          string
	Qualification  string
	Experience     string
	Fee            string
	Available      string
}

// Parse builds a Doctor. Available defaults to true.
func (f DoctorForm) Parse() (*identity.Doctor, error) {
	const op = "form.doctor"
	d := &identity.Doctor{
		DoctorID:       idOrNew(f.DoctorID, bizid.DoctorPrefix),
		Name:           strings.TrimSpace(f.Name),
		Specialization: strings.TrimSpace(f.Specialization),
		Phone:          strings.TrimSpace(f.Phone),
		Email:          optional(f.Email),
		Qualification:  strings.TrimSpace(f.Qualification),
		Available:      true,
	}
	rawExp, rawFee := strings.TrimSpace(f.Experience), strings.TrimSpace(f.Fee)
	if d.Name == "" || d.Specialization == "" || d.Phone == "" || d.Qualification == "" || rawExp == "" || rawFee == "" {
		return nil, outcome.Validation(op, "please fill all required fields")
	}

	exp, err := strconv.Atoi(rawExp)
	if err != nil || exp < 0 {
		return nil, outcome.Validation(op, "please enter a valid number of years of experience")
	}
	fee, err := strconv.ParseFloat(rawFee, 64)
	if err != nil || !validFee(fee) {
		return nil, outcome.Validation(op, "please enter a valid consultation fee")
	}
	d.ExperienceYears, d.ConsultationFee = exp, fee

	if a := strings.TrimSpace(f.Available); a != "" {
		avail, ok := parseYesNo(a)
		if !ok {
			return nil, outcome.Validation(op, "available must be yes or no, got %q", a)
		}
		d.Available = avail
	}
	return d, nil
}

type AppointmentForm struct {
	AppointmentID string
	PatientID     string
	DoctorID      string
	Date          string
	Time          string
	Reason        string
	Fee           string
}

// Parse builds a Scheduled appointment.
func (f AppointmentForm) Parse() (*scheduling.Appointment, error) {
	const op = "form.appointment"
	patientID, doctorID := strings.TrimSpace(f.PatientID), strings.TrimSpace(f.DoctorID)
	reason := strings.TrimSpace(f.Reason)
	if patientID == "" || doctorID == "" || strings.TrimSpace(f.Date) == "" || strings.TrimSpace(f.Time) == "" || reason == "" {
		return nil, outcome.Validation(op, "please fill all required fields (patient, doctor, date, time, reason)")
	}

	date, err := scheduling.ParseDate(f.Date)
	if err != nil {
		return nil, outcome.Validation(op, "%v", err)
	}
	at, err := scheduling.ParseTimeOfDay(f.Time)
	if err != nil {
		return nil, outcome.Validation(op, "%v", err)
	}
	fee, err := parseFee(op, f.Fee)
	if err != nil {
		return nil, err
	}

	return &scheduling.Appointment{
		AppointmentID:   idOrNew(f.AppointmentID, bizid.AppointmentPrefix),
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: at,
		Status:          scheduling.StatusScheduled,
		Reason:          reason,
		Fee:             fee,
	}, nil
}

type AppointmentDetailsForm struct {
	AppointmentID string
	Diagnosis     string
	Prescription  string
	Fee           string
	Status        string
}

func (f AppointmentDetailsForm) Parse() (*scheduling.Appointment, error) {
	const op = "form.appointment_details"
	id := strings.TrimSpace(f.AppointmentID)
	if id == "" {
		return nil, outcome.Validation(op, "please select an appointment")
	}
	status, err := scheduling.ParseStatus(f.Status)
	if err != nil {
		return nil, outcome.Validation(op, "%v", err)
	}
	fee, err := parseFee(op, f.Fee)
	if err != nil {
		return nil, err
	}
	return &scheduling.Appointment{
		AppointmentID: id,
		Diagnosis:     optional(f.Diagnosis),
		Prescription:  optional(f.Prescription),
		Fee:           fee,
		Status:        status,
	}, nil
}

func parseFee(op, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	fee, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validFee(fee) {
		return 0, outcome.Validation(op, "please enter a valid fee")
	}
	return fee, nil
}

// validFee rejects negatives, NaN and infinities, all of which ParseFloat accepts.
func validFee(fee float64) bool {
	return fee >= 0 && !math.IsInf(fee, 1)
}

func idOrNew(id, prefix string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return bizid.New(prefix)
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}

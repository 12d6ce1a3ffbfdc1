package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/ehr/hms/internal/platform/table"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ParseGender accepts any letter case, e.g. "female".
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("gender must be one of Male, Female, Other, got %q", s)
}

// Patient maps to the patients table.
type Patient struct {
	ID               int64     `db:"id" json:"id"`
	PatientID        string    `db:"patient_id" json:"patient_id"`
	Name             string    `db:"name" json:"name"`
	Age              int       `db:"age" json:"age"`
	Gender           Gender    `db:"gender" json:"gender"`
	Phone            string    `db:"phone" json:"phone"`
	Email            *string   `db:"email" json:"email,omitempty"`
	Address          string    `db:"address" json:"address"`
	BloodGroup       string    `db:"blood_group" json:"blood_group"`
	EmergencyContact string    `db:"emergency_contact" json:"emergency_contact"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Doctor maps to the doctors table.
type Doctor struct {
	ID              int64     `db:"id" json:"id"`
	DoctorID        string    `db:"doctor_id" json:"doctor_id"`
	Name            string    `db:"name" json:"name"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Phone           string    `db:"phone" json:"phone"`
	Email           *string   `db:"email" json:"email,omitempty"`
	Qualification   string    `db:"qualification" json:"qualification"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	ConsultationFee float64   `db:"consultation_fee" json:"consultation_fee"`
	Available       bool      `db:"available" json:"available"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

var PatientColumns = []table.Column[*Patient]{
	{Label: "Patient ID", Value: func(p *Patient) any { return p.PatientID }},
	{Label: "Name", Value: func(p *Patient) any { return p.Name }},
	{Label: "Age", Value: func(p *Patient) any { return p.Age }},
	{Label: "Gender", Value: func(p *Patient) any { return string(p.Gender) }},
	{Label: "Phone", Value: func(p *Patient) any { return p.Phone }},
	{Label: "Email", Value: func(p *Patient) any { return optional(p.Email) }},
	{Label: "Blood Group", Value: func(p *Patient) any { return p.BloodGroup }},
}

var DoctorColumns = []table.Column[*Doctor]{
	{Label: "Doctor ID", Value: func(d *Doctor) any { return d.DoctorID }},
	{Label: "Name", Value: func(d *Doctor) any { return d.Name }},
	{Label: "Specialization", Value: func(d *Doctor) any { return d.Specialization }},
	{Label: "Phone", Value: func(d *Doctor) any { return d.Phone }},
	{Label: "Email", Value: func(d *Doctor) any { return optional(d.Email) }},
	{Label: "Qualification", Value: func(d *Doctor) any { return d.Qualification }},
	{Label: "Experience", Value: func(d *Doctor) any { return d.ExperienceYears }},
	{Label: "Fee", Value: func(d *Doctor) any { return d.ConsultationFee }},
	{Label: "Available", Value: func(d *Doctor) any { return yesNo(d.Available) }},
}

// optional unwraps a nullable column so a missing value reads as nil.
func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

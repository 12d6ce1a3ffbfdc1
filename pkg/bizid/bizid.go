// Package bizid generates the short human-readable business identifiers
// used for patients, doctors and appointments, e.g. PAT042.
package bizid

import (
	"fmt"
	"math/rand/v2"
)

const (
	PatientPrefix     = "PAT"
	DoctorPrefix      = "DOC"
	AppointmentPrefix = "APT"
)

// New returns prefix followed by three digits drawn from [0,1000). Values
// repeat; the unique constraint on insert is what rejects a collision.
func New(prefix string) string {
	return Format(prefix, rand.IntN(1000))
}

// Format renders n as a zero-padded three digit suffix.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

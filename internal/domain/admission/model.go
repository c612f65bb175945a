// Package admission manages hospital stays: creation inside the caller's
// hospital, the one-way discharge transition, and stay summaries.
package admission

import (
	"time"

	"github.com/google/uuid"
)

type Admission struct {
	ID           uuid.UUID  `json:"id"`
	PatientID    uuid.UUID  `json:"patient_id"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	Severity     string     `json:"severity"`
	Diagnosis    string     `json:"diagnosis"`
	RoomNumber   string     `json:"room_number,omitempty"`

	// Vitals recorded at admission time.
	BloodPressureHigh *int     `json:"blood_pressure_high,omitempty"`
	BloodPressureLow  *int     `json:"blood_pressure_low,omitempty"`
	HeartRate         *int     `json:"heart_rate,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`

	// AdmissionDate is stamped at creation and never changes.
	AdmissionDate time.Time  `json:"admission_date"`
	DischargeDate *time.Time `json:"discharge_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the stay is ongoing. Active means exactly that
// the discharge date has not been set.
func (a *Admission) IsActive() bool {
	return a.DischargeDate == nil
}

// Summary is the admission read model for listings: the stay with its
// department name and a shortened diagnosis.
type Summary struct {
	Admission      *Admission `json:"admission"`
	DepartmentName string     `json:"department_name,omitempty"`
	DiagnosisShort string     `json:"diagnosis_short"`
	Active         bool       `json:"active"`
}

// ShortenDiagnosis truncates long diagnosis text for list display.
func ShortenDiagnosis(diagnosis string) string {
	runes := []rune(diagnosis)
	if len(runes) <= 50 {
		return diagnosis
	}
	return string(runes[:50]) + "..."
}

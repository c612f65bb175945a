// Package department manages hospital departments and their occupancy view.
package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID          uuid.UUID `json:"id"`
	HospitalID  uuid.UUID `json:"hospital_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CurrentPatient is one row of a department's occupancy listing: a patient
// whose active admission is in this department.
type CurrentPatient struct {
	PatientID   uuid.UUID `json:"patient_id"`
	LastName    string    `json:"last_name"`
	FirstName   string    `json:"first_name"`
	MiddleName  string    `json:"middle_name,omitempty"`
	RoomNumber  string    `json:"room_number,omitempty"`
	Severity    string    `json:"severity"`
	AdmissionID uuid.UUID `json:"admission_id"`
	AdmittedAt  time.Time `json:"admitted_at"`
}

// Detail is the department view served to staff: the department plus its
// current patients.
type Detail struct {
	Department      *Department       `json:"department"`
	CurrentPatients []*CurrentPatient `json:"current_patients"`
}

// Package patient manages patient records with hospital-scoped SNILS
// uniqueness and search.
package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID         uuid.UUID `json:"id"`
	HospitalID uuid.UUID `json:"hospital_id"`
	LastName   string    `json:"last_name"`
	FirstName  string    `json:"first_name"`
	MiddleName string    `json:"middle_name,omitempty"`
	BirthDate  time.Time `json:"birth_date"`
	BirthPlace string    `json:"birth_place,omitempty"`
	// SNILS is stored as 11 raw digits; display formatting is applied in
	// projections.
	SNILS  string   `json:"snils"`
	Gender string   `json:"gender"`
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter holds the optional search parameters. Present fields are combined
// conjunctively; names and SNILS match as case-insensitive substrings,
// birth date matches exactly.
type Filter struct {
	LastName   string
	FirstName  string
	MiddleName string
	SNILS      string
	BirthDate  *time.Time
}

// Empty reports whether no filter parameter is set.
func (f Filter) Empty() bool {
	return f.LastName == "" && f.FirstName == "" && f.MiddleName == "" &&
		f.SNILS == "" && f.BirthDate == nil
}

// Overview is the patient read model for listings and the detail view:
// the record plus current-stay attributes resolved from the active
// admission, if any.
type Overview struct {
	Patient           *Patient   `json:"patient"`
	SNILSFormatted    string     `json:"snils_formatted"`
	AgeYears          int        `json:"age_years"`
	AgeMonths         int        `json:"age_months"`
	InHospital        bool       `json:"in_hospital"`
	CurrentDepartment string     `json:"current_department,omitempty"`
	CurrentRoom       string     `json:"current_room,omitempty"`
	ActiveAdmissionID *uuid.UUID `json:"active_admission_id,omitempty"`
}

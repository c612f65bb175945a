// Package staff manages employee accounts: registration with derived login
// names, authentication by employee number or login, and hospital/department
// assignment.
package staff

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID   `json:"id"`
	HospitalID     *uuid.UUID  `json:"hospital_id,omitempty"`
	FullName       string      `json:"full_name"`
	Position       string      `json:"position"`
	EmployeeNumber string      `json:"employee_number"`
	PhoneNumber    string      `json:"phone_number"`
	Login          string      `json:"login"`
	PasswordHash   string      `json:"-"`
	DepartmentIDs  []uuid.UUID `json:"department_ids,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// DepartmentInfo is the slice of a department an employee profile shows.
type DepartmentInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// Profile is the employee read model served on the home view and in
// administrative listings: the account plus resolved hospital and
// department names.
type Profile struct {
	Employee     *Employee        `json:"employee"`
	HospitalName string           `json:"hospital_name,omitempty"`
	Departments  []DepartmentInfo `json:"departments"`
}

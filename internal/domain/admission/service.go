package admission

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

// PatientDirectory verifies a patient belongs to a hospital. Admissions are
// only visible through patients of the caller's hospital.
type PatientDirectory interface {
	InHospital(ctx context.Context, patientID, hospitalID uuid.UUID) (bool, error)
}

// DepartmentChecker keeps department choices inside the caller's hospital.
type DepartmentChecker interface {
	InHospital(ctx context.Context, departmentID, hospitalID uuid.UUID) (bool, error)
}

var validSeverities = map[string]bool{
	"satisfactory": true,
	"moderate":     true,
	"severe":       true,
	"critical":     true,
}

type Service struct {
	repo        Repository
	patients    PatientDirectory
	departments DepartmentChecker
	now         func() time.Time
}

func NewService(repo Repository, patients PatientDirectory, departments DepartmentChecker) *Service {
	return &Service{repo: repo, patients: patients, departments: departments, now: time.Now}
}

type Input struct {
	DepartmentID      *uuid.UUID `json:"department_id"`
	Severity          string     `json:"severity"`
	Diagnosis         string     `json:"diagnosis"`
	RoomNumber        string     `json:"room_number"`
	BloodPressureHigh *int       `json:"blood_pressure_high"`
	BloodPressureLow  *int       `json:"blood_pressure_low"`
	HeartRate         *int       `json:"heart_rate"`
	Temperature       *float64   `json:"temperature"`
}

// Create opens a stay for a patient of the caller's hospital. The admission
// date is stamped here and is immutable afterwards; the discharge date
// starts null. A patient can have only one active admission.
func (s *Service) Create(ctx context.Context, callerHospital, patientID uuid.UUID, in Input) (*Admission, error) {
	ok, err := s.patients.InHospital(ctx, patientID, callerHospital)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	errs := validation.Errors{}
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	if in.Diagnosis == "" {
		errs.Add("diagnosis", "diagnosis is required")
	}
	if !validSeverities[in.Severity] {
		errs.Add("severity", "severity must be one of satisfactory, moderate, severe, critical")
	}
	if in.DepartmentID != nil {
		inHospital, err := s.departments.InHospital(ctx, *in.DepartmentID, callerHospital)
		if err != nil {
			return nil, err
		}
		if !inHospital {
			errs.Add("department_id", "department does not belong to your hospital")
		}
	}
	if _, err := s.repo.GetActiveByPatient(ctx, patientID); err == nil {
		errs.Add("patient", "patient already has an active admission")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if errs.Any() {
		return nil, errs
	}

	a := &Admission{
		PatientID:         patientID,
		DepartmentID:      in.DepartmentID,
		Severity:          in.Severity,
		Diagnosis:         in.Diagnosis,
		RoomNumber:        in.RoomNumber,
		BloodPressureHigh: in.BloodPressureHigh,
		BloodPressureLow:  in.BloodPressureLow,
		HeartRate:         in.HeartRate,
		Temperature:       in.Temperature,
		AdmissionDate:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns an admission visible to the caller's hospital.
func (s *Service) Get(ctx context.Context, id, callerHospital uuid.UUID) (*Admission, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.patients.InHospital(ctx, a.PatientID, callerHospital)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// Discharge closes an active stay. The transition is one-way: a second
// discharge fails with ErrAlreadyDischarged, and no operation reopens a
// discharged record.
func (s *Service) Discharge(ctx context.Context, id, callerHospital uuid.UUID) (*Admission, error) {
	if _, err := s.Get(ctx, id, callerHospital); err != nil {
		return nil, err
	}
	return s.repo.Discharge(ctx, id)
}

// InHospital reports whether the admission exists and its patient belongs
// to the given hospital. The notes service uses it for scope checks.
func (s *Service) InHospital(ctx context.Context, id, hospitalID uuid.UUID) (bool, error) {
	_, err := s.Get(ctx, id, hospitalID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByPatient returns a patient's stay history, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID, callerHospital uuid.UUID) ([]*Summary, error) {
	ok, err := s.patients.InHospital(ctx, patientID, callerHospital)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	summaries, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []*Summary{}
	}
	return summaries, nil
}

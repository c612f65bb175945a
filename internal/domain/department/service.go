package department

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(ctx context.Context, d *Department) error {
	errs := validation.Errors{}
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.TrimSpace(d.Code)
	if d.Name == "" {
		errs.Add("name", "name is required")
	}
	if d.Code == "" {
		errs.Add("code", "code is required")
	} else if len(d.Code) > 10 {
		errs.Add("code", "code must be at most 10 characters")
	} else {
		// Department codes are unique across all hospitals.
		existing, err := s.repo.GetByCode(ctx, d.Code)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != d.ID {
			errs.Add("code", "code already in use")
		}
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, d *Department) error {
	if d.HospitalID == uuid.Nil {
		return validation.Errors{"hospital_id": "hospital_id is required"}
	}
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	return s.repo.Create(ctx, d)
}

// Get returns a department visible to the caller's hospital. Departments of
// other hospitals are reported as absent.
func (s *Service) Get(ctx context.Context, id, callerHospital uuid.UUID) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.HospitalID != callerHospital {
		return nil, ErrNotFound
	}
	return d, nil
}

// Detail returns the department plus its current patients, hospital-scoped.
func (s *Service) Detail(ctx context.Context, id, callerHospital uuid.UUID) (*Detail, error) {
	d, err := s.Get(ctx, id, callerHospital)
	if err != nil {
		return nil, err
	}
	patients, err := s.repo.CurrentPatients(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if patients == nil {
		patients = []*CurrentPatient{}
	}
	return &Detail{Department: d, CurrentPatients: patients}, nil
}

func (s *Service) Update(ctx context.Context, d *Department) error {
	current, err := s.repo.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	// A department never moves between hospitals.
	d.HospitalID = current.HospitalID
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListByHospital returns the hospital's departments, for admission and
// assignment choices.
func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	depts, err := s.repo.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	if depts == nil {
		depts = []*Department{}
	}
	return depts, nil
}

// InHospital reports whether the department exists and belongs to the given
// hospital. Admission creation and employee assignment use it to keep
// department choices inside the caller's hospital.
func (s *Service) InHospital(ctx context.Context, id, hospitalID uuid.UUID) (bool, error) {
	d, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return d.HospitalID == hospitalID, nil
}

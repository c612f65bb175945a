package staff

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/medjournal/journal/internal/platform/auth"
	"github.com/medjournal/journal/pkg/validation"
)

// TxRunner executes fn inside a database transaction. Registration uses it
// so the login-uniqueness read and the insert see the same snapshot.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// HospitalDirectory resolves hospital names for profile views.
type HospitalDirectory interface {
	HospitalName(ctx context.Context, id uuid.UUID) (string, error)
}

// DepartmentChecker verifies a department belongs to a hospital. Department
// assignments may only reference the employee's own hospital.
type DepartmentChecker interface {
	InHospital(ctx context.Context, departmentID, hospitalID uuid.UUID) (bool, error)
}

var (
	employeeNumberPattern = regexp.MustCompile(`^\d{1,10}$`)
	phonePattern          = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

type Service struct {
	repo        Repository
	inTx        TxRunner
	validate    *validator.Validate
	hospitals   HospitalDirectory
	departments DepartmentChecker
}

func NewService(repo Repository, inTx TxRunner) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{repo: repo, inTx: inTx, validate: v}
}

// SetHospitalDirectory attaches the hospital name resolver (wired in main).
func (s *Service) SetHospitalDirectory(d HospitalDirectory) {
	s.hospitals = d
}

// SetDepartmentChecker attaches the department scope checker (wired in main).
func (s *Service) SetDepartmentChecker(d DepartmentChecker) {
	s.departments = d
}

type RegisterInput struct {
	FullName        string `json:"full_name" validate:"required,max=100"`
	Position        string `json:"position" validate:"required,max=100"`
	EmployeeNumber  string `json:"employee_number" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

func (s *Service) validateRegister(in *RegisterInput) validation.Errors {
	errs := validation.Errors{}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Position = strings.TrimSpace(in.Position)
	in.EmployeeNumber = strings.TrimSpace(in.EmployeeNumber)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				switch fe.Tag() {
				case "required":
					errs.Add(fe.Field(), fe.Field()+" is required")
				case "min":
					errs.Add(fe.Field(), fe.Field()+" must be at least "+fe.Param()+" characters")
				case "max":
					errs.Add(fe.Field(), fe.Field()+" must be at most "+fe.Param()+" characters")
				default:
					errs.Add(fe.Field(), fe.Field()+" is invalid")
				}
			}
		}
	}
	if in.EmployeeNumber != "" && !employeeNumberPattern.MatchString(in.EmployeeNumber) {
		errs.Add("employee_number", "employee number must contain only digits")
	}
	if in.PhoneNumber != "" && !phonePattern.MatchString(in.PhoneNumber) {
		errs.Add("phone_number", "enter a valid phone number")
	}
	if in.Password != "" && in.PasswordConfirm != "" && in.Password != in.PasswordConfirm {
		errs.Add("password_confirm", "passwords do not match")
	}
	return errs
}

// Register creates a new employee account. The login name is derived from
// the full name and de-duplicated against existing logins inside the same
// transaction as the insert. New accounts have no hospital until an
// administrator assigns one.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Employee, error) {
	if errs := s.validateRegister(&in); errs.Any() {
		return nil, errs
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var emp *Employee
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByEmployeeNumber(txCtx, in.EmployeeNumber); err == nil {
			return validation.Errors{"employee_number": "employee number already registered"}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		base := DeriveLogin(in.FullName)
		logins, err := s.repo.ListLoginsByPrefix(txCtx, base)
		if err != nil {
			return err
		}
		existing := make(map[string]bool, len(logins))
		for _, l := range logins {
			existing[l] = true
		}

		emp = &Employee{
			FullName:       in.FullName,
			Position:       in.Position,
			EmployeeNumber: in.EmployeeNumber,
			PhoneNumber:    in.PhoneNumber,
			Login:          deriveUniqueLogin(base, existing),
			PasswordHash:   hash,
		}
		return s.repo.Create(txCtx, emp)
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// Authenticate looks the account up by employee number first, then by login,
// and verifies the password. Both misses and bad passwords return
// ErrInvalidCredentials; a dummy hash comparison keeps the timing of the
// two paths similar.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*Employee, error) {
	emp, err := s.repo.GetByEmployeeNumber(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		emp, err = s.repo.GetByLogin(ctx, identifier)
	}
	if errors.Is(err, ErrNotFound) {
		auth.VerifyDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(emp.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return emp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// Profile resolves the employee's hospital and department names.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	depts, err := s.repo.GetDepartments(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	if depts == nil {
		depts = []DepartmentInfo{}
	}
	p := &Profile{Employee: emp, Departments: depts}
	if emp.HospitalID != nil && s.hospitals != nil {
		name, err := s.hospitals.HospitalName(ctx, *emp.HospitalID)
		if err == nil {
			p.HospitalName = name
		}
	}
	return p, nil
}

type UpdateInput struct {
	FullName      string      `json:"full_name" validate:"required,max=100"`
	Position      string      `json:"position" validate:"required,max=100"`
	PhoneNumber   string      `json:"phone_number" validate:"required"`
	HospitalID    *uuid.UUID  `json:"hospital_id"`
	DepartmentIDs []uuid.UUID `json:"department_ids"`
}

// UpdateEmployee applies administrative changes: work details, hospital
// assignment and department membership. Employee number and login are
// immutable after registration.
func (s *Service) UpdateEmployee(ctx context.Context, id uuid.UUID, in UpdateInput) (*Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Position = strings.TrimSpace(in.Position)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.FullName == "" {
		errs.Add("full_name", "full_name is required")
	}
	if in.Position == "" {
		errs.Add("position", "position is required")
	}
	if in.PhoneNumber != "" && !phonePattern.MatchString(in.PhoneNumber) {
		errs.Add("phone_number", "enter a valid phone number")
	}
	if len(in.DepartmentIDs) > 0 && in.HospitalID == nil {
		errs.Add("department_ids", "cannot assign departments without a hospital")
	}
	if in.HospitalID != nil && s.departments != nil {
		for _, deptID := range in.DepartmentIDs {
			ok, err := s.departments.InHospital(ctx, deptID, *in.HospitalID)
			if err != nil {
				return nil, err
			}
			if !ok {
				errs.Add("department_ids", "department does not belong to the employee's hospital")
				break
			}
		}
	}
	if errs.Any() {
		return nil, errs
	}

	emp.FullName = in.FullName
	emp.Position = in.Position
	emp.PhoneNumber = in.PhoneNumber
	emp.HospitalID = in.HospitalID
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	if err := s.repo.SetDepartments(ctx, emp.ID, in.DepartmentIDs); err != nil {
		return nil, err
	}
	emp.DepartmentIDs = in.DepartmentIDs
	return emp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, query string, limit, offset int) ([]*Employee, int, error) {
	return s.repo.List(ctx, query, limit, offset)
}

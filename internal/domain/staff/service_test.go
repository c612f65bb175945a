package staff

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medjournal/journal/internal/platform/auth"
	"github.com/medjournal/journal/pkg/validation"
)

// -- Mock Repository --

type mockRepo struct {
	employees   map[uuid.UUID]*Employee
	departments map[uuid.UUID][]DepartmentInfo
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		employees:   make(map[uuid.UUID]*Employee),
		departments: make(map[uuid.UUID][]DepartmentInfo),
	}
}

func (m *mockRepo) Create(_ context.Context, e *Employee) error {
	e.ID = uuid.New()
	m.employees[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *mockRepo) GetByEmployeeNumber(_ context.Context, number string) (*Employee, error) {
	for _, e := range m.employees {
		if e.EmployeeNumber == number {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetByLogin(_ context.Context, login string) (*Employee, error) {
	for _, e := range m.employees {
		if e.Login == login {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, e *Employee) error {
	if _, ok := m.employees[e.ID]; !ok {
		return ErrNotFound
	}
	m.employees[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.employees[id]; !ok {
		return ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, query string, limit, offset int) ([]*Employee, int, error) {
	var result []*Employee
	for _, e := range m.employees {
		result = append(result, e)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListLoginsByPrefix(_ context.Context, prefix string) ([]string, error) {
	var logins []string
	for _, e := range m.employees {
		if strings.HasPrefix(e.Login, prefix) {
			logins = append(logins, e.Login)
		}
	}
	return logins, nil
}

func (m *mockRepo) SetDepartments(_ context.Context, employeeID uuid.UUID, departmentIDs []uuid.UUID) error {
	var infos []DepartmentInfo
	for _, id := range departmentIDs {
		infos = append(infos, DepartmentInfo{ID: id})
	}
	m.departments[employeeID] = infos
	return nil
}

func (m *mockRepo) GetDepartments(_ context.Context, employeeID uuid.UUID) ([]DepartmentInfo, error) {
	return m.departments[employeeID], nil
}

// noTx runs the function directly; mock state needs no transaction.
func noTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, noTx), repo
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName:        "Иванов Петр Сергеевич",
		Position:        "Врач-кардиолог",
		EmployeeNumber:  "12345",
		PhoneNumber:     "+79161234567",
		Password:        "str0ng-pass",
		PasswordConfirm: "str0ng-pass",
	}
}

// -- Tests --

func TestRegister(t *testing.T) {
	svc, _ := newTestService()

	emp, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.Login != "ivanov_petr" {
		t.Errorf("expected derived login ivanov_petr, got %q", emp.Login)
	}
	if emp.HospitalID != nil {
		t.Error("new accounts must start without a hospital")
	}
	if emp.PasswordHash == "" || emp.PasswordHash == "str0ng-pass" {
		t.Error("password must be stored hashed")
	}
	if !auth.VerifyPassword(emp.PasswordHash, "str0ng-pass") {
		t.Error("stored hash should verify the original password")
	}
}

func TestRegister_LoginCollision(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := validRegisterInput()
	in.EmployeeNumber = "54321"
	second, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Login == first.Login {
		t.Fatalf("expected distinct logins, both got %q", second.Login)
	}
	if second.Login != "ivanov_petr_1" {
		t.Errorf("expected suffixed login ivanov_petr_1, got %q", second.Login)
	}
}

func TestRegister_DuplicateEmployeeNumber(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), validRegisterInput())
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["employee_number"]; !ok {
		t.Errorf("expected error on employee_number, got %v", errs)
	}
}

func TestRegister_FieldValidation(t *testing.T) {
	svc, _ := newTestService()

	in := validRegisterInput()
	in.EmployeeNumber = "12a45"
	in.PhoneNumber = "not-a-phone"
	in.Password = "short"
	in.PasswordConfirm = "short"

	_, err := svc.Register(context.Background(), in)
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"employee_number", "phone_number", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error on %s, got %v", field, errs)
		}
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, _ := newTestService()

	in := validRegisterInput()
	in.PasswordConfirm = "different-pass"
	_, err := svc.Register(context.Background(), in)
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["password_confirm"]; !ok {
		t.Errorf("expected error on password_confirm, got %v", errs)
	}
}

func TestAuthenticate_ByEmployeeNumberThenLogin(t *testing.T) {
	svc, _ := newTestService()

	emp, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byNumber, err := svc.Authenticate(context.Background(), "12345", "str0ng-pass")
	if err != nil {
		t.Fatalf("employee number auth failed: %v", err)
	}
	if byNumber.ID != emp.ID {
		t.Error("employee number lookup returned wrong account")
	}

	byLogin, err := svc.Authenticate(context.Background(), emp.Login, "str0ng-pass")
	if err != nil {
		t.Fatalf("login auth failed: %v", err)
	}
	if byLogin.ID != emp.ID {
		t.Error("login lookup returned wrong account")
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "12345", "wrong-pass"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "99999", "str0ng-pass"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown account, got %v", err)
	}
}

type fixedDeptChecker struct {
	hospital uuid.UUID
	depts    map[uuid.UUID]bool
}

func (f fixedDeptChecker) InHospital(_ context.Context, departmentID, hospitalID uuid.UUID) (bool, error) {
	return hospitalID == f.hospital && f.depts[departmentID], nil
}

func TestUpdateEmployee_DepartmentScope(t *testing.T) {
	svc, _ := newTestService()

	emp, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hospital := uuid.New()
	ownDept := uuid.New()
	svc.SetDepartmentChecker(fixedDeptChecker{hospital: hospital, depts: map[uuid.UUID]bool{ownDept: true}})

	// Departments without a hospital are rejected.
	_, err = svc.UpdateEmployee(context.Background(), emp.ID, UpdateInput{
		FullName:       emp.FullName,
		Position:       emp.Position,
		PhoneNumber:    emp.PhoneNumber,
		DepartmentIDs:  []uuid.UUID{ownDept},
	})
	if errs, ok := validation.AsErrors(err); !ok || errs["department_ids"] == "" {
		t.Errorf("expected department_ids error, got %v", err)
	}

	// A foreign department is rejected.
	_, err = svc.UpdateEmployee(context.Background(), emp.ID, UpdateInput{
		FullName:      emp.FullName,
		Position:      emp.Position,
		PhoneNumber:   emp.PhoneNumber,
		HospitalID:    &hospital,
		DepartmentIDs: []uuid.UUID{uuid.New()},
	})
	if errs, ok := validation.AsErrors(err); !ok || errs["department_ids"] == "" {
		t.Errorf("expected department_ids error, got %v", err)
	}

	// The hospital's own department is accepted.
	updated, err := svc.UpdateEmployee(context.Background(), emp.ID, UpdateInput{
		FullName:      emp.FullName,
		Position:      emp.Position,
		PhoneNumber:   emp.PhoneNumber,
		HospitalID:    &hospital,
		DepartmentIDs: []uuid.UUID{ownDept},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.HospitalID == nil || *updated.HospitalID != hospital {
		t.Error("expected hospital to be assigned")
	}
}

type fixedHospitalDirectory struct {
	names map[uuid.UUID]string
}

func (f fixedHospitalDirectory) HospitalName(_ context.Context, id uuid.UUID) (string, error) {
	return f.names[id], nil
}

func TestProfile(t *testing.T) {
	svc, repo := newTestService()

	emp, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hospital := uuid.New()
	emp.HospitalID = &hospital
	repo.employees[emp.ID] = emp
	svc.SetHospitalDirectory(fixedHospitalDirectory{names: map[uuid.UUID]string{hospital: "ГКБ №67"}})

	profile, err := svc.Profile(context.Background(), emp.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.HospitalName != "ГКБ №67" {
		t.Errorf("expected resolved hospital name, got %q", profile.HospitalName)
	}
	if profile.Departments == nil {
		t.Error("expected non-nil departments slice")
	}
}

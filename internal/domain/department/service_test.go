package department

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

// -- Mock Repository --

type mockRepo struct {
	departments map[uuid.UUID]*Department
	occupancy   map[uuid.UUID][]*CurrentPatient
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		departments: make(map[uuid.UUID]*Department),
		occupancy:   make(map[uuid.UUID][]*CurrentPatient),
	}
}

func (m *mockRepo) Create(_ context.Context, d *Department) error {
	d.ID = uuid.New()
	m.departments[d.ID] = d
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockRepo) GetByCode(_ context.Context, code string) (*Department, error) {
	for _, d := range m.departments {
		if d.Code == code {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, d *Department) error {
	if _, ok := m.departments[d.ID]; !ok {
		return ErrNotFound
	}
	m.departments[d.ID] = d
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.departments[id]; !ok {
		return ErrNotFound
	}
	delete(m.departments, id)
	return nil
}

func (m *mockRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	var result []*Department
	for _, d := range m.departments {
		if d.HospitalID == hospitalID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockRepo) CurrentPatients(_ context.Context, departmentID uuid.UUID) ([]*CurrentPatient, error) {
	return m.occupancy[departmentID], nil
}

// -- Tests --

func TestCreateDepartment(t *testing.T) {
	svc := NewService(newMockRepo())

	d := &Department{HospitalID: uuid.New(), Name: "Кардиология", Code: "CARD"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected an ID to be assigned")
	}
}

func TestCreateDepartment_DuplicateCode(t *testing.T) {
	svc := NewService(newMockRepo())
	hospital := uuid.New()

	if err := svc.Create(context.Background(), &Department{HospitalID: hospital, Name: "A", Code: "C1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Codes are global: a second hospital cannot reuse C1 either.
	err := svc.Create(context.Background(), &Department{HospitalID: uuid.New(), Name: "B", Code: "C1"})
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["code"]; !ok {
		t.Errorf("expected error on code, got %v", errs)
	}
}

func TestUpdateDepartment_KeepsOwnCode(t *testing.T) {
	svc := NewService(newMockRepo())

	d := &Department{HospitalID: uuid.New(), Name: "A", Code: "C1"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Re-saving with its own code is not a collision.
	d.Name = "A renamed"
	if err := svc.Update(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetDepartment_ScopedToHospital(t *testing.T) {
	svc := NewService(newMockRepo())
	hospital := uuid.New()

	d := &Department{HospitalID: hospital, Name: "A", Code: "C1"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Get(context.Background(), d.ID, hospital); err != nil {
		t.Errorf("same-hospital access should succeed, got %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID, uuid.New()); err != ErrNotFound {
		t.Errorf("cross-hospital access should look absent, got %v", err)
	}
}

func TestDepartmentDetail_EmptyOccupancy(t *testing.T) {
	svc := NewService(newMockRepo())
	hospital := uuid.New()

	d := &Department{HospitalID: hospital, Name: "A", Code: "C1"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	detail, err := svc.Detail(context.Background(), d.ID, hospital)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.CurrentPatients == nil || len(detail.CurrentPatients) != 0 {
		t.Errorf("expected empty (non-nil) patient list, got %v", detail.CurrentPatients)
	}
}

func TestInHospital(t *testing.T) {
	svc := NewService(newMockRepo())
	hospital := uuid.New()

	d := &Department{HospitalID: hospital, Name: "A", Code: "C1"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := svc.InHospital(context.Background(), d.ID, hospital)
	if err != nil || !ok {
		t.Errorf("expected department in its own hospital, got %v %v", ok, err)
	}
	ok, err = svc.InHospital(context.Background(), d.ID, uuid.New())
	if err != nil || ok {
		t.Errorf("expected department not in foreign hospital, got %v %v", ok, err)
	}
	ok, err = svc.InHospital(context.Background(), uuid.New(), hospital)
	if err != nil || ok {
		t.Errorf("missing department should report false without error, got %v %v", ok, err)
	}
}

func TestListByHospital_ScopedAndNonNil(t *testing.T) {
	svc := NewService(newMockRepo())
	hospital := uuid.New()

	if err := svc.Create(context.Background(), &Department{HospitalID: hospital, Name: "Кардиология", Code: "CARD"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Create(context.Background(), &Department{HospitalID: uuid.New(), Name: "Неврология", Code: "NEUR"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depts, err := svc.ListByHospital(context.Background(), hospital)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(depts) != 1 || depts[0].Code != "CARD" {
		t.Errorf("expected only the hospital's own department, got %v", depts)
	}

	depts, err = svc.ListByHospital(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if depts == nil || len(depts) != 0 {
		t.Errorf("expected empty (non-nil) slice for empty hospital, got %v", depts)
	}
}

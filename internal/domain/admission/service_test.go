package admission

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

// -- Mock Repository --

type mockRepo struct {
	admissions map[uuid.UUID]*Admission
}

func newMockRepo() *mockRepo {
	return &mockRepo{admissions: make(map[uuid.UUID]*Admission)}
}

func (m *mockRepo) Create(_ context.Context, a *Admission) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.admissions[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Admission, error) {
	a, ok := m.admissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) GetActiveByPatient(_ context.Context, patientID uuid.UUID) (*Admission, error) {
	for _, a := range m.admissions {
		if a.PatientID == patientID && a.IsActive() {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Discharge(_ context.Context, id uuid.UUID) (*Admission, error) {
	a, ok := m.admissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !a.IsActive() {
		return nil, ErrAlreadyDischarged
	}
	now := time.Now()
	a.DischargeDate = &now
	return a, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Summary, error) {
	var summaries []*Summary
	for _, a := range m.admissions {
		if a.PatientID == patientID {
			summaries = append(summaries, &Summary{
				Admission:      a,
				DiagnosisShort: ShortenDiagnosis(a.Diagnosis),
				Active:         a.IsActive(),
			})
		}
	}
	return summaries, nil
}

// -- Fixed directories --

type fixedPatients struct {
	hospitals map[uuid.UUID]uuid.UUID // patient -> hospital
}

func (f fixedPatients) InHospital(_ context.Context, patientID, hospitalID uuid.UUID) (bool, error) {
	return f.hospitals[patientID] == hospitalID, nil
}

type fixedDepartments struct {
	hospitals map[uuid.UUID]uuid.UUID // department -> hospital
}

func (f fixedDepartments) InHospital(_ context.Context, departmentID, hospitalID uuid.UUID) (bool, error) {
	return f.hospitals[departmentID] == hospitalID, nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	hospital uuid.UUID
	patient  uuid.UUID
	dept     uuid.UUID
}

func newFixture() *fixture {
	hospital := uuid.New()
	patient := uuid.New()
	dept := uuid.New()
	repo := newMockRepo()
	svc := NewService(repo,
		fixedPatients{hospitals: map[uuid.UUID]uuid.UUID{patient: hospital}},
		fixedDepartments{hospitals: map[uuid.UUID]uuid.UUID{dept: hospital}},
	)
	return &fixture{svc: svc, repo: repo, hospital: hospital, patient: patient, dept: dept}
}

func validInput(dept uuid.UUID) Input {
	return Input{
		DepartmentID: &dept,
		Severity:     "moderate",
		Diagnosis:    "Внебольничная пневмония",
		RoomNumber:   "12",
	}
}

// -- Tests --

func TestCreateAdmission(t *testing.T) {
	f := newFixture()

	a, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(f.dept))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.AdmissionDate.IsZero() {
		t.Error("expected admission date to be stamped")
	}
	if !a.IsActive() {
		t.Error("new admission must start active")
	}
}

func TestCreateAdmission_PatientOutsideHospital(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.New(), f.patient, validInput(f.dept))
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound for foreign hospital, got %v", err)
	}
}

func TestCreateAdmission_ForeignDepartment(t *testing.T) {
	f := newFixture()

	foreignDept := uuid.New()
	_, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(foreignDept))
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["department_id"]; !ok {
		t.Errorf("expected error on department_id, got %v", errs)
	}
}

func TestCreateAdmission_SecondActiveRejected(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(f.dept)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(f.dept))
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["patient"]; !ok {
		t.Errorf("expected error on patient, got %v", errs)
	}
}

func TestCreateAdmission_InvalidSeverity(t *testing.T) {
	f := newFixture()

	in := validInput(f.dept)
	in.Severity = "fine"
	_, err := f.svc.Create(context.Background(), f.hospital, f.patient, in)
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["severity"]; !ok {
		t.Errorf("expected error on severity, got %v", errs)
	}
}

func TestDischarge_Lifecycle(t *testing.T) {
	f := newFixture()

	a, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(f.dept))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	discharged, err := f.svc.Discharge(context.Background(), a.ID, f.hospital)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discharged.DischargeDate == nil {
		t.Fatal("expected discharge date to be set")
	}
	if discharged.IsActive() {
		t.Error("discharged admission must not be active")
	}

	// The transition is one-way.
	if _, err := f.svc.Discharge(context.Background(), a.ID, f.hospital); err != ErrAlreadyDischarged {
		t.Errorf("expected ErrAlreadyDischarged on repeat, got %v", err)
	}

	// After discharge a new admission can be opened.
	if _, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(f.dept)); err != nil {
		t.Errorf("expected a new admission after discharge, got %v", err)
	}
}

func TestDischarge_ScopedToHospital(t *testing.T) {
	f := newFixture()

	a, err := f.svc.Create(context.Background(), f.hospital, f.patient, validInput(f.dept))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Discharge(context.Background(), a.ID, uuid.New()); err != ErrNotFound {
		t.Errorf("cross-hospital discharge should look absent, got %v", err)
	}
	if !f.repo.admissions[a.ID].IsActive() {
		t.Error("foreign discharge attempt must not close the stay")
	}
}

func TestShortenDiagnosis(t *testing.T) {
	short := "Грипп"
	if got := ShortenDiagnosis(short); got != short {
		t.Errorf("short diagnosis must pass through, got %q", got)
	}

	long := strings.Repeat("а", 60)
	got := ShortenDiagnosis(long)
	if len([]rune(got)) != 53 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 50 runes plus ellipsis, got %q", got)
	}
}

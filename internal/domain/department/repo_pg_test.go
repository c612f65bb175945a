package department

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medjournal/journal/internal/platform/db/dbtest"
)

func TestListByHospitalQuery(t *testing.T) {
	tx := &dbtest.CaptureTx{}
	repo := NewRepo(nil)

	_, err := repo.ListByHospital(dbtest.Context(tx), uuid.New())
	if !errors.Is(err, dbtest.ErrCaptured) {
		t.Fatalf("expected captured query, got %v", err)
	}
	q := tx.Queries[0]
	if !strings.Contains(q, "WHERE hospital_id = $1") {
		t.Errorf("listing must be scoped to one hospital:\n%s", q)
	}
}

func TestCurrentPatientsQuery(t *testing.T) {
	tx := &dbtest.CaptureTx{}
	repo := NewRepo(nil)

	_, err := repo.CurrentPatients(dbtest.Context(tx), uuid.New())
	if !errors.Is(err, dbtest.ErrCaptured) {
		t.Fatalf("expected captured query, got %v", err)
	}
	q := tx.Queries[0]
	// Occupancy lists active stays only, newest admissions first.
	if !strings.Contains(q, "a.discharge_date IS NULL") {
		t.Errorf("occupancy must exclude discharged stays:\n%s", q)
	}
	if !strings.Contains(q, "ORDER BY a.admission_date DESC") {
		t.Errorf("expected newest-first ordering:\n%s", q)
	}
}

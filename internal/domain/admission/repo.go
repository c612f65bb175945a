package admission

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("admission not found")
	ErrAlreadyDischarged = errors.New("admission already discharged")
)

type Repository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)

	// GetActiveByPatient returns the patient's ongoing admission, or
	// ErrNotFound if none is active.
	GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*Admission, error)

	// Discharge stamps the discharge date on an active admission. The
	// predicate excludes already-discharged rows, so a repeat discharge
	// fails with ErrAlreadyDischarged.
	Discharge(ctx context.Context, id uuid.UUID) (*Admission, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Summary, error)
}

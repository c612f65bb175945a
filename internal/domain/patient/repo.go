package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("patient not found")

// currentStay is the active-admission slice of an Overview, resolved by the
// repository.
type currentStay struct {
	AdmissionID  uuid.UUID
	Department   string
	RoomNumber   string
}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error

	// ExistsBySNILS reports whether another patient in the hospital already
	// uses the normalized SNILS. exclude skips the patient being edited.
	ExistsBySNILS(ctx context.Context, hospitalID uuid.UUID, snils string, exclude uuid.UUID) (bool, error)

	// Search applies the filter within one hospital, ordered by most recent
	// admission first.
	Search(ctx context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error)

	// ActiveStay resolves the patient's active admission, or nil.
	ActiveStay(ctx context.Context, patientID uuid.UUID) (*currentStay, error)
}

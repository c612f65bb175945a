package healthnote

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("note not found")

type Repository interface {
	Create(ctx context.Context, n *HealthNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthNote, error)

	// ListByAdmission returns the admission's notes ordered by creation
	// time ascending.
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*HealthNote, error)
}

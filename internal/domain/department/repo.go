package department

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("department not found")

type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	GetByCode(ctx context.Context, code string) (*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error)
	CurrentPatients(ctx context.Context, departmentID uuid.UUID) ([]*CurrentPatient, error)
}

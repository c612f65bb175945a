package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	GetByEmployeeNumber(ctx context.Context, number string) (*Employee, error)
	GetByLogin(ctx context.Context, login string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query string, limit, offset int) ([]*Employee, int, error)

	// ListLoginsByPrefix feeds login derivation: all logins starting with
	// the candidate, read inside the registration transaction.
	ListLoginsByPrefix(ctx context.Context, prefix string) ([]string, error)

	SetDepartments(ctx context.Context, employeeID uuid.UUID, departmentIDs []uuid.UUID) error
	GetDepartments(ctx context.Context, employeeID uuid.UUID) ([]DepartmentInfo, error)
}

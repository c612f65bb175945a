package hospital

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(h *Hospital) error {
	errs := validation.Errors{}
	h.Name = strings.TrimSpace(h.Name)
	h.Address = strings.TrimSpace(h.Address)
	if h.Name == "" {
		errs.Add("name", "name is required")
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, h *Hospital) error {
	if err := validate(h); err != nil {
		return err
	}
	return s.repo.Create(ctx, h)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, h *Hospital) error {
	if err := validate(h); err != nil {
		return err
	}
	return s.repo.Update(ctx, h)
}

// Delete removes a hospital. Departments and patients cascade; employee
// assignments are cleared, leaving those accounts pending approval.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, query string, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.List(ctx, query, limit, offset)
}

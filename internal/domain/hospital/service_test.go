package hospital

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

// -- Mock Repository --

type mockRepo struct {
	hospitals map[uuid.UUID]*Hospital
}

func newMockRepo() *mockRepo {
	return &mockRepo{hospitals: make(map[uuid.UUID]*Hospital)}
}

func (m *mockRepo) Create(_ context.Context, h *Hospital) error {
	h.ID = uuid.New()
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return h, nil
}

func (m *mockRepo) Update(_ context.Context, h *Hospital) error {
	if _, ok := m.hospitals[h.ID]; !ok {
		return ErrNotFound
	}
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.hospitals[id]; !ok {
		return ErrNotFound
	}
	delete(m.hospitals, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, query string, limit, offset int) ([]*Hospital, int, error) {
	var result []*Hospital
	for _, h := range m.hospitals {
		result = append(result, h)
	}
	return result, len(result), nil
}

// -- Tests --

func TestCreateHospital(t *testing.T) {
	svc := NewService(newMockRepo())

	h := &Hospital{Name: "  Городская больница №1 ", Address: "ул. Ленина, 10"}
	if err := svc.Create(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ID == uuid.Nil {
		t.Error("expected an ID to be assigned")
	}
	if h.Name != "Городская больница №1" {
		t.Errorf("expected name to be trimmed, got %q", h.Name)
	}
}

func TestCreateHospital_NameRequired(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Create(context.Background(), &Hospital{Name: "   "})
	errs, ok := validation.AsErrors(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected error on name, got %v", errs)
	}
}

func TestUpdateHospital_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Update(context.Background(), &Hospital{ID: uuid.New(), Name: "X"})
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteHospital(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	h := &Hospital{Name: "H"}
	if err := svc.Create(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), h.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), h.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

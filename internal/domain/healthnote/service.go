package healthnote

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

// AdmissionDirectory verifies an admission is visible to a hospital.
type AdmissionDirectory interface {
	InHospital(ctx context.Context, admissionID, hospitalID uuid.UUID) (bool, error)
}

type Service struct {
	repo       Repository
	admissions AdmissionDirectory
}

func NewService(repo Repository, admissions AdmissionDirectory) *Service {
	return &Service{repo: repo, admissions: admissions}
}

type Input struct {
	NoteType string `json:"note_type"`
	Text     string `json:"text"`

	// Vitals arrive as free-form strings; unparsable values are stored as
	// absent rather than rejecting the note.
	BloodPressureHigh string `json:"blood_pressure_high"`
	BloodPressureLow  string `json:"blood_pressure_low"`
	HeartRate         string `json:"heart_rate"`
	Temperature       string `json:"temperature"`
}

func (s *Service) scope(ctx context.Context, admissionID, callerHospital uuid.UUID) error {
	ok, err := s.admissions.InHospital(ctx, admissionID, callerHospital)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Add records a note on an admission of the caller's hospital.
func (s *Service) Add(ctx context.Context, admissionID, callerHospital uuid.UUID, in Input) (*HealthNote, error) {
	if err := s.scope(ctx, admissionID, callerHospital); err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	in.Text = strings.TrimSpace(in.Text)
	if !validTypes[in.NoteType] {
		errs.Add("note_type", "note_type must be one of prescription, research, vitals, note")
	}
	if in.Text == "" {
		errs.Add("text", "text is required")
	}
	if errs.Any() {
		return nil, errs
	}

	n := &HealthNote{
		AdmissionID:       admissionID,
		NoteType:          in.NoteType,
		Text:              in.Text,
		BloodPressureHigh: parseIntField(in.BloodPressureHigh),
		BloodPressureLow:  parseIntField(in.BloodPressureLow),
		HeartRate:         parseIntField(in.HeartRate),
		Temperature:       parseFloatField(in.Temperature),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Get returns a note visible to the caller's hospital.
func (s *Service) Get(ctx context.Context, id, callerHospital uuid.UUID) (*HealthNote, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.scope(ctx, n.AdmissionID, callerHospital); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns an admission's notes, oldest first.
func (s *Service) List(ctx context.Context, admissionID, callerHospital uuid.UUID) ([]*HealthNote, error) {
	if err := s.scope(ctx, admissionID, callerHospital); err != nil {
		return nil, err
	}
	notes, err := s.repo.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*HealthNote{}
	}
	return notes, nil
}

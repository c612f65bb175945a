package patient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	LastName   string   `json:"last_name"`
	FirstName  string   `json:"first_name"`
	MiddleName string   `json:"middle_name"`
	BirthDate  string   `json:"birth_date"`
	BirthPlace string   `json:"birth_place"`
	SNILS      string   `json:"snils"`
	Gender     string   `json:"gender"`
	Height     *float64 `json:"height"`
	Weight     *float64 `json:"weight"`
}

// apply validates the input and writes it onto p. The SNILS is normalized
// to raw digits and checked for uniqueness within the hospital; exclude
// skips the record being edited.
func (s *Service) apply(ctx context.Context, p *Patient, in Input, exclude uuid.UUID) error {
	errs := validation.Errors{}

	in.LastName = strings.TrimSpace(in.LastName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.MiddleName = strings.TrimSpace(in.MiddleName)
	in.BirthPlace = strings.TrimSpace(in.BirthPlace)

	if in.LastName == "" {
		errs.Add("last_name", "last_name is required")
	}
	if in.FirstName == "" {
		errs.Add("first_name", "first_name is required")
	}
	if !validGenders[in.Gender] {
		errs.Add("gender", "gender must be male or female")
	}

	var birthDate time.Time
	if in.BirthDate == "" {
		errs.Add("birth_date", "birth_date is required")
	} else {
		var err error
		birthDate, err = time.Parse("2006-01-02", in.BirthDate)
		if err != nil {
			errs.Add("birth_date", "birth_date must be YYYY-MM-DD")
		} else if birthDate.After(s.now()) {
			errs.Add("birth_date", "birth_date cannot be in the future")
		}
	}

	snils, err := NormalizeSNILS(in.SNILS)
	if err != nil {
		errs.Add("snils", "snils must contain exactly 11 digits")
	} else {
		taken, err := s.repo.ExistsBySNILS(ctx, p.HospitalID, snils, exclude)
		if err != nil {
			return err
		}
		if taken {
			errs.Add("snils", "a patient with this snils already exists in this hospital")
		}
	}

	if in.Height != nil && (*in.Height <= 0 || *in.Height > 300) {
		errs.Add("height", "height must be between 0 and 300 cm")
	}
	if in.Weight != nil && (*in.Weight <= 0 || *in.Weight > 700) {
		errs.Add("weight", "weight must be between 0 and 700 kg")
	}

	if errs.Any() {
		return errs
	}

	p.LastName = in.LastName
	p.FirstName = in.FirstName
	p.MiddleName = in.MiddleName
	p.BirthDate = birthDate
	p.BirthPlace = in.BirthPlace
	p.SNILS = snils
	p.Gender = in.Gender
	p.Height = in.Height
	p.Weight = in.Weight
	return nil
}

// Create registers a patient in the caller's hospital.
func (s *Service) Create(ctx context.Context, callerHospital uuid.UUID, in Input) (*Patient, error) {
	p := &Patient{HospitalID: callerHospital}
	if err := s.apply(ctx, p, in, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a patient visible to the caller's hospital. Records of other
// hospitals are reported as absent.
func (s *Service) Get(ctx context.Context, id, callerHospital uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.HospitalID != callerHospital {
		return nil, ErrNotFound
	}
	return p, nil
}

// Edit re-runs full validation against the submitted fields before
// persisting. On failure nothing is written and the field errors are
// returned to the caller.
func (s *Service) Edit(ctx context.Context, id, callerHospital uuid.UUID, in Input) (*Patient, error) {
	p, err := s.Get(ctx, id, callerHospital)
	if err != nil {
		return nil, err
	}
	updated := *p
	if err := s.apply(ctx, &updated, in, p.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Search lists patients in the caller's hospital matching the filter. An
// empty filter returns the full hospital roster, most recent admission
// first.
func (s *Service) Search(ctx context.Context, callerHospital uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error) {
	// SNILS filters match the stored raw-digit form.
	if f.SNILS != "" {
		var b strings.Builder
		for _, r := range f.SNILS {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			f.SNILS = b.String()
		}
	}
	return s.repo.Search(ctx, callerHospital, f, limit, offset)
}

// Overview resolves the read model for a patient: formatted SNILS, age and
// the current stay, if one is active.
func (s *Service) Overview(ctx context.Context, id, callerHospital uuid.UUID) (*Overview, error) {
	p, err := s.Get(ctx, id, callerHospital)
	if err != nil {
		return nil, err
	}
	years, months := Age(p.BirthDate, s.now())
	o := &Overview{
		Patient:        p,
		SNILSFormatted: FormatSNILS(p.SNILS),
		AgeYears:       years,
		AgeMonths:      months,
	}
	stay, err := s.repo.ActiveStay(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if stay != nil {
		o.InHospital = true
		o.CurrentDepartment = stay.Department
		o.CurrentRoom = stay.RoomNumber
		admissionID := stay.AdmissionID
		o.ActiveAdmissionID = &admissionID
	}
	return o, nil
}

// InHospital reports whether the patient exists and belongs to the given
// hospital. The admission service uses it for scope checks.
func (s *Service) InHospital(ctx context.Context, id, hospitalID uuid.UUID) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.HospitalID == hospitalID, nil
}

// Package healthnote manages clinical notes on admissions and the vitals
// trend series built from them.
package healthnote

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note types.
const (
	TypePrescription = "prescription"
	TypeResearch     = "research"
	TypeVitals       = "vitals"
	TypeNote         = "note"
)

var validTypes = map[string]bool{
	TypePrescription: true,
	TypeResearch:     true,
	TypeVitals:       true,
	TypeNote:         true,
}

type HealthNote struct {
	ID          uuid.UUID `json:"id"`
	AdmissionID uuid.UUID `json:"admission_id"`
	NoteType    string    `json:"note_type"`
	Text        string    `json:"text"`

	// Optional vitals snapshot. Absent values mean "not recorded".
	BloodPressureHigh *int     `json:"blood_pressure_high,omitempty"`
	BloodPressureLow  *int     `json:"blood_pressure_low,omitempty"`
	HeartRate         *int     `json:"heart_rate,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// parseIntField parses a submitted vitals value defensively: an empty or
// unparsable value is stored as absent, not rejected.
func parseIntField(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatField(raw string) *float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

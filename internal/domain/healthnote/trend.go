package healthnote

import (
	"context"

	"github.com/google/uuid"

	"github.com/medjournal/journal/pkg/validation"
)

// Trend metrics.
const (
	MetricHeartRate     = "hr"
	MetricTemperature   = "temp"
	MetricBloodPressure = "bp"
)

const trendLabelLayout = "02.01 15:04"

// Trend holds parallel label/value arrays for client-side charting. Blood
// pressure uses two value arrays, systolic and diastolic; the other metrics
// use Values. Notes missing the metric are excluded, not zero-filled.
type Trend struct {
	Metric string    `json:"metric"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values,omitempty"`
	High   []float64 `json:"high,omitempty"`
	Low    []float64 `json:"low,omitempty"`
}

// Trend builds the series for one metric over an admission's notes, ordered
// by creation time ascending.
func (s *Service) Trend(ctx context.Context, admissionID, callerHospital uuid.UUID, metric string) (*Trend, error) {
	switch metric {
	case MetricHeartRate, MetricTemperature, MetricBloodPressure:
	default:
		return nil, validation.Errors{"metric": "metric must be one of hr, temp, bp"}
	}

	notes, err := s.List(ctx, admissionID, callerHospital)
	if err != nil {
		return nil, err
	}

	t := &Trend{Metric: metric, Labels: []string{}}
	switch metric {
	case MetricHeartRate:
		t.Values = []float64{}
		for _, n := range notes {
			if n.HeartRate == nil {
				continue
			}
			t.Labels = append(t.Labels, n.CreatedAt.Format(trendLabelLayout))
			t.Values = append(t.Values, float64(*n.HeartRate))
		}
	case MetricTemperature:
		t.Values = []float64{}
		for _, n := range notes {
			if n.Temperature == nil {
				continue
			}
			t.Labels = append(t.Labels, n.CreatedAt.Format(trendLabelLayout))
			t.Values = append(t.Values, *n.Temperature)
		}
	case MetricBloodPressure:
		t.High = []float64{}
		t.Low = []float64{}
		for _, n := range notes {
			// A pressure point needs both bounds.
			if n.BloodPressureHigh == nil || n.BloodPressureLow == nil {
				continue
			}
			t.Labels = append(t.Labels, n.CreatedAt.Format(trendLabelLayout))
			t.High = append(t.High, float64(*n.BloodPressureHigh))
			t.Low = append(t.Low, float64(*n.BloodPressureLow))
		}
	}
	return t, nil
}

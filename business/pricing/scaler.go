package pricing

import "fmt"

// StandardScaler applies the standardization fitted at training time:
// (x - mean) / scale, per feature. A zero scale is treated as 1, the
// same convention the fitting library uses for constant features.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform scales a full row. The row length must match the fitted
// feature count exactly; a mismatch means contract drift, not bad input.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler is malformed: %d means vs %d scales", len(s.Mean), len(s.Scale))
	}
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(row))
	}

	out := make([]float64, len(row))
	for i, v := range row {
		sc := s.Scale[i]
		if sc == 0 {
			sc = 1
		}
		out[i] = (v - s.Mean[i]) / sc
	}
	return out, nil
}

// TransformOne scales a single value with a single-feature scaler.
func (s *StandardScaler) TransformOne(v float64) (float64, error) {
	out, err := s.Transform([]float64{v})
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

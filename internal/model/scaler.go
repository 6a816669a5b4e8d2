package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StandardScaler centers and scales features using per-feature mean and
// scale learned offline: z[i] = (x[i] - mean[i]) / scale[i].
type StandardScaler struct {
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// Validate checks internal consistency of a deserialized scaler.
func (s *StandardScaler) Validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler has no mean vector")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean/scale length mismatch: %d vs %d", len(s.Mean), len(s.Scale))
	}
	if len(s.FeatureNames) != 0 && len(s.FeatureNames) != len(s.Mean) {
		return fmt.Errorf("scaler feature_names length mismatch: %d vs %d", len(s.FeatureNames), len(s.Mean))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return fmt.Errorf("scaler has zero scale for feature %d", i)
		}
	}
	return nil
}

// Dim returns the feature dimension the scaler was fitted on.
func (s *StandardScaler) Dim() int {
	return len(s.Mean)
}

// Transform applies the fitted standardization to x.
func (s *StandardScaler) Transform(x *mat.VecDense) (*mat.VecDense, error) {
	if x == nil || x.Len() != s.Dim() {
		got := 0
		if x != nil {
			got = x.Len()
		}
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrDimensionMismatch, s.Dim(), got)
	}

	z := mat.NewVecDense(s.Dim(), nil)
	for i := 0; i < s.Dim(); i++ {
		if s.Scale[i] == 0 {
			return nil, fmt.Errorf("zero scale for feature %d", i)
		}
		z.SetVec(i, (x.AtVec(i)-s.Mean[i])/s.Scale[i])
	}
	return z, nil
}

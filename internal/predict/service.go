// Package predict implements the prediction pass: validate a gene
// expression record, scale it, classify it, and phrase the verdict.
package predict

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/bioclust/gene-cluster-predictor/internal/genes"
	"github.com/bioclust/gene-cluster-predictor/internal/model"
)

const (
	// MemberMessage is shown when the classifier assigns the sample to
	// the E1 cluster.
	MemberMessage = "The sample belongs to the E1 gene cluster! 🎯"
	// NonMemberMessage is shown otherwise. Exactly one of the two
	// messages is ever produced per prediction.
	NonMemberMessage = "The sample does NOT belong to the E1 gene cluster. ❌"
)

// GeneInput maps each panel gene symbol to a non-negative expression
// level. All ten symbols must be present.
type GeneInput map[string]float64

// Result is the outcome of one prediction action.
type Result struct {
	Label   model.Label
	Member  bool
	Message string
}

// ValidationError reports per-field input problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid gene input: %v", keys)
}

// ScalingError reports a failure in the scaling step. The record never
// reached the classifier.
type ScalingError struct {
	Err error
}

func (e *ScalingError) Error() string { return fmt.Sprintf("error during data scaling: %v", e.Err) }
func (e *ScalingError) Unwrap() error { return e.Err }

// ClassificationError reports a failure inside the classifier after a
// successful scaling step.
type ClassificationError struct {
	Err error
}

func (e *ClassificationError) Error() string { return fmt.Sprintf("error during prediction: %v", e.Err) }
func (e *ClassificationError) Unwrap() error { return e.Err }

// Service runs the prediction pipeline against loaded artifacts.
type Service struct {
	scaler     model.Transformer
	classifier model.Classifier
}

// NewService creates a prediction service from a transformer and a
// classifier, normally the two deserialized artifacts.
func NewService(scaler model.Transformer, classifier model.Classifier) *Service {
	return &Service{scaler: scaler, classifier: classifier}
}

// Validate checks the GeneInput invariant: all ten panel genes present,
// no unknown genes, every value finite and >= 0.
func (s *Service) Validate(input GeneInput) error {
	fields := make(map[string]string)

	for _, symbol := range genes.Panel() {
		value, ok := input[symbol]
		if !ok {
			fields[symbol] = "missing expression value"
			continue
		}
		switch {
		case math.IsNaN(value) || math.IsInf(value, 0):
			fields[symbol] = "expression value must be a finite number"
		case value < 0:
			fields[symbol] = "expression value must be >= 0"
		}
	}

	for symbol := range input {
		if genes.Index(symbol) < 0 {
			fields[symbol] = "unknown gene symbol"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Vectorize arranges a validated record into panel feature order.
func (s *Service) Vectorize(input GeneInput) *mat.VecDense {
	panel := genes.Panel()
	data := make([]float64, len(panel))
	for i, symbol := range panel {
		data[i] = input[symbol]
	}
	return mat.NewVecDense(len(panel), data)
}

// Predict runs the full pass: validate, scale, classify. Scaling
// failures abort before the classifier is reached; classification
// failures are scoped to the action.
func (s *Service) Predict(input GeneInput) (Result, error) {
	if err := s.Validate(input); err != nil {
		return Result{}, err
	}

	raw := s.Vectorize(input)

	scaled, err := s.scaler.Transform(raw)
	if err != nil {
		return Result{}, &ScalingError{Err: err}
	}

	label, err := s.classifier.Predict(scaled)
	if err != nil {
		return Result{}, &ClassificationError{Err: err}
	}

	res := Result{Label: label, Member: label == model.LabelMember}
	if res.Member {
		res.Message = MemberMessage
	} else {
		res.Message = NonMemberMessage
	}
	return res, nil
}

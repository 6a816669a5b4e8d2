// Package model loads and runs the pre-trained scaler and classifier
// artifacts. Both are produced by an external training pipeline; this
// package only deserializes them and runs inference.
package model

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Label is the binary class produced by the classifier.
type Label int

const (
	// LabelNonMember means the sample is outside the E1 cluster.
	LabelNonMember Label = 0
	// LabelMember means the sample belongs to the E1 cluster.
	LabelMember Label = 1
)

var (
	// ErrArtifactMissing is returned when a required artifact file does
	// not exist on disk.
	ErrArtifactMissing = errors.New("artifact file missing")

	// ErrDimensionMismatch is returned when an input vector does not
	// match the artifact's feature dimension.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

// Transformer scales a raw feature vector into model space.
type Transformer interface {
	Transform(x *mat.VecDense) (*mat.VecDense, error)
}

// Classifier assigns a binary label to a scaled feature vector.
type Classifier interface {
	Predict(x *mat.VecDense) (Label, error)
}

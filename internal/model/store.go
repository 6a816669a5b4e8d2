package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	scalerFile     = "scaler.json"
	classifierFile = "model.json"
)

// Store loads the scaler and classifier artifacts from a directory.
// Both files are written by the training pipeline; there is no default
// artifact, a missing file is a fatal configuration error.
type Store struct {
	dir string
}

// NewStore creates an artifact store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ScalerPath returns the expected path of the scaler artifact.
func (s *Store) ScalerPath() string {
	return filepath.Join(s.dir, scalerFile)
}

// ClassifierPath returns the expected path of the classifier artifact.
func (s *Store) ClassifierPath() string {
	return filepath.Join(s.dir, classifierFile)
}

// LoadScaler deserializes and validates the scaler artifact.
func (s *Store) LoadScaler() (*StandardScaler, error) {
	var scaler StandardScaler
	if err := s.loadJSON(s.ScalerPath(), &scaler); err != nil {
		return nil, err
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scaler artifact %s: %w", s.ScalerPath(), err)
	}
	return &scaler, nil
}

// LoadClassifier deserializes and validates the classifier artifact.
func (s *Store) LoadClassifier() (*RandomForest, error) {
	var forest RandomForest
	if err := s.loadJSON(s.ClassifierPath(), &forest); err != nil {
		return nil, err
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier artifact %s: %w", s.ClassifierPath(), err)
	}
	return &forest, nil
}

// Load loads both artifacts and checks that they agree on the feature
// dimension.
func (s *Store) Load() (*StandardScaler, *RandomForest, error) {
	scaler, err := s.LoadScaler()
	if err != nil {
		return nil, nil, err
	}
	forest, err := s.LoadClassifier()
	if err != nil {
		return nil, nil, err
	}
	if scaler.Dim() != forest.NumFeatures {
		return nil, nil, fmt.Errorf("artifact mismatch: scaler has %d features, classifier has %d", scaler.Dim(), forest.NumFeatures)
	}
	return scaler, forest, nil
}

func (s *Store) loadJSON(path string, v interface{}) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return nil
}

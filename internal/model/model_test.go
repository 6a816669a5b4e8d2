package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testScaler() *StandardScaler {
	mean := make([]float64, 10)
	scale := make([]float64, 10)
	for i := range mean {
		mean[i] = 1.0
		scale[i] = 2.0
	}
	return &StandardScaler{Mean: mean, Scale: scale}
}

func constVec(n int, v float64) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return mat.NewVecDense(n, data)
}

func TestStandardScalerTransform(t *testing.T) {
	scaler := testScaler()

	z, err := scaler.Transform(constVec(10, 0))
	require.NoError(t, err)
	require.Equal(t, 10, z.Len())
	for i := 0; i < z.Len(); i++ {
		assert.InDelta(t, -0.5, z.AtVec(i), 1e-12)
	}

	z, err = scaler.Transform(constVec(10, 5))
	require.NoError(t, err)
	for i := 0; i < z.Len(); i++ {
		assert.InDelta(t, 2.0, z.AtVec(i), 1e-12)
	}
}

func TestStandardScalerTransformDimensionMismatch(t *testing.T) {
	scaler := testScaler()

	_, err := scaler.Transform(constVec(3, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = scaler.Transform(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestStandardScalerValidate(t *testing.T) {
	tests := []struct {
		name    string
		scaler  StandardScaler
		wantErr bool
	}{
		{
			name:   "valid scaler",
			scaler: *testScaler(),
		},
		{
			name:    "empty mean",
			scaler:  StandardScaler{},
			wantErr: true,
		},
		{
			name:    "mean scale length mismatch",
			scaler:  StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1}},
			wantErr: true,
		},
		{
			name:    "zero scale entry",
			scaler:  StandardScaler{Mean: []float64{0, 0}, Scale: []float64{1, 0}},
			wantErr: true,
		},
		{
			name: "feature names length mismatch",
			scaler: StandardScaler{
				FeatureNames: []string{"A"},
				Mean:         []float64{0, 0},
				Scale:        []float64{1, 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scaler.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestForestPredict(t *testing.T) {
	store := NewStore("testdata")
	scaler, forest, err := store.Load()
	require.NoError(t, err)

	// All-zero raw record scales to -0.5 everywhere and lands on the
	// non-member side of every tree.
	z, err := scaler.Transform(constVec(10, 0))
	require.NoError(t, err)
	label, err := forest.Predict(z)
	require.NoError(t, err)
	assert.Equal(t, LabelNonMember, label)

	// Uniformly high expression scales to +2 and flips every tree.
	z, err = scaler.Transform(constVec(10, 5))
	require.NoError(t, err)
	label, err = forest.Predict(z)
	require.NoError(t, err)
	assert.Equal(t, LabelMember, label)
}

func TestForestPredictDimensionMismatch(t *testing.T) {
	store := NewStore("testdata")
	forest, err := store.LoadClassifier()
	require.NoError(t, err)

	_, err = forest.Predict(constVec(4, 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestForestPredictEmpty(t *testing.T) {
	forest := &RandomForest{NumFeatures: 10, NumClasses: 2}

	_, err := forest.Predict(constVec(10, 0))
	assert.Error(t, err)
}

func TestForestValidate(t *testing.T) {
	leaf := func(a, b float64) TreeNode {
		return TreeNode{Feature: -2, Left: -1, Right: -1, Value: []float64{a, b}}
	}

	tests := []struct {
		name    string
		forest  RandomForest
		wantErr string
	}{
		{
			name: "valid forest",
			forest: RandomForest{
				NumFeatures: 2,
				NumClasses:  2,
				Trees: []Tree{{Nodes: []TreeNode{
					{Feature: 0, Threshold: 0, Left: 1, Right: 2},
					leaf(1, 0),
					leaf(0, 1),
				}}},
			},
		},
		{
			name:    "no trees",
			forest:  RandomForest{NumFeatures: 2, NumClasses: 2},
			wantErr: "no trees",
		},
		{
			name: "not binary",
			forest: RandomForest{
				NumFeatures: 2,
				NumClasses:  3,
				Trees:       []Tree{{Nodes: []TreeNode{leaf(1, 0)}}},
			},
			wantErr: "binary",
		},
		{
			name: "feature out of range",
			forest: RandomForest{
				NumFeatures: 2,
				NumClasses:  2,
				Trees: []Tree{{Nodes: []TreeNode{
					{Feature: 7, Threshold: 0, Left: 1, Right: 2},
					leaf(1, 0),
					leaf(0, 1),
				}}},
			},
			wantErr: "out of range",
		},
		{
			name: "child out of range",
			forest: RandomForest{
				NumFeatures: 2,
				NumClasses:  2,
				Trees: []Tree{{Nodes: []TreeNode{
					{Feature: 0, Threshold: 0, Left: 1, Right: 9},
					leaf(1, 0),
				}}},
			},
			wantErr: "out of range",
		},
		{
			name: "leaf class count mismatch",
			forest: RandomForest{
				NumFeatures: 2,
				NumClasses:  2,
				Trees: []Tree{{Nodes: []TreeNode{
					{Feature: -2, Left: -1, Right: -1, Value: []float64{1}},
				}}},
			},
			wantErr: "classes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.forest.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestStoreMissingArtifacts(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.LoadScaler()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactMissing)

	_, err = store.LoadClassifier()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactMissing)

	_, _, err = store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactMissing)
}

func TestStoreMissingClassifierOnly(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("testdata", "scaler.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"), data, 0644))

	store := NewStore(dir)
	_, _, err = store.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactMissing)
	assert.Contains(t, err.Error(), "model.json")
}

func TestStoreCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"), []byte("{not json"), 0644))

	store := NewStore(dir)
	_, err := store.LoadScaler()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestStoreDimensionAgreement(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"),
		[]byte(`{"mean":[0,0],"scale":[1,1]}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"),
		[]byte(`{"n_features":10,"n_classes":2,"trees":[{"nodes":[{"feature":-2,"left":-1,"right":-1,"value":[1,0]}]}]}`), 0644))

	store := NewStore(dir)
	_, _, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact mismatch")
}

package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TreeNode is one node of a serialized decision tree. Leaf nodes have
// Left == -1 and Right == -1 and carry a class distribution in Value.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// Tree is a single decision tree stored as a flat node array rooted at
// index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// RandomForest is an exported tree ensemble. Prediction averages the
// per-tree leaf distributions and takes the argmax class.
type RandomForest struct {
	NumFeatures int    `json:"n_features"`
	NumClasses  int    `json:"n_classes"`
	Trees       []Tree `json:"trees"`
}

// Validate checks internal consistency of a deserialized forest.
func (f *RandomForest) Validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if f.NumClasses != 2 {
		return fmt.Errorf("forest must be binary, got %d classes", f.NumClasses)
	}
	if f.NumFeatures <= 0 {
		return fmt.Errorf("forest has invalid feature count %d", f.NumFeatures)
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.isLeaf() {
				if len(node.Value) != f.NumClasses {
					return fmt.Errorf("tree %d node %d: leaf value has %d classes, want %d", ti, ni, len(node.Value), f.NumClasses)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= f.NumFeatures {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, node.Feature)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) || node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

func (n *TreeNode) isLeaf() bool {
	return n.Left == -1 && n.Right == -1
}

// leaf walks a tree from the root to the leaf matching x.
func (t *Tree) leaf(x *mat.VecDense) (*TreeNode, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := &t.Nodes[idx]
		if node.isLeaf() {
			return node, nil
		}
		if x.AtVec(node.Feature) <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return nil, fmt.Errorf("tree traversal did not terminate (cycle in node graph)")
}

// Predict returns the majority class over all trees for a scaled sample.
func (f *RandomForest) Predict(x *mat.VecDense) (Label, error) {
	if len(f.Trees) == 0 {
		return LabelNonMember, fmt.Errorf("forest has no trees")
	}
	if x == nil || x.Len() != f.NumFeatures {
		got := 0
		if x != nil {
			got = x.Len()
		}
		return LabelNonMember, fmt.Errorf("%w: forest expects %d features, got %d", ErrDimensionMismatch, f.NumFeatures, got)
	}

	votes := make([]float64, f.NumClasses)
	for ti := range f.Trees {
		leaf, err := f.Trees[ti].leaf(x)
		if err != nil {
			return LabelNonMember, fmt.Errorf("tree %d: %w", ti, err)
		}
		total := 0.0
		for _, v := range leaf.Value {
			total += v
		}
		if total == 0 {
			return LabelNonMember, fmt.Errorf("tree %d: leaf has empty class distribution", ti)
		}
		for c, v := range leaf.Value {
			votes[c] += v / total
		}
	}

	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return Label(best), nil
}

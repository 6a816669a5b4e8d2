package types

import "github.com/bioclust/gene-cluster-predictor/internal/genes"

// PredictRequest is the body of POST /api/predict. Expressions maps
// each gene symbol of the panel to its measured expression level.
type PredictRequest struct {
	Expressions map[string]float64 `json:"expressions" binding:"required"`
}

// PredictResponse is the verdict returned for one prediction action.
type PredictResponse struct {
	Label   int    `json:"label"`
	Member  bool   `json:"member"`
	Message string `json:"message"`
}

// GenesResponse is the static informational payload for the page: the
// panel in model order with descriptions and display importances.
type GenesResponse struct {
	Cluster string           `json:"cluster"`
	Genes   []genes.GeneInfo `json:"genes"`
}

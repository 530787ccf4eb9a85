package pricing

import (
	"fmt"
	"math"
)

// ProbabilityModel produces the positive-class probability for one
// encoded feature row.
type ProbabilityModel interface {
	PredictProbability(row []float64) (float64, error)
}

// TreeNode is one node of a flattened decision tree. Internal nodes
// route on row[Feature] <= Threshold; leaves carry the raw score.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// GradientBoostedModel is a two-class boosted-trees classifier exported
// from training as flattened node arrays. The probability is the
// sigmoid of the staged raw score, i.e. the mass of the "converts"
// class.
type GradientBoostedModel struct {
	InitScore    float64 `json:"init_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

var _ ProbabilityModel = (*GradientBoostedModel)(nil)

func (m *GradientBoostedModel) PredictProbability(row []float64) (float64, error) {
	raw := m.InitScore
	for ti := range m.Trees {
		leaf, err := m.Trees[ti].score(row)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		raw += m.LearningRate * leaf
	}

	p := 1.0 / (1.0 + math.Exp(-raw))
	// predictor contract: always hand downstream a probability in [0,1]
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return p, nil
}

func (t *Tree) score(row []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("empty tree")
	}

	i := 0
	for hops := 0; hops <= len(t.Nodes); hops++ {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(row) {
			return 0, fmt.Errorf("node %d routes on feature %d, row has %d", i, n.Feature, len(row))
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
		if i < 0 || i >= len(t.Nodes) {
			return 0, fmt.Errorf("node %d points outside the tree", i)
		}
	}
	return 0, fmt.Errorf("tree traversal did not reach a leaf")
}

package pricing

import "fmt"

// ClusterModel assigns a feature row to a discrete customer segment.
// The core only depends on this capability, not on how the model was
// trained or persisted.
type ClusterModel interface {
	PredictCluster(row []float64) (int, error)
}

// KMeansModel holds the pre-fitted centroids of the segmentation model.
// Assignment is plain nearest-centroid; centroids are never refitted.
type KMeansModel struct {
	Centroids [][]float64 `json:"centroids"`
}

var _ ClusterModel = (*KMeansModel)(nil)

func (m *KMeansModel) PredictCluster(row []float64) (int, error) {
	if len(m.Centroids) == 0 {
		return 0, fmt.Errorf("kmeans model has no centroids")
	}

	best := 0
	bestDist := -1.0
	for i, c := range m.Centroids {
		if len(c) != len(row) {
			return 0, fmt.Errorf("centroid %d has %d features, row has %d", i, len(c), len(row))
		}
		d := 0.0
		for j := range row {
			diff := row[j] - c[j]
			d += diff * diff
		}
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, nil
}

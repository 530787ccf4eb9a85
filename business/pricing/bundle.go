package pricing

import "fmt"

// UnknownSegmentLabel is used for cluster ids missing from the segment
// mapping. Unlike unseen categorical values this is not an error; the
// trained mapping simply never covered the id.
const UnknownSegmentLabel = "Unknown Segment"

// ModelBundle holds the six pre-fitted artifacts the pipeline consumes.
// It is built once at startup, injected into the service, and read-only
// afterwards, so concurrent requests need no locking.
type ModelBundle struct {
	Encoders             map[string]*LabelEncoder
	PurchaseAmountScaler *StandardScaler
	SegmentationScaler   *StandardScaler
	Clusterer            ClusterModel
	Classifier           ProbabilityModel
	SegmentLabels        map[int]string
}

// Validate checks the bundle is complete and shape-consistent with the
// feature contract. Called by the artifact loader before the bundle is
// ever served.
func (b *ModelBundle) Validate() error {
	for _, col := range CategoricalCols {
		enc, ok := b.Encoders[col]
		if !ok || enc == nil {
			return fmt.Errorf("label encoder for '%s' is missing", col)
		}
		if len(enc.Classes) == 0 {
			return fmt.Errorf("label encoder for '%s' has an empty vocabulary", col)
		}
	}
	if b.PurchaseAmountScaler == nil {
		return fmt.Errorf("purchase amount scaler is missing")
	}
	if len(b.PurchaseAmountScaler.Mean) != 1 {
		return fmt.Errorf("purchase amount scaler expects 1 feature, has %d", len(b.PurchaseAmountScaler.Mean))
	}
	if b.SegmentationScaler == nil {
		return fmt.Errorf("segmentation scaler is missing")
	}
	if got := len(b.SegmentationScaler.Mean); got != len(SegmentationFeatures) {
		return fmt.Errorf("segmentation scaler fitted on %d features, pipeline builds %d", got, len(SegmentationFeatures))
	}
	if b.Clusterer == nil {
		return fmt.Errorf("clustering model is missing")
	}
	if b.Classifier == nil {
		return fmt.Errorf("conversion model is missing")
	}
	if len(b.SegmentLabels) == 0 {
		return fmt.Errorf("segment mapping is missing or empty")
	}
	return nil
}

// SegmentLabel maps a cluster id to its human-readable label.
func (b *ModelBundle) SegmentLabel(clusterID int) string {
	if label, ok := b.SegmentLabels[clusterID]; ok {
		return label
	}
	return UnknownSegmentLabel
}

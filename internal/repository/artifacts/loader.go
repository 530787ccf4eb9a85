package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"smartPriceMarket/business/pricing"
	"smartPriceMarket/pkg/logger"
)

// Artifact file names as exported by the training notebook.
const (
	fileLabelEncoders  = "label_encoders.json"
	filePurchaseScaler = "scaler_purchase_amount.json"
	fileSegmentScaler  = "scaler_segmentation_features.json"
	fileKMeans         = "kmeans_model.json"
	fileGBModel        = "gb_model.json"
	fileSegmentMapping = "segment_mapping.json"
)

// Load reads the six model artifacts from dir and assembles a validated
// ModelBundle. Runs once at startup; any failure leaves the pricing
// pipeline disabled for the process lifetime.
func Load(dir string) (*pricing.ModelBundle, error) {
	var vocabularies map[string][]string
	if err := readJSON(filepath.Join(dir, fileLabelEncoders), &vocabularies); err != nil {
		return nil, err
	}
	encoders := make(map[string]*pricing.LabelEncoder, len(vocabularies))
	for col, classes := range vocabularies {
		encoders[col] = pricing.NewLabelEncoder(classes)
	}

	purchaseScaler := &pricing.StandardScaler{}
	if err := readJSON(filepath.Join(dir, filePurchaseScaler), purchaseScaler); err != nil {
		return nil, err
	}

	segmentScaler := &pricing.StandardScaler{}
	if err := readJSON(filepath.Join(dir, fileSegmentScaler), segmentScaler); err != nil {
		return nil, err
	}

	kmeans := &pricing.KMeansModel{}
	if err := readJSON(filepath.Join(dir, fileKMeans), kmeans); err != nil {
		return nil, err
	}

	gbModel := &pricing.GradientBoostedModel{}
	if err := readJSON(filepath.Join(dir, fileGBModel), gbModel); err != nil {
		return nil, err
	}

	var rawMapping map[string]string
	if err := readJSON(filepath.Join(dir, fileSegmentMapping), &rawMapping); err != nil {
		return nil, err
	}
	segmentLabels := make(map[int]string, len(rawMapping))
	for key, label := range rawMapping {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("segment mapping key '%s' is not a cluster id", key)
		}
		segmentLabels[id] = label
	}

	bundle := &pricing.ModelBundle{
		Encoders:             encoders,
		PurchaseAmountScaler: purchaseScaler,
		SegmentationScaler:   segmentScaler,
		Clusterer:            kmeans,
		Classifier:           gbModel,
		SegmentLabels:        segmentLabels,
	}

	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("model bundle is inconsistent: %w", err)
	}

	logger.Info("Model artifacts loaded",
		"dir", dir,
		"encoders", len(encoders),
		"centroids", len(kmeans.Centroids),
		"trees", len(gbModel.Trees),
		"segments", len(segmentLabels),
	)

	return bundle, nil
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}

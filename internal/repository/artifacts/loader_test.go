//go:build !integration

package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"smartPriceMarket/business/pricing"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func writeValidArtifacts(t *testing.T, dir string) {
	t.Helper()
	writeArtifact(t, dir, "label_encoders.json", `{
		"Gender": ["Female", "Male"],
		"City": ["Delhi", "Mumbai"],
		"Occupation": ["Doctor", "Engineer"],
		"Product_Category": ["Books", "Electronics"],
		"Weather": ["Rainy", "Sunny"],
		"Time_of_Day": ["Evening", "Morning"],
		"Loyalty_Tier": ["Bronze", "Gold"]
	}`)
	writeArtifact(t, dir, "scaler_purchase_amount.json", `{"mean": [1000], "scale": [500]}`)
	writeArtifact(t, dir, "scaler_segmentation_features.json", `{
		"mean":  [0,0,0,0,0,0,0,0,0,0,0],
		"scale": [1,1,1,1,1,1,1,1,1,1,1]
	}`)
	writeArtifact(t, dir, "kmeans_model.json", `{"centroids": [
		[0,0,0,0,0,0,0,0,0,0,0],
		[1,1,1,1,1,1,1,1,1,1,1]
	]}`)
	writeArtifact(t, dir, "gb_model.json", `{
		"init_score": 0.2,
		"learning_rate": 0.1,
		"trees": [{"nodes": [
			{"feature": 0, "threshold": 30, "left": 1, "right": 2},
			{"leaf": true, "value": -1},
			{"leaf": true, "value": 1}
		]}]
	}`)
	writeArtifact(t, dir, "segment_mapping.json", `{"0": "Premium Buyer", "1": "Bargain Hunter"}`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeValidArtifacts(t, dir)

	bundle, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bundle.Encoders) != 7 {
		t.Errorf("loaded %d encoders", len(bundle.Encoders))
	}
	if code, ok := bundle.Encoders[pricing.FeatWeather].TryEncode("Sunny"); !ok || code != 1 {
		t.Errorf("weather encoder broken: (%d, %v)", code, ok)
	}
	if bundle.SegmentLabel(1) != "Bargain Hunter" {
		t.Errorf("segment mapping broken: %q", bundle.SegmentLabel(1))
	}

	// loaded models are usable end to end
	cluster, err := bundle.Clusterer.PredictCluster(make([]float64, 11))
	if err != nil || cluster != 0 {
		t.Errorf("PredictCluster = (%d, %v)", cluster, err)
	}
	prob, err := bundle.Classifier.PredictProbability(make([]float64, 12))
	if err != nil || prob <= 0 || prob >= 1 {
		t.Errorf("PredictProbability = (%v, %v)", prob, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	writeValidArtifacts(t, dir)
	if err := os.Remove(filepath.Join(dir, "kmeans_model.json")); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for a missing artifact")
	}
}

func TestLoad_InconsistentShapes(t *testing.T) {
	dir := t.TempDir()
	writeValidArtifacts(t, dir)
	// segmentation scaler fitted on the wrong number of features
	writeArtifact(t, dir, "scaler_segmentation_features.json", `{"mean": [0,0], "scale": [1,1]}`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected validation to reject a mis-shaped scaler")
	}
}

func TestLoad_BadSegmentMappingKey(t *testing.T) {
	dir := t.TempDir()
	writeValidArtifacts(t, dir)
	writeArtifact(t, dir, "segment_mapping.json", `{"premium": "Premium Buyer"}`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for a non-numeric cluster id")
	}
}

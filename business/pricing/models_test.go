//go:build !integration

package pricing

import (
	"math"
	"strings"
	"testing"
)

func TestLabelEncoderRoundTrip(t *testing.T) {
	enc := NewLabelEncoder([]string{"Cloudy", "Rainy", "Sunny"})

	code, ok := enc.TryEncode("Rainy")
	if !ok || code != 1 {
		t.Fatalf("TryEncode(Rainy) = (%d, %v)", code, ok)
	}

	label, ok := enc.Decode(2)
	if !ok || label != "Sunny" {
		t.Fatalf("Decode(2) = (%q, %v)", label, ok)
	}

	if _, ok := enc.TryEncode("Snowy"); ok {
		t.Fatal("unseen value must not encode")
	}
	if _, ok := enc.Decode(3); ok {
		t.Fatal("out-of-range code must not decode")
	}
}

func TestStandardScalerTransform(t *testing.T) {
	s := &StandardScaler{Mean: []float64{10, 0}, Scale: []float64{2, 0}}

	got, err := s.Transform([]float64{14, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// zero scale falls back to 1
	if got[0] != 2 || got[1] != 5 {
		t.Fatalf("transformed %v", got)
	}

	if _, err := s.Transform([]float64{1}); err == nil {
		t.Fatal("expected error on row length mismatch")
	}
}

func TestKMeansNearestCentroid(t *testing.T) {
	m := &KMeansModel{Centroids: [][]float64{
		{0, 0},
		{10, 10},
		{-5, 5},
	}}

	cases := []struct {
		row  []float64
		want int
	}{
		{[]float64{1, 1}, 0},
		{[]float64{9, 8}, 1},
		{[]float64{-4, 4}, 2},
	}
	for _, c := range cases {
		got, err := m.PredictCluster(c.row)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Errorf("PredictCluster(%v) = %d, want %d", c.row, got, c.want)
		}
	}

	if _, err := m.PredictCluster([]float64{1}); err == nil {
		t.Fatal("expected error on dimension mismatch")
	}
	empty := &KMeansModel{}
	if _, err := empty.PredictCluster([]float64{1, 2}); err == nil {
		t.Fatal("expected error for a model without centroids")
	}
}

func TestGradientBoostedModelPredict(t *testing.T) {
	// one stump: feature 0 <= 1.5 scores -2, otherwise +2
	m := &GradientBoostedModel{
		InitScore:    0.5,
		LearningRate: 1.0,
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 0, Threshold: 1.5, Left: 1, Right: 2},
			{Leaf: true, Value: -2},
			{Leaf: true, Value: 2},
		}}},
	}

	low, err := m.PredictProbability([]float64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := m.PredictProbability([]float64{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLow := 1.0 / (1.0 + math.Exp(1.5))
	wantHigh := 1.0 / (1.0 + math.Exp(-2.5))
	if math.Abs(low-wantLow) > 1e-12 || math.Abs(high-wantHigh) > 1e-12 {
		t.Fatalf("probabilities (%v, %v), want (%v, %v)", low, high, wantLow, wantHigh)
	}
	if low <= 0 || low >= 1 || high <= 0 || high >= 1 {
		t.Fatalf("probabilities out of the open interval: %v %v", low, high)
	}
}

func TestGradientBoostedModel_BrokenTree(t *testing.T) {
	m := &GradientBoostedModel{
		LearningRate: 0.1,
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 5, Threshold: 0, Left: 1, Right: 1},
			{Leaf: true, Value: 1},
		}}},
	}
	if _, err := m.PredictProbability([]float64{1, 2}); err == nil {
		t.Fatal("expected error when a node routes on a feature outside the row")
	}

	cyclic := &GradientBoostedModel{
		LearningRate: 0.1,
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 0, Threshold: 10, Left: 1, Right: 1},
			{Feature: 0, Threshold: 10, Left: 0, Right: 0},
		}}},
	}
	_, err := cyclic.PredictProbability([]float64{1})
	if err == nil || !strings.Contains(err.Error(), "leaf") {
		t.Fatalf("expected traversal guard to trip, got %v", err)
	}
}

func TestModelBundleValidate(t *testing.T) {
	bundle := newTestBundle()
	if err := bundle.Validate(); err != nil {
		t.Fatalf("complete bundle rejected: %v", err)
	}

	broken := newTestBundle()
	delete(broken.Encoders, FeatWeather)
	if err := broken.Validate(); err == nil {
		t.Fatal("expected validation failure for a missing encoder")
	}

	broken = newTestBundle()
	broken.SegmentationScaler = &StandardScaler{Mean: []float64{0}, Scale: []float64{1}}
	if err := broken.Validate(); err == nil {
		t.Fatal("expected validation failure for a mis-shaped scaler")
	}

	broken = newTestBundle()
	broken.SegmentLabels = nil
	if err := broken.Validate(); err == nil {
		t.Fatal("expected validation failure for an empty segment mapping")
	}
}

func TestSegmentLabelFallback(t *testing.T) {
	bundle := newTestBundle()
	if got := bundle.SegmentLabel(0); got != "Premium Buyer" {
		t.Fatalf("SegmentLabel(0) = %q", got)
	}
	if got := bundle.SegmentLabel(99); got != UnknownSegmentLabel {
		t.Fatalf("SegmentLabel(99) = %q", got)
	}
}

//go:build !integration

package pricing

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOptimizePrice_HighConversionBeatsSegmentFloor(t *testing.T) {
	// conversion 0.95 above the Bargain Hunter floor of 0.88
	got := OptimizePrice(1000, 0.95, "Bargain Hunter")
	if !almostEqual(got, 950) {
		t.Fatalf("expected 950, got %v", got)
	}
}

func TestOptimizePrice_SegmentFloorHolds(t *testing.T) {
	// low conversion: the per-segment floor decides the factor
	got := OptimizePrice(1000, 0.10, "Premium Buyer")
	if !almostEqual(got, 950) {
		t.Fatalf("expected 950, got %v", got)
	}

	got = OptimizePrice(1000, 0.10, "Budget Buyer")
	// raw would be 850, flat cap lifts it to 1000-100=900
	if !almostEqual(got, 900) {
		t.Fatalf("expected 900, got %v", got)
	}
}

func TestOptimizePrice_UnknownSegmentUsesDefault(t *testing.T) {
	// default floor 0.90, raw 450, both caps are below: flat cap 400,
	// pct cap 350
	got := OptimizePrice(500, 0.10, "Unknown Segment")
	if !almostEqual(got, 450) {
		t.Fatalf("expected 450, got %v", got)
	}
}

func TestOptimizePrice_FlatDiscountCap(t *testing.T) {
	// 15% off 5000 is 750, more than the flat 100 allowed
	got := OptimizePrice(5000, 0.10, "Budget Buyer")
	if !almostEqual(got, 4900) {
		t.Fatalf("expected 4900, got %v", got)
	}
}

func TestOptimizePrice_PercentageCapOnSmallPrices(t *testing.T) {
	// the flat cap alone would allow 50-100 < 0; the 30% cap holds it
	// at 35
	got := OptimizePrice(50, 0.10, "Budget Buyer")
	if !almostEqual(got, 42.5) {
		// Budget Buyer floor 0.85 of 50 is 42.5, already above both caps
		t.Fatalf("expected 42.5, got %v", got)
	}

	got = OptimizePrice(50, 0.0, "no such segment")
	if !almostEqual(got, 45) {
		t.Fatalf("expected 45, got %v", got)
	}
}

func TestOptimizePrice_ZeroPrice(t *testing.T) {
	if got := OptimizePrice(0, 0.5, "Premium Buyer"); got != 0 {
		t.Fatalf("expected 0 for a zero price, got %v", got)
	}
}

func TestOptimizePrice_NeverExceedsOriginal(t *testing.T) {
	for _, p := range []float64{10, 99.99, 500, 1234.56, 100000} {
		for _, prob := range []float64{0, 0.25, 0.5, 0.88, 1} {
			for seg := range segmentDiscountCaps {
				got := OptimizePrice(p, prob, seg)
				if got > p {
					t.Fatalf("optimized %v exceeds original %v (prob=%v segment=%s)", got, p, prob, seg)
				}
				if got < p*(1-maxDiscountPct)-1e-9 {
					t.Fatalf("optimized %v below 30%% floor of %v (prob=%v segment=%s)", got, p, prob, seg)
				}
			}
		}
	}
}

func TestOptimizePrice_MonotonicInProbability(t *testing.T) {
	prev := -1.0
	for prob := 0.0; prob <= 1.0; prob += 0.05 {
		got := OptimizePrice(1000, prob, "Bargain Hunter")
		if got < prev {
			t.Fatalf("price dropped from %v to %v as probability rose to %v", prev, got, prob)
		}
		prev = got
	}
}

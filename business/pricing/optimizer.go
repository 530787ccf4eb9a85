package pricing

// Per-segment price-factor floors. Higher conversion probability can
// push the factor up toward full price, never below the segment floor.
var segmentDiscountCaps = map[string]float64{
	"Premium Buyer":  0.95,
	"Impulse Buyer":  0.90,
	"Bargain Hunter": 0.88,
	"Budget Buyer":   0.85,
	"New Customer":   0.85,
}

const (
	defaultDiscountCap = 0.90
	maxFlatDiscount    = 100.0
	maxDiscountPct     = 0.30
)

// OptimizePrice combines the original price, the (clamped) conversion
// probability and the segment label into the final offered price.
// Pure: no model lookups, no state.
func OptimizePrice(originalPrice, conversionProb float64, segmentLabel string) float64 {
	threshold, ok := segmentDiscountCaps[segmentLabel]
	if !ok {
		threshold = defaultDiscountCap
	}

	priceFactor := threshold
	if conversionProb > priceFactor {
		priceFactor = conversionProb
	}

	rawPrice := originalPrice * priceFactor

	// never more than a flat 100 below original
	cappedByFlat := rawPrice
	if floor := originalPrice - maxFlatDiscount; floor > cappedByFlat {
		cappedByFlat = floor
	}

	// never more than 30% below original
	cappedByPct := cappedByFlat
	if floor := originalPrice * (1 - maxDiscountPct); floor > cappedByPct {
		cappedByPct = floor
	}

	if cappedByPct < 0 {
		return 0
	}
	return cappedByPct
}

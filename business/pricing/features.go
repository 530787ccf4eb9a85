package pricing

// Feature names as used at training time. The underlying models are
// order-sensitive, so the ordered lists below are load-bearing.
const (
	FeatAge                  = "Age"
	FeatGender               = "Gender"
	FeatCity                 = "City"
	FeatOccupation           = "Occupation"
	FeatProductCategory      = "Product_Category"
	FeatWeather              = "Weather"
	FeatTimeOfDay            = "Time_of_Day"
	FeatLoyaltyTier          = "Loyalty_Tier"
	FeatAgeGroup             = "Age_Group"
	FeatUserProductCount     = "User_Product_Count"
	FeatPurchaseAmount       = "Purchase_Amount"
	FeatPurchaseAmountScaled = "Purchase_Amount_Scaled"
	FeatCustomerSegment      = "CustomerSegment"
)

// SegmentationFeatures is the exact row the segmentation scaler and the
// clustering model were fitted on.
var SegmentationFeatures = []string{
	FeatAge, FeatGender, FeatCity, FeatOccupation, FeatProductCategory,
	FeatWeather, FeatTimeOfDay, FeatLoyaltyTier, FeatAgeGroup,
	FeatUserProductCount, FeatPurchaseAmountScaled,
}

// GBFeatures is the exact row the conversion classifier was trained on.
// Raw Purchase_Amount is excluded; only its scaled derivative and the
// segment id go in.
var GBFeatures = []string{
	FeatAge, FeatGender, FeatCity, FeatOccupation, FeatProductCategory,
	FeatWeather, FeatTimeOfDay, FeatLoyaltyTier,
	FeatUserProductCount, FeatAgeGroup,
	FeatPurchaseAmountScaled, FeatCustomerSegment,
}

// CategoricalCols are the columns that go through a label encoder.
var CategoricalCols = []string{
	FeatGender, FeatCity, FeatOccupation, FeatProductCategory,
	FeatWeather, FeatTimeOfDay, FeatLoyaltyTier,
}

// AgeGroup buckets an age the way the training set did:
// 0 young (<30), 1 mid-age (<50), 2 senior.
func AgeGroup(age int) int {
	switch {
	case age < 30:
		return 0
	case age < 50:
		return 1
	default:
		return 2
	}
}

// FeatureRow holds the encoded feature values by name before they are
// projected onto a model's ordered feature list.
type FeatureRow map[string]float64

// Project returns the row's values in the given feature order. A missing
// feature means the feature contract drifted, which is a server problem.
func (r FeatureRow) Project(features []string) ([]float64, error) {
	out := make([]float64, len(features))
	for i, name := range features {
		v, ok := r[name]
		if !ok {
			return nil, &ConfigError{Stage: "project", Err: missingFeatureError(name)}
		}
		out[i] = v
	}
	return out, nil
}

type missingFeatureError string

func (e missingFeatureError) Error() string {
	return "feature '" + string(e) + "' missing from encoded row"
}

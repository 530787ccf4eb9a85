package pricing

import (
	"context"
	"fmt"
	"time"

	"smartPriceMarket/domain"
	"smartPriceMarket/pkg/logger"

	"gorm.io/datatypes"
)

const resultNotes = "Price is dynamically adjusted based on predicted conversion and customer segment and rules."

// ---- Repository interfaces ----

type ProfileRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type PurchaseCountRepository interface {
	SumQuantityByUserID(ctx context.Context, userID uint) (int64, error)
}

type PredictionLogRepository interface {
	Save(ctx context.Context, entry *domain.PredictionLog) error
}

// PredictionRequest is the flat payload of a prediction call. Pointer
// fields distinguish "absent" from zero values; which fields are
// required depends on whether the caller is authenticated.
type PredictionRequest struct {
	Age              *int
	Gender           *string
	City             *string
	Occupation       *string
	LoyaltyTier      *string
	UserProductCount *int

	ProductCategory *string
	PurchaseAmount  *float64
	Weather         *string
	TimeOfDay       *string
}

// ---- Usecase / Service ----

// PricingService runs the prediction pipeline: collect -> validate ->
// encode -> derive -> segment -> predict -> optimize -> respond. Each
// request is one-shot and stateless beyond the shared read-only bundle.
type PricingService struct {
	bundle       *ModelBundle
	profileRepo  ProfileRepository
	purchaseRepo PurchaseCountRepository
	logRepo      PredictionLogRepository
}

// NewPricingService builds the service. A nil bundle (artifact loading
// failed at startup) leaves the pipeline permanently disabled: every
// request fails uniformly with ErrPipelineDisabled.
func NewPricingService(
	bundle *ModelBundle,
	profileRepo ProfileRepository,
	purchaseRepo PurchaseCountRepository,
	logRepo PredictionLogRepository,
) *PricingService {
	return &PricingService{
		bundle:       bundle,
		profileRepo:  profileRepo,
		purchaseRepo: purchaseRepo,
		logRepo:      logRepo,
	}
}

func (s *PricingService) Enabled() bool {
	return s.bundle != nil
}

// Vocabularies returns each categorical column's valid values, for
// front-end dropdowns.
func (s *PricingService) Vocabularies() (map[string][]string, error) {
	if s.bundle == nil {
		return nil, ErrPipelineDisabled
	}

	out := make(map[string][]string, len(CategoricalCols))
	for _, col := range CategoricalCols {
		enc, ok := s.bundle.Encoders[col]
		if !ok {
			return nil, &ConfigError{Stage: "options", Err: fmt.Errorf("label encoder for '%s' not loaded", col)}
		}
		out[col] = append([]string(nil), enc.Classes...)
	}
	return out, nil
}

// PredictPrice runs the full pipeline for one request. userID is 0 for
// guests; guests must supply the full profile in req.
func (s *PricingService) PredictPrice(ctx context.Context, userID uint, req PredictionRequest) (domain.PredictionResult, error) {
	started := time.Now()

	caller := "guest"
	if userID > 0 {
		caller = "user"
	}

	result, clusterID, err := s.runPipeline(ctx, userID, req)

	PredictionLatency.Observe(time.Since(started).Seconds())
	switch {
	case err == nil:
		PredictionRequestsTotal.WithLabelValues(caller, result.CustomerSegment, "ok").Inc()
	case IsClientError(err):
		PredictionRequestsTotal.WithLabelValues(caller, "", "client_error").Inc()
	default:
		PredictionRequestsTotal.WithLabelValues(caller, "", "server_error").Inc()
	}
	if err != nil {
		return domain.PredictionResult{}, err
	}

	s.auditLog(ctx, userID, caller, req, result, clusterID)

	return result, nil
}

func (s *PricingService) runPipeline(ctx context.Context, userID uint, req PredictionRequest) (domain.PredictionResult, int, error) {
	if s.bundle == nil {
		return domain.PredictionResult{}, 0, ErrPipelineDisabled
	}
	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, 0, fmt.Errorf("context error: %w", err)
	}

	// CollectInput
	profile, err := s.collectProfile(ctx, userID, req)
	if err != nil {
		return domain.PredictionResult{}, 0, err
	}
	if err := requireFields(map[string]bool{
		FeatProductCategory: req.ProductCategory != nil,
		FeatPurchaseAmount:  req.PurchaseAmount != nil,
		FeatWeather:         req.Weather != nil,
		FeatTimeOfDay:       req.TimeOfDay != nil,
	}); err != nil {
		return domain.PredictionResult{}, 0, err
	}
	purchaseAmount := *req.PurchaseAmount

	// Validate
	if profile.Age <= 0 || profile.Age >= 120 {
		return domain.PredictionResult{}, 0, &InputError{Field: FeatAge, Reason: "must be a realistic number (1-119)"}
	}
	if purchaseAmount <= 0 {
		return domain.PredictionResult{}, 0, &InputError{Field: FeatPurchaseAmount, Reason: "must be positive"}
	}
	if profile.UserProductCount < 0 {
		return domain.PredictionResult{}, 0, &InputError{Field: FeatUserProductCount, Reason: "cannot be negative"}
	}

	// Encode
	row := FeatureRow{
		FeatAge:              float64(profile.Age),
		FeatUserProductCount: float64(profile.UserProductCount),
	}
	categoricals := map[string]string{
		FeatGender:          profile.Gender,
		FeatCity:            profile.City,
		FeatOccupation:      profile.Occupation,
		FeatLoyaltyTier:     profile.LoyaltyTier,
		FeatProductCategory: *req.ProductCategory,
		FeatWeather:         *req.Weather,
		FeatTimeOfDay:       *req.TimeOfDay,
	}
	for _, col := range CategoricalCols {
		enc, ok := s.bundle.Encoders[col]
		if !ok {
			return domain.PredictionResult{}, 0, &ConfigError{Stage: "encode", Err: fmt.Errorf("label encoder for '%s' not loaded", col)}
		}
		code, ok := enc.TryEncode(categoricals[col])
		if !ok {
			return domain.PredictionResult{}, 0, &UnseenCategoryError{Column: col, Value: categoricals[col], Valid: enc.Classes}
		}
		row[col] = float64(code)
	}

	// Derive
	row[FeatAgeGroup] = float64(AgeGroup(profile.Age))
	scaledAmount, err := s.bundle.PurchaseAmountScaler.TransformOne(purchaseAmount)
	if err != nil {
		return domain.PredictionResult{}, 0, &ConfigError{Stage: "derive", Err: err}
	}
	row[FeatPurchaseAmountScaled] = scaledAmount

	// Segment
	segRow, err := row.Project(SegmentationFeatures)
	if err != nil {
		return domain.PredictionResult{}, 0, err
	}
	scaledRow, err := s.bundle.SegmentationScaler.Transform(segRow)
	if err != nil {
		return domain.PredictionResult{}, 0, &ConfigError{Stage: "segment", Err: err}
	}
	clusterID, err := s.bundle.Clusterer.PredictCluster(scaledRow)
	if err != nil {
		return domain.PredictionResult{}, 0, &ConfigError{Stage: "segment", Err: err}
	}
	segmentLabel := s.bundle.SegmentLabel(clusterID)
	row[FeatCustomerSegment] = float64(clusterID)

	// PredictConversion
	gbRow, err := row.Project(GBFeatures)
	if err != nil {
		return domain.PredictionResult{}, 0, err
	}
	prob, err := s.bundle.Classifier.PredictProbability(gbRow)
	if err != nil {
		return domain.PredictionResult{}, 0, &ConfigError{Stage: "predict", Err: err}
	}
	// the optimizer assumes a probability in [0,1]
	if prob < 0 {
		prob = 0
	} else if prob > 1 {
		prob = 1
	}

	// Optimize
	optimized := OptimizePrice(purchaseAmount, prob, segmentLabel)

	tid := TraceIDFromContext(ctx)
	logger.Debug("pricing_predict",
		"trace_id", tid,
		"user_id", userID,
		"cluster_id", clusterID,
		"segment", segmentLabel,
		"original_price", purchaseAmount,
		"optimized_price", optimized,
		"conversion_probability", prob,
	)

	// Respond
	return domain.PredictionResult{
		CustomerSegment:       segmentLabel,
		OriginalPrice:         purchaseAmount,
		OptimizedPrice:        optimized,
		ConversionProbability: prob,
		Notes:                 resultNotes,
	}, clusterID, nil
}

// collectProfile merges the customer profile from the user record
// (authenticated) or the request payload (guest).
func (s *PricingService) collectProfile(ctx context.Context, userID uint, req PredictionRequest) (domain.CustomerProfile, error) {
	if userID > 0 {
		if s.profileRepo == nil {
			return domain.CustomerProfile{}, &ConfigError{Stage: "collect", Err: fmt.Errorf("profile repository not configured")}
		}
		user, err := s.profileRepo.FindByID(ctx, userID)
		if err != nil {
			return domain.CustomerProfile{}, &ConfigError{Stage: "collect", Err: fmt.Errorf("logged-in user %d not found: %w", userID, err)}
		}

		count := int64(0)
		if s.purchaseRepo != nil {
			count, err = s.purchaseRepo.SumQuantityByUserID(ctx, userID)
			if err != nil {
				return domain.CustomerProfile{}, &ConfigError{Stage: "collect", Err: fmt.Errorf("purchase count for user %d: %w", userID, err)}
			}
		}

		return domain.CustomerProfile{
			Age:              user.Age,
			Gender:           user.Gender,
			City:             user.City,
			Occupation:       user.Occupation,
			LoyaltyTier:      user.LoyaltyTier,
			UserProductCount: int(count),
		}, nil
	}

	if err := requireFields(map[string]bool{
		FeatAge:              req.Age != nil,
		FeatGender:           req.Gender != nil,
		FeatCity:             req.City != nil,
		FeatOccupation:       req.Occupation != nil,
		FeatLoyaltyTier:      req.LoyaltyTier != nil,
		FeatUserProductCount: req.UserProductCount != nil,
	}); err != nil {
		return domain.CustomerProfile{}, err
	}

	return domain.CustomerProfile{
		Age:              *req.Age,
		Gender:           *req.Gender,
		City:             *req.City,
		Occupation:       *req.Occupation,
		LoyaltyTier:      *req.LoyaltyTier,
		UserProductCount: *req.UserProductCount,
	}, nil
}

// requireFields reports the first missing field in the pipeline's
// feature order so the message is stable.
func requireFields(present map[string]bool) error {
	order := []string{
		FeatAge, FeatGender, FeatCity, FeatOccupation, FeatLoyaltyTier,
		FeatUserProductCount, FeatProductCategory, FeatPurchaseAmount,
		FeatWeather, FeatTimeOfDay,
	}
	for _, name := range order {
		if ok, tracked := present[name]; tracked && !ok {
			return &InputError{Field: name, Reason: "missing required field"}
		}
	}
	return nil
}

// auditLog persists the served prediction best-effort; failures never
// affect the response.
func (s *PricingService) auditLog(ctx context.Context, userID uint, caller string, req PredictionRequest, result domain.PredictionResult, clusterID int) {
	if s.logRepo == nil {
		return
	}

	entry := &domain.PredictionLog{
		UserID:                userID,
		ClusterID:             clusterID,
		CustomerSegment:       result.CustomerSegment,
		OriginalPrice:         result.OriginalPrice,
		OptimizedPrice:        result.OptimizedPrice,
		ConversionProbability: result.ConversionProbability,
		Context: datatypes.JSONMap{
			"caller":           caller,
			"trace_id":         TraceIDFromContext(ctx),
			"product_category": strOrEmpty(req.ProductCategory),
			"weather":          strOrEmpty(req.Weather),
			"time_of_day":      strOrEmpty(req.TimeOfDay),
		},
	}

	if err := s.logRepo.Save(ctx, entry); err != nil {
		logger.Warn("Failed to save prediction log", err)
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

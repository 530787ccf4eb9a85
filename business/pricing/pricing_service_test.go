//go:build !integration

package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"smartPriceMarket/domain"
)

// ---- fakes ----

type fakeClusterer struct {
	id    int
	err   error
	calls int
}

func (f *fakeClusterer) PredictCluster(row []float64) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if len(row) != len(SegmentationFeatures) {
		return 0, fmt.Errorf("got %d features", len(row))
	}
	return f.id, nil
}

type fakeClassifier struct {
	p     float64
	err   error
	calls int
}

func (f *fakeClassifier) PredictProbability(row []float64) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if len(row) != len(GBFeatures) {
		return 0, fmt.Errorf("got %d features", len(row))
	}
	return f.p, nil
}

type fakeProfileRepo struct {
	user domain.User
	err  error
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	return f.user, f.err
}

type fakePurchaseCounts struct {
	n   int64
	err error
}

func (f *fakePurchaseCounts) SumQuantityByUserID(ctx context.Context, userID uint) (int64, error) {
	return f.n, f.err
}

type fakeLogRepo struct {
	entries []*domain.PredictionLog
	err     error
}

func (f *fakeLogRepo) Save(ctx context.Context, entry *domain.PredictionLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func newTestBundle() *ModelBundle {
	encoders := map[string]*LabelEncoder{
		FeatGender:          NewLabelEncoder([]string{"Female", "Male"}),
		FeatCity:            NewLabelEncoder([]string{"Delhi", "Mumbai"}),
		FeatOccupation:      NewLabelEncoder([]string{"Doctor", "Engineer"}),
		FeatProductCategory: NewLabelEncoder([]string{"Books", "Electronics"}),
		FeatWeather:         NewLabelEncoder([]string{"Rainy", "Sunny"}),
		FeatTimeOfDay:       NewLabelEncoder([]string{"Evening", "Morning"}),
		FeatLoyaltyTier:     NewLabelEncoder([]string{"Bronze", "Gold"}),
	}

	segMean := make([]float64, len(SegmentationFeatures))
	segScale := make([]float64, len(SegmentationFeatures))
	for i := range segScale {
		segScale[i] = 1
	}

	return &ModelBundle{
		Encoders:             encoders,
		PurchaseAmountScaler: &StandardScaler{Mean: []float64{0}, Scale: []float64{1}},
		SegmentationScaler:   &StandardScaler{Mean: segMean, Scale: segScale},
		Clusterer:            &fakeClusterer{id: 0},
		Classifier:           &fakeClassifier{p: 0.95},
		SegmentLabels:        map[int]string{0: "Premium Buyer", 1: "Bargain Hunter"},
	}
}

func ptr[T any](v T) *T { return &v }

func guestRequest() PredictionRequest {
	return PredictionRequest{
		Age:              ptr(35),
		Gender:           ptr("Male"),
		City:             ptr("Mumbai"),
		Occupation:       ptr("Engineer"),
		LoyaltyTier:      ptr("Gold"),
		UserProductCount: ptr(4),
		ProductCategory:  ptr("Electronics"),
		PurchaseAmount:   ptr(1200.0),
		Weather:          ptr("Sunny"),
		TimeOfDay:        ptr("Morning"),
	}
}

// ---- tests ----

func TestPredictPrice_GuestHappyPath(t *testing.T) {
	logRepo := &fakeLogRepo{}
	svc := NewPricingService(newTestBundle(), nil, nil, logRepo)

	result, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.CustomerSegment != "Premium Buyer" {
		t.Errorf("segment = %q", result.CustomerSegment)
	}
	if result.OriginalPrice != 1200 {
		t.Errorf("original price = %v", result.OriginalPrice)
	}
	if result.ConversionProbability != 0.95 {
		t.Errorf("probability = %v", result.ConversionProbability)
	}
	want := OptimizePrice(1200, 0.95, "Premium Buyer")
	if result.OptimizedPrice != want {
		t.Errorf("optimized price = %v, want %v", result.OptimizedPrice, want)
	}
	if result.Notes == "" {
		t.Error("notes missing from result")
	}

	if len(logRepo.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logRepo.entries))
	}
	entry := logRepo.entries[0]
	if entry.UserID != 0 || entry.Context["caller"] != "guest" {
		t.Errorf("audit entry %+v", entry)
	}
}

func TestPredictPrice_Deterministic(t *testing.T) {
	svc := NewPricingService(newTestBundle(), nil, nil, nil)

	first, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("same input, different results: %+v vs %+v", first, second)
	}
}

func TestPredictPrice_AuthenticatedUsesStoredProfile(t *testing.T) {
	profileRepo := &fakeProfileRepo{user: domain.User{
		Age:         42,
		Gender:      "Female",
		City:        "Delhi",
		Occupation:  "Doctor",
		LoyaltyTier: "Bronze",
	}}
	profileRepo.user.ID = 7
	logRepo := &fakeLogRepo{}
	svc := NewPricingService(newTestBundle(), profileRepo, &fakePurchaseCounts{n: 9}, logRepo)

	// logged-in callers only send the purchase context
	req := PredictionRequest{
		ProductCategory: ptr("Books"),
		PurchaseAmount:  ptr(300.0),
		Weather:         ptr("Rainy"),
		TimeOfDay:       ptr("Evening"),
	}

	result, err := svc.PredictPrice(context.Background(), 7, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CustomerSegment != "Premium Buyer" {
		t.Errorf("segment = %q", result.CustomerSegment)
	}

	if len(logRepo.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logRepo.entries))
	}
	if logRepo.entries[0].UserID != 7 || logRepo.entries[0].Context["caller"] != "user" {
		t.Errorf("audit entry %+v", logRepo.entries[0])
	}
}

func TestPredictPrice_GuestMissingProfileField(t *testing.T) {
	svc := NewPricingService(newTestBundle(), nil, nil, nil)

	req := guestRequest()
	req.Gender = nil

	_, err := svc.PredictPrice(context.Background(), 0, req)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
	if inputErr.Field != FeatGender {
		t.Errorf("reported field %q", inputErr.Field)
	}
	if !IsClientError(err) {
		t.Error("missing field must be a client error")
	}
}

func TestPredictPrice_InvalidValuesRejectedBeforeModels(t *testing.T) {
	bundle := newTestBundle()
	clusterer := &fakeClusterer{id: 0}
	classifier := &fakeClassifier{p: 0.5}
	bundle.Clusterer = clusterer
	bundle.Classifier = classifier
	svc := NewPricingService(bundle, nil, nil, nil)

	cases := []struct {
		name   string
		mutate func(*PredictionRequest)
		field  string
	}{
		{"age too high", func(r *PredictionRequest) { r.Age = ptr(150) }, FeatAge},
		{"age zero", func(r *PredictionRequest) { r.Age = ptr(0) }, FeatAge},
		{"amount zero", func(r *PredictionRequest) { r.PurchaseAmount = ptr(0.0) }, FeatPurchaseAmount},
		{"amount negative", func(r *PredictionRequest) { r.PurchaseAmount = ptr(-10.0) }, FeatPurchaseAmount},
		{"negative product count", func(r *PredictionRequest) { r.UserProductCount = ptr(-1) }, FeatUserProductCount},
	}

	for _, c := range cases {
		req := guestRequest()
		c.mutate(&req)

		_, err := svc.PredictPrice(context.Background(), 0, req)
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Fatalf("%s: expected InputError, got %v", c.name, err)
		}
		if inputErr.Field != c.field {
			t.Errorf("%s: reported field %q, want %q", c.name, inputErr.Field, c.field)
		}
	}

	if clusterer.calls != 0 || classifier.calls != 0 {
		t.Errorf("models were called for invalid input (%d, %d)", clusterer.calls, classifier.calls)
	}
}

func TestPredictPrice_UnseenCategory(t *testing.T) {
	svc := NewPricingService(newTestBundle(), nil, nil, nil)

	req := guestRequest()
	req.Weather = ptr("Snowy")

	_, err := svc.PredictPrice(context.Background(), 0, req)
	var unseenErr *UnseenCategoryError
	if !errors.As(err, &unseenErr) {
		t.Fatalf("expected UnseenCategoryError, got %v", err)
	}
	if unseenErr.Column != FeatWeather || unseenErr.Value != "Snowy" {
		t.Errorf("error carries %q=%q", unseenErr.Column, unseenErr.Value)
	}
	if len(unseenErr.Valid) != 2 {
		t.Errorf("error should carry the vocabulary, got %v", unseenErr.Valid)
	}
	if !IsClientError(err) {
		t.Error("unseen category must be a client error")
	}
}

func TestPredictPrice_UnknownSegmentIsNotAnError(t *testing.T) {
	bundle := newTestBundle()
	bundle.Clusterer = &fakeClusterer{id: 5}
	svc := NewPricingService(bundle, nil, nil, nil)

	result, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CustomerSegment != UnknownSegmentLabel {
		t.Errorf("segment = %q", result.CustomerSegment)
	}
}

func TestPredictPrice_DisabledPipeline(t *testing.T) {
	svc := NewPricingService(nil, nil, nil, nil)

	if svc.Enabled() {
		t.Error("service without a bundle reports enabled")
	}

	_, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	if !errors.Is(err, ErrPipelineDisabled) {
		t.Fatalf("expected ErrPipelineDisabled, got %v", err)
	}
	if IsClientError(err) {
		t.Error("a disabled pipeline is not the caller's fault")
	}

	if _, err := svc.Vocabularies(); !errors.Is(err, ErrPipelineDisabled) {
		t.Fatalf("vocabularies: expected ErrPipelineDisabled, got %v", err)
	}
}

func TestPredictPrice_ServerSideFailures(t *testing.T) {
	bundle := newTestBundle()
	bundle.Clusterer = &fakeClusterer{err: errors.New("centroids corrupted")}
	svc := NewPricingService(bundle, nil, nil, nil)

	_, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Stage != "segment" {
		t.Errorf("stage = %q", cfgErr.Stage)
	}
	if IsClientError(err) {
		t.Error("a model failure is not a client error")
	}

	// authenticated caller whose profile cannot be loaded
	svc = NewPricingService(newTestBundle(), &fakeProfileRepo{err: errors.New("user not found")}, &fakePurchaseCounts{}, nil)
	req := PredictionRequest{
		ProductCategory: ptr("Books"),
		PurchaseAmount:  ptr(300.0),
		Weather:         ptr("Rainy"),
		TimeOfDay:       ptr("Evening"),
	}
	_, err = svc.PredictPrice(context.Background(), 7, req)
	if !errors.As(err, &cfgErr) || cfgErr.Stage != "collect" {
		t.Fatalf("expected collect-stage ConfigError, got %v", err)
	}
}

func TestPredictPrice_ProbabilityClamped(t *testing.T) {
	bundle := newTestBundle()
	bundle.Classifier = &fakeClassifier{p: 1.4}
	svc := NewPricingService(bundle, nil, nil, nil)

	result, err := svc.PredictPrice(context.Background(), 0, guestRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ConversionProbability != 1 {
		t.Errorf("probability not clamped: %v", result.ConversionProbability)
	}
	if result.OptimizedPrice != result.OriginalPrice {
		t.Errorf("factor 1.0 should return full price, got %v", result.OptimizedPrice)
	}
}

func TestPredictPrice_CanceledContext(t *testing.T) {
	svc := NewPricingService(newTestBundle(), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.PredictPrice(ctx, 0, guestRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPredictPrice_AuditFailureDoesNotFailRequest(t *testing.T) {
	svc := NewPricingService(newTestBundle(), nil, nil, &fakeLogRepo{err: errors.New("db down")})

	if _, err := svc.PredictPrice(context.Background(), 0, guestRequest()); err != nil {
		t.Fatalf("audit failure leaked into the response: %v", err)
	}
}

func TestVocabularies(t *testing.T) {
	svc := NewPricingService(newTestBundle(), nil, nil, nil)

	vocab, err := svc.Vocabularies()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vocab) != len(CategoricalCols) {
		t.Fatalf("expected %d columns, got %d", len(CategoricalCols), len(vocab))
	}
	if got := vocab[FeatWeather]; len(got) != 2 || got[0] != "Rainy" {
		t.Errorf("weather vocabulary %v", got)
	}

	// the returned slices are copies
	vocab[FeatWeather][0] = "mutated"
	fresh, _ := svc.Vocabularies()
	if fresh[FeatWeather][0] != "Rainy" {
		t.Error("vocabulary mutation leaked into the bundle")
	}
}

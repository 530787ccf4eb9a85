//go:build !integration

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartPriceMarket/business/pricing"
	"smartPriceMarket/domain"

	"github.com/labstack/echo/v4"
)

type stubPricingService struct {
	result domain.PredictionResult
	err    error
}

func (s *stubPricingService) PredictPrice(ctx context.Context, userID uint, req pricing.PredictionRequest) (domain.PredictionResult, error) {
	return s.result, s.err
}

func (s *stubPricingService) Vocabularies() (map[string][]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string][]string{"Weather": {"Rainy", "Sunny"}}, nil
}

func doPredict(t *testing.T, svc PricingService, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewPricingHandler(svc, nil)
	if err := h.PredictPrice(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestPredictPrice_StatusMapping(t *testing.T) {
	body := `{"Product_Category": "Books", "Purchase_Amount": 300, "Weather": "Rainy", "Time_of_Day": "Evening"}`

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantInBody string
	}{
		{
			name:       "missing field",
			err:        &pricing.InputError{Field: "Age", Reason: "missing required field"},
			wantStatus: http.StatusBadRequest,
			wantInBody: "Age",
		},
		{
			name:       "unseen category",
			err:        &pricing.UnseenCategoryError{Column: "Weather", Value: "Snowy", Valid: []string{"Rainy", "Sunny"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantInBody: "valid values",
		},
		{
			name:       "pipeline disabled",
			err:        pricing.ErrPipelineDisabled,
			wantStatus: http.StatusServiceUnavailable,
			wantInBody: "model loading errors",
		},
		{
			name:       "internal failure stays opaque",
			err:        &pricing.ConfigError{Stage: "segment"},
			wantStatus: http.StatusInternalServerError,
			wantInBody: "error during model prediction pipeline",
		},
	}

	for _, c := range cases {
		rec := doPredict(t, &stubPricingService{err: c.err}, body)
		if rec.Code != c.wantStatus {
			t.Errorf("%s: status %d, want %d", c.name, rec.Code, c.wantStatus)
		}
		if !strings.Contains(rec.Body.String(), c.wantInBody) {
			t.Errorf("%s: body %q misses %q", c.name, rec.Body.String(), c.wantInBody)
		}
	}

	// internal detail must never reach the caller
	rec := doPredict(t, &stubPricingService{err: &pricing.ConfigError{Stage: "segment"}}, body)
	if strings.Contains(rec.Body.String(), "segment") {
		t.Errorf("internal stage name leaked: %s", rec.Body.String())
	}
}

func TestPredictPrice_Success(t *testing.T) {
	svc := &stubPricingService{result: domain.PredictionResult{
		CustomerSegment:       "Premium Buyer",
		OriginalPrice:         1200,
		OptimizedPrice:        1140,
		ConversionProbability: 0.95,
		Notes:                 "Price is dynamically adjusted based on predicted conversion and customer segment and rules.",
	}}

	rec := doPredict(t, svc, `{"Age": 35, "Gender": "Male"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	for _, key := range []string{"customer_segment", "original_price", "optimized_price", "predicted_conversion_probability", "notes"} {
		if !strings.Contains(rec.Body.String(), key) {
			t.Errorf("response misses %q: %s", key, rec.Body.String())
		}
	}
}

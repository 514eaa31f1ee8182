package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/dprate/internal/app/server/handlers/shipping"
	rates "oip/dprate/internal/business/shipping"
	"oip/dprate/pkg/logger"
)

type sheetStub struct {
	rows    map[string][][]rates.Cell
	order   []string
	listErr error
}

func (s *sheetStub) ListTabNames(context.Context) ([]string, error) {
	return s.order, s.listErr
}

func (s *sheetStub) FetchTabRows(_ context.Context, tab string) ([][]rates.Cell, error) {
	return s.rows[tab], nil
}

func newSheetStub() *sheetStub {
	return &sheetStub{
		order: []string{"United States", "Express", "Default"},
		rows: map[string][][]rates.Cell{
			"United States": {
				{"Shipping Line", "Weight (kg)", "Freight per kg", "Injection Fee", "Transit"},
				{"Standard", "0-5", 15, 5, "5-7"},
			},
			"Express": {
				{"Country", "Zone", "Weight (kg)", "Freight per kg", "Injection Fee"},
				{"United Kingdom", nil, "0-2", 50, 6},
				{"Australia", "Zone 1", "0-5", 20, 3},
			},
			"Default": {
				{"Country", "Zone", "Weight (kg)", "Freight per kg", "Injection Fee"},
				{"Australia", "Zone 1", "0-5", 10, 2},
			},
		},
	}
}

func newTestEngine(provider rates.SheetProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()
	svc := rates.NewRateService(provider, nil, log, rates.ServiceOptions{})
	return SetupRoutes(shipping.NewRateHandler(svc, log), log)
}

type envelope struct {
	Meta struct {
		Code      int                    `json:"code"`
		Message   string                 `json:"message"`
		Reason    string                 `json:"reason"`
		RequestID string                 `json:"request_id"`
		Context   map[string]interface{} `json:"context"`
		Details   []map[string]string    `json:"details"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "test-req")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestCalculateEndpoint(t *testing.T) {
	r := newTestEngine(newSheetStub())

	w, env := do(t, r, http.MethodPost, "/api/v1/shipping/calculate", gin.H{
		"country": "United States", "shipping_line": "standard", "weight": 2.5, "weight_unit": "kg",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-req", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "test-req", env.Meta.RequestID)

	var data struct {
		ShippingCost   float64 `json:"shipping_cost"`
		FulfillmentFee float64 `json:"fulfillment_fee"`
		TotalCost      float64 `json:"total_cost"`
		DeliveryDays   string  `json:"delivery_days"`
		Breakdown      struct {
			FreightPerUnit float64 `json:"freight_per_unit"`
			WeightLb       float64 `json:"weight_lb"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 42.5, data.ShippingCost)
	assert.Equal(t, 1.5, data.FulfillmentFee)
	assert.Equal(t, 44.0, data.TotalCost)
	assert.Equal(t, "5-7", data.DeliveryDays)
	assert.Equal(t, 15.0, data.Breakdown.FreightPerUnit)
	assert.Equal(t, 5.51, data.Breakdown.WeightLb)
}

func TestCalculateEndpointZoneFallback(t *testing.T) {
	r := newTestEngine(newSheetStub())

	w, env := do(t, r, http.MethodPost, "/api/v1/shipping/calculate", gin.H{
		"country": "Australia", "zone": "Zone 1", "shipping_line": "standard", "weight": "1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		ShippingLine string  `json:"shipping_line"`
		Zone         string  `json:"zone"`
		TotalCost    float64 `json:"total_cost"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "default", data.ShippingLine)
	assert.Equal(t, "Zone 1", data.Zone)
	assert.Equal(t, 13.5, data.TotalCost)
}

func TestCalculateEndpointErrors(t *testing.T) {
	r := newTestEngine(newSheetStub())

	tests := []struct {
		name   string
		body   gin.H
		status int
		reason string
	}{
		{"missing country", gin.H{"shipping_line": "standard", "weight": 1}, http.StatusBadRequest, "MissingField"},
		{"missing weight", gin.H{"country": "United States", "shipping_line": "standard"}, http.StatusBadRequest, "MissingField"},
		{"weight over cap", gin.H{"country": "United States", "shipping_line": "standard", "weight": 10000}, http.StatusBadRequest, "InvalidWeight"},
		{"weight below minimum", gin.H{"country": "United States", "shipping_line": "standard", "weight": 0.05}, http.StatusBadRequest, "InvalidWeight"},
		{"weight not numeric", gin.H{"country": "United States", "shipping_line": "standard", "weight": "heavy"}, http.StatusBadRequest, "InvalidWeight"},
		{"unknown country", gin.H{"country": "Atlantis", "shipping_line": "standard", "weight": 1}, http.StatusNotFound, "RateNotFound"},
		{"over line limit", gin.H{"country": "United Kingdom", "shipping_line": "express", "weight": 3}, http.StatusUnprocessableEntity, "WeightExceedsLimit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/shipping/calculate", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.reason, env.Meta.Reason)
		})
	}

	w, env := do(t, r, http.MethodPost, "/api/v1/shipping/calculate", gin.H{
		"country": "United Kingdom", "shipping_line": "express", "weight": 3,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 2.0, env.Meta.Context["max_weight"])
	assert.Equal(t, "kg", env.Meta.Context["unit"])
}

func TestCalculateEndpointValidation(t *testing.T) {
	r := newTestEngine(newSheetStub())
	long := string(bytes.Repeat([]byte("x"), 200))

	w, env := do(t, r, http.MethodPost, "/api/v1/shipping/calculate", gin.H{
		"country": long, "shipping_line": "standard", "weight": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Meta.Details, 1)
	assert.Equal(t, "Country", env.Meta.Details[0]["path"])
}

func TestCountriesEndpoint(t *testing.T) {
	r := newTestEngine(newSheetStub())

	w, env := do(t, r, http.MethodGet, "/api/v1/shipping/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Countries  []string                     `json:"countries"`
		PerCountry map[string]rates.CountryInfo `json:"per_country"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"United States", "United Kingdom", "Australia"}, data.Countries)
	assert.True(t, data.PerCountry["Australia"].HasZones)
	assert.Equal(t, []string{"Zone 1"}, data.PerCountry["Australia"].ZoneNames)
	assert.Equal(t, "5-7 days", data.PerCountry["United States"].AvailableShippingLines[0].DeliveryTime)
}

func TestServiceUnavailable(t *testing.T) {
	w, env := do(t, newTestEngine(nil), http.MethodGet, "/api/v1/shipping/countries", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "ServiceNotConfigured", env.Meta.Reason)

	stub := newSheetStub()
	stub.listErr = errors.New("forbidden")
	w, env = do(t, newTestEngine(stub), http.MethodPost, "/api/v1/shipping/calculate", gin.H{
		"country": "United States", "shipping_line": "standard", "weight": 1,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "ServiceNotConfigured", env.Meta.Reason)
}

func TestCacheEndpoints(t *testing.T) {
	stub := newSheetStub()
	r := newTestEngine(stub)

	_, env := do(t, r, http.MethodGet, "/api/v1/shipping/countries", nil)
	assert.NotContains(t, string(env.Data), "Japan")

	stub.rows["Express"] = append(stub.rows["Express"], []rates.Cell{"Japan", nil, "0-2", 30, 4})

	w, env := do(t, r, http.MethodPost, "/api/v1/shipping/cache/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		Countries int `json:"countries"`
		Tabs      int `json:"tabs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	assert.Equal(t, 4, refreshed.Countries)
	assert.Equal(t, 3, refreshed.Tabs)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/shipping/cache", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndCORS(t *testing.T) {
	r := newTestEngine(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// 预检请求不进入业务 handler
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/shipping/calculate", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Empty(t, w.Body.String())

	// 普通跨域请求带上 CORS 头并正常处理
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

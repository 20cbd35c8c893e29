package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/damon-houk/vaddi-calculator/internal/application/service"
	"github.com/damon-houk/vaddi-calculator/internal/domain/interest"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/db"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/handler"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/middleware"
	"github.com/damon-houk/vaddi-calculator/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// setupTestServer wires the real router over the given blob store
func setupTestServer(t *testing.T, store db.BlobStore) *httptest.Server {
	t.Helper()
	return setupTestServerIn(t, store, nil)
}

// setupTestServerIn is setupTestServer with a display zone for date instants
func setupTestServerIn(t *testing.T, store db.BlobStore, loc *time.Location) *httptest.Server {
	t.Helper()

	log := logger.NewJSONLogger(&bytes.Buffer{}, logger.DebugLevel)
	history := db.NewHistoryRepository(store, db.HistoryOptions{}, log)
	calcService := service.NewCalculatorService(history, interest.DefaultLimits(), log)
	calcHandler := handler.NewCalculationHandler(calcService, "en", log).WithLocation(loc)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log), middleware.MetricsMiddleware)
	calcHandler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func doRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

const monthlyBody = `{
	"principal": 100000,
	"interestRate": 1.5,
	"isPercentMode": false,
	"startDate": "2024-01-01",
	"endDate": "2024-02-01"
}`

func TestQuote(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	t.Run("Rupees per hundred per month", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/quote", monthlyBody)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var quote handler.QuoteResponse
		decode(t, resp, &quote)
		assert.InDelta(t, 1500.0, quote.Interest, 1e-9)
		assert.InDelta(t, 101500.0, quote.Total, 1e-9)
		assert.Equal(t, "1 month", quote.DurationText)
		assert.Equal(t, "₹1,00,000", quote.Display.Principal)
		assert.Equal(t, "1.5 ₹/100/month", quote.Display.Rate)
		assert.Equal(t, "₹1,500.00", quote.Display.Interest)
		assert.Equal(t, "₹1,01,500.00", quote.Display.Total)
	})

	t.Run("Percent per year in Telugu", func(t *testing.T) {
		body := `{"principal":100000,"interestRate":18,"isPercentMode":true,"startDate":"2024-01-01","endDate":"2025-01-01"}`
		resp := postJSON(t, server.URL+"/api/v1/quote?lang=te", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var quote handler.QuoteResponse
		decode(t, resp, &quote)
		assert.InDelta(t, 18000.0, quote.Interest, 1e-9)
		assert.Equal(t, 1.5, quote.MonthlyRate)
		assert.Equal(t, "1 సంవత్సరం", quote.DurationText)
		assert.Equal(t, "₹1,18,000.00", quote.Display.Total)
	})

	t.Run("Quote does not touch history", func(t *testing.T) {
		var history handler.HistoryResponse
		decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
		assert.Equal(t, 0, history.Count)
	})
}

func TestValidationErrors(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	tests := []struct {
		name   string
		body   string
		field  string
		reason string
	}{
		{
			name:   "end before start",
			body:   `{"principal":1000,"interestRate":2,"startDate":"2024-02-01","endDate":"2024-01-01"}`,
			field:  "endDate",
			reason: "End date must be after start date",
		},
		{
			name:   "non-positive principal",
			body:   `{"principal":0,"interestRate":2,"startDate":"2024-01-01","endDate":"2024-02-01"}`,
			field:  "principal",
			reason: "Please enter valid positive numbers",
		},
		{
			name:   "missing start date",
			body:   `{"principal":1000,"interestRate":2,"endDate":"2024-02-01"}`,
			field:  "startDate",
			reason: "Please fill in all fields",
		},
		{
			name:   "missing principal",
			body:   `{"interestRate":2,"startDate":"2024-01-01","endDate":"2024-02-01"}`,
			field:  "principal",
			reason: "Please fill in all fields",
		},
		{
			name:   "missing rate",
			body:   `{"principal":1000,"startDate":"2024-01-01","endDate":"2024-02-01"}`,
			field:  "interestRate",
			reason: "Please fill in all fields",
		},
		{
			name:   "rate beyond the bound",
			body:   `{"principal":100000,"interestRate":1e306,"startDate":"2024-01-01","endDate":"2025-01-01"}`,
			field:  "interestRate",
			reason: "Interest rate is too large",
		},
		{
			name:   "malformed date",
			body:   `{"principal":1000,"interestRate":2,"startDate":"01-01-2024","endDate":"2024-02-01"}`,
			field:  "startDate",
			reason: "Please enter a valid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/api/v1/calculations", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp handler.ErrorResponse
			decode(t, resp, &errResp)
			assert.Equal(t, tt.field, errResp.Field)
			assert.Equal(t, tt.reason, errResp.Description)
			assert.NotEmpty(t, errResp.RequestID)
		})
	}

	t.Run("Malformed body", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/calculations", `{"principal":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp handler.ErrorResponse
		decode(t, resp, &errResp)
		assert.Equal(t, "Invalid request body", errResp.Error)
	})

	var history handler.HistoryResponse
	decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
	assert.Equal(t, 0, history.Count)
}

func TestHugeRateIsRejectedOnQuote(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	body := `{"principal":100000,"interestRate":1e306,"isPercentMode":true,"startDate":"2024-01-01","endDate":"2025-01-01"}`
	resp := postJSON(t, server.URL+"/api/v1/quote", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp handler.ErrorResponse
	decode(t, resp, &errResp)
	assert.Equal(t, "interestRate", errResp.Field)
}

func TestLegacyRecordsUseDisplayZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	store := db.NewMemoryBlobStore()
	server := setupTestServerIn(t, store, ist)

	// 1 Feb to 1 Mar local midnight, written as UTC instants
	blob := `[{"id":"1717000000000","timestamp":"2024-03-01T04:00:00.000Z","label":"legacy",` +
		`"principal":100000,"interestRate":1.5,"isPercentMode":false,` +
		`"startDate":"2024-01-31T18:30:00.000Z","endDate":"2024-02-29T18:30:00.000Z",` +
		`"interest":1500,"total":101500}]`
	require.NoError(t, store.Put(context.Background(), db.DefaultHistoryKey, []byte(blob)))

	var history handler.HistoryResponse
	decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
	require.Equal(t, 1, history.Count)

	calc := history.Calculations[0]
	assert.Equal(t, "2024-02-01", calc.StartDate)
	assert.Equal(t, "2024-03-01", calc.EndDate)
	assert.Equal(t, "1 month", calc.DurationText)

	t.Run("Instants on the wire are read in the same zone", func(t *testing.T) {
		body := `{"principal":100000,"interestRate":1.5,"startDate":"2024-01-31T18:30:00Z","endDate":"2024-02-29T18:30:00Z"}`
		resp := postJSON(t, server.URL+"/api/v1/quote", body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var quote handler.QuoteResponse
		decode(t, resp, &quote)
		assert.Equal(t, "1 month", quote.DurationText)
		assert.InDelta(t, 1500.0, quote.Interest, 1e-9)
	})
}

func TestCalculationLifecycle(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	// create two calculations
	resp := postJSON(t, server.URL+"/api/v1/calculations", monthlyBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var first handler.CreateCalculationResponse
	decode(t, resp, &first)
	assert.True(t, first.Saved)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "2024-01-01", first.StartDate)
	assert.InDelta(t, 101500.0, first.Total, 1e-9)

	partial := `{"principal":100000,"interestRate":1.5,"startDate":"2024-01-15","endDate":"2024-02-10","label":"partial"}`
	resp = postJSON(t, server.URL+"/api/v1/calculations", partial)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var second handler.CreateCalculationResponse
	decode(t, resp, &second)
	assert.Equal(t, "partial", second.Label)
	assert.InDelta(t, 1250.0, second.Interest, 1e-9)
	assert.Equal(t, "25 days", second.DurationText)

	// list is most-recent-first
	var history handler.HistoryResponse
	decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
	require.Equal(t, 2, history.Count)
	assert.Equal(t, second.ID, history.Calculations[0].ID)
	assert.Equal(t, first.ID, history.Calculations[1].ID)

	// single fetch
	resp = doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations/"+first.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched handler.CalculationResponse
	decode(t, resp, &fetched)
	assert.Equal(t, first.ID, fetched.ID)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// delete one, then an unknown id
	resp = doRequest(t, http.MethodDelete, server.URL+"/api/v1/calculations/"+first.ID)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/v1/calculations/missing")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
	require.Equal(t, 1, history.Count)
	assert.Equal(t, second.ID, history.Calculations[0].ID)

	// clear, twice
	for i := 0; i < 2; i++ {
		resp = doRequest(t, http.MethodDelete, server.URL+"/api/v1/calculations")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
	}

	decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
	assert.Equal(t, 0, history.Count)
	assert.NotNil(t, history.Calculations)
}

func TestHistoryCapOverHTTP(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	labels := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		label := fmt.Sprintf("entry-%02d", i)
		labels = append(labels, label)
		body := fmt.Sprintf(`{"principal":1000,"interestRate":2,"startDate":"2024-01-01","endDate":"2024-03-01","label":%q}`, label)
		resp := postJSON(t, server.URL+"/api/v1/calculations", body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	var history handler.HistoryResponse
	decode(t, doRequest(t, http.MethodGet, server.URL+"/api/v1/calculations"), &history)
	require.Equal(t, 50, history.Count)
	assert.Equal(t, labels[59], history.Calculations[0].Label)
	assert.Equal(t, labels[10], history.Calculations[49].Label)
}

func TestDurationEndpoint(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	var d handler.DurationResponse
	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/duration?start=2020-03-10&end=2023-07-25")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &d)
	assert.Equal(t, 3, d.Years)
	assert.Equal(t, 4, d.Months)
	assert.Equal(t, 15, d.Days)
	assert.Equal(t, 40.5, d.TotalMonths)
	assert.Equal(t, "3 years, 4 months, 15 days", d.Text)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/duration?start=2024-05-01&end=2024-01-01", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Language", "te-IN,te;q=0.9")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	decode(t, resp, &d)
	assert.Equal(t, "0 రోజులు", d.Text)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/v1/duration?start=2024-05-01")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestStorageUnavailable(t *testing.T) {
	store := new(mocks.MockBlobStore)
	failure := errors.New("disk full")
	store.On("Get", mock.Anything, db.DefaultHistoryKey).Return(nil, db.ErrBlobNotFound)
	store.On("Put", mock.Anything, db.DefaultHistoryKey, mock.Anything).Return(failure)
	store.On("Delete", mock.Anything, db.DefaultHistoryKey).Return(failure)

	server := setupTestServer(t, store)

	t.Run("Calculation is returned but marked unsaved", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/calculations", monthlyBody)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var created handler.CreateCalculationResponse
		decode(t, resp, &created)
		assert.False(t, created.Saved)
		assert.NotEmpty(t, created.Warning)
		assert.InDelta(t, 1500.0, created.Interest, 1e-9)
	})

	t.Run("Clear reports 503", func(t *testing.T) {
		resp := doRequest(t, http.MethodDelete, server.URL+"/api/v1/calculations")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var errResp handler.ErrorResponse
		decode(t, resp, &errResp)
		assert.Equal(t, "Storage unavailable", errResp.Error)
	})
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, db.NewMemoryBlobStore())

	resp := doRequest(t, http.MethodGet, server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	resp.Body.Close()
}

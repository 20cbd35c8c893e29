// Package handler exposes the calculator and its history over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/damon-houk/vaddi-calculator/internal/application/service"
	"github.com/damon-houk/vaddi-calculator/internal/domain/entity"
	"github.com/damon-houk/vaddi-calculator/internal/domain/interest"
	"github.com/damon-houk/vaddi-calculator/internal/domain/money"
	"github.com/damon-houk/vaddi-calculator/internal/i18n"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// maxBodyBytes bounds request bodies; a calculation request is a few hundred bytes
const maxBodyBytes = 1 << 16

// CalculationHandler handles HTTP requests for calculations and their history
type CalculationHandler struct {
	service         *service.CalculatorService
	logger          logger.Logger
	defaultLanguage string
	// location places date instants that are not UTC midnight on a calendar day
	location *time.Location
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(service *service.CalculatorService, defaultLanguage string, log logger.Logger) *CalculationHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if !i18n.Supported(defaultLanguage) {
		defaultLanguage = i18n.English
	}

	return &CalculationHandler{
		service:         service,
		logger:          log,
		defaultLanguage: defaultLanguage,
		location:        time.UTC,
	}
}

// WithLocation sets the zone used to read dates sent or stored as instants
func (h *CalculationHandler) WithLocation(loc *time.Location) *CalculationHandler {
	if loc != nil {
		h.location = loc
	}
	return h
}

// RegisterRoutes registers the calculation routes
func (h *CalculationHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/quote", h.Quote).Methods(http.MethodPost)
	api.HandleFunc("/duration", h.Duration).Methods(http.MethodGet)
	api.HandleFunc("/calculations", h.CreateCalculation).Methods(http.MethodPost)
	api.HandleFunc("/calculations", h.ListCalculations).Methods(http.MethodGet)
	api.HandleFunc("/calculations", h.ClearCalculations).Methods(http.MethodDelete)
	api.HandleFunc("/calculations/{id}", h.GetCalculation).Methods(http.MethodGet)
	api.HandleFunc("/calculations/{id}", h.DeleteCalculation).Methods(http.MethodDelete)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	h.logger.Info("Calculation routes registered", map[string]interface{}{
		"routes": []string{
			"POST /api/v1/quote",
			"GET /api/v1/duration",
			"POST /api/v1/calculations",
			"GET /api/v1/calculations",
			"DELETE /api/v1/calculations",
			"GET /api/v1/calculations/{id}",
			"DELETE /api/v1/calculations/{id}",
			"GET /healthz",
		},
	})
}

// translator picks the dictionary from ?lang=, then Accept-Language
func (h *CalculationHandler) translator(r *http.Request) i18n.Dictionary {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = i18n.FromAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	return i18n.Lookup(lang, h.defaultLanguage)
}

// decodeRequest parses the body into a service request
func (h *CalculationHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (service.CalculationRequest, error) {
	var body CalculationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return service.CalculationRequest{}, err
	}

	if body.Principal == nil {
		return service.CalculationRequest{}, &interest.ValidationError{Field: "principal", Reason: interest.ReasonFillAllFields}
	}
	if body.InterestRate == nil {
		return service.CalculationRequest{}, &interest.ValidationError{Field: "interestRate", Reason: interest.ReasonFillAllFields}
	}

	start, err := h.parseDate("startDate", body.StartDate)
	if err != nil {
		return service.CalculationRequest{}, err
	}
	end, err := h.parseDate("endDate", body.EndDate)
	if err != nil {
		return service.CalculationRequest{}, err
	}

	return service.CalculationRequest{
		Principal:   *body.Principal,
		Rate:        *body.InterestRate,
		PercentMode: body.IsPercentMode,
		StartDate:   start,
		EndDate:     end,
		Label:       body.Label,
	}, nil
}

func (h *CalculationHandler) parseDate(field, s string) (time.Time, error) {
	t, err := interest.ParseDate(field, s)
	if err != nil {
		return time.Time{}, err
	}
	return interest.CalendarDate(t, h.location), nil
}

func (h *CalculationHandler) sendDecodeError(w http.ResponseWriter, tr interest.Translator, err error, requestID string) {
	var verr *interest.ValidationError
	if errors.As(err, &verr) {
		sendError(w, h.logger, tr, err, requestID)
		return
	}

	h.logger.Warn("Invalid request body", map[string]interface{}{
		"request_id": requestID,
		"error":      err.Error(),
	})
	sendErrorResponse(w, h.logger, "Invalid request body",
		"The request body must be a JSON calculation request", http.StatusBadRequest, requestID)
}

// Quote computes interest for the request without saving it
func (h *CalculationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	tr := h.translator(r)

	req, err := h.decodeRequest(w, r)
	if err != nil {
		h.sendDecodeError(w, tr, err, requestID)
		return
	}

	res, err := h.service.Quote(r.Context(), req)
	if err != nil {
		sendError(w, h.logger, tr, err, requestID)
		return
	}

	total := req.Principal + res.Interest
	writeJSON(w, h.logger, http.StatusOK, QuoteResponse{
		Interest:     res.Interest,
		Total:        total,
		MonthlyRate:  res.MonthlyRate,
		Duration:     res.Duration,
		DurationText: interest.FormatDurationText(req.StartDate, req.EndDate, tr),
		Display:      displayAmounts(tr, req.Principal, req.Rate, req.PercentMode, res.Interest, total),
	})
}

// CreateCalculation computes interest and saves the calculation to the history
func (h *CalculationHandler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	tr := h.translator(r)

	req, err := h.decodeRequest(w, r)
	if err != nil {
		h.sendDecodeError(w, tr, err, requestID)
		return
	}

	outcome, err := h.service.Calculate(r.Context(), req)
	if err != nil {
		sendError(w, h.logger, tr, err, requestID)
		return
	}

	resp := CreateCalculationResponse{
		CalculationResponse: h.toCalculationResponse(tr, outcome.Calculation),
		MonthlyRate:         outcome.MonthlyRate,
		Saved:               outcome.Saved,
	}

	status := http.StatusCreated
	if !outcome.Saved {
		status = http.StatusOK
		resp.Warning = "The calculation could not be saved to history"
	}
	writeJSON(w, h.logger, status, resp)
}

// ListCalculations returns the history, most recent first
func (h *CalculationHandler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	tr := h.translator(r)

	calcs, err := h.service.History(r.Context())
	if err != nil {
		sendError(w, h.logger, tr, err, requestID)
		return
	}

	resp := HistoryResponse{
		Calculations: make([]CalculationResponse, 0, len(calcs)),
		Count:        len(calcs),
	}
	for _, c := range calcs {
		resp.Calculations = append(resp.Calculations, h.toCalculationResponse(tr, c))
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// GetCalculation returns one stored calculation
func (h *CalculationHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	tr := h.translator(r)
	id := mux.Vars(r)["id"]

	calc, err := h.service.Get(r.Context(), id)
	if err != nil {
		sendError(w, h.logger, tr, err, requestID)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.toCalculationResponse(tr, *calc))
}

// DeleteCalculation removes one calculation. Unknown IDs still answer 204.
func (h *CalculationHandler) DeleteCalculation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		sendError(w, h.logger, h.translator(r), err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCalculations removes the whole history
func (h *CalculationHandler) ClearCalculations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.service.ClearHistory(r.Context()); err != nil {
		sendError(w, h.logger, h.translator(r), err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Duration renders the elapsed span between ?start= and ?end=
func (h *CalculationHandler) Duration(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	tr := h.translator(r)
	q := r.URL.Query()

	start, err := h.parseDate("start", q.Get("start"))
	if err != nil {
		sendError(w, h.logger, tr, err, requestID)
		return
	}
	end, err := h.parseDate("end", q.Get("end"))
	if err != nil {
		sendError(w, h.logger, tr, err, requestID)
		return
	}

	d := interest.ComputeDuration(start, end)
	writeJSON(w, h.logger, http.StatusOK, DurationResponse{
		Duration:    d,
		TotalMonths: d.TotalMonths(),
		Text:        interest.FormatDurationText(start, end, tr),
	})
}

// Health reports liveness
func (h *CalculationHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// toCalculationResponse renders a stored record. Records written by earlier
// clients may hold local midnights as UTC instants, so dates are normalised first.
func (h *CalculationHandler) toCalculationResponse(tr interest.Translator, c entity.Calculation) CalculationResponse {
	start := interest.CalendarDate(c.StartDate, h.location)
	end := interest.CalendarDate(c.EndDate, h.location)

	return CalculationResponse{
		ID:            c.ID,
		Timestamp:     c.Timestamp,
		Label:         c.Label,
		Principal:     c.Principal,
		InterestRate:  c.InterestRate,
		IsPercentMode: c.IsPercentMode,
		StartDate:     start.Format(interest.DateLayout),
		EndDate:       end.Format(interest.DateLayout),
		Interest:      c.Interest,
		Total:         c.Total,
		Duration:      interest.ComputeDuration(start, end),
		DurationText:  interest.FormatDurationText(start, end, tr),
		Display:       displayAmounts(tr, c.Principal, c.InterestRate, c.IsPercentMode, c.Interest, c.Total),
	}
}

func displayAmounts(tr interest.Translator, principal, rate float64, percentMode bool, interestAmount, total float64) DisplayAmounts {
	rateText := strconv.FormatFloat(rate, 'f', -1, 64)
	if percentMode {
		rateText += "% " + tr.T("perYear")
	} else {
		rateText += " " + money.RupeeSymbol + "/" + tr.T("hundred") + "/" + tr.T("month")
	}

	return DisplayAmounts{
		Principal: money.FormatWholeRupees(principal),
		Rate:      rateText,
		Interest:  money.FormatRupees(interestAmount),
		Total:     money.FormatRupees(total),
	}
}

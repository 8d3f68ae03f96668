package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"
)

type Server struct {
	svc  *application.RateService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.RateService) *Server { return &Server{svc: svc} }

// SetReadyCheck wires the database ping used by /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type rateResponse struct {
	Value         float64    `json:"value"`
	CurrencyCode  string     `json:"currency_code"`
	EffectiveDate types.Date `json:"effective_date"`
	Source        string     `json:"source"`
	CapturedAt    time.Time  `json:"captured_at"`
	Trend         string     `json:"trend,omitempty"`
	PreviousValue *float64   `json:"previous_value,omitempty"`
}

func toRateResponse(rec domain.RateRecord) rateResponse {
	return rateResponse{
		Value:         rec.Value,
		CurrencyCode:  domain.CurrencyCode,
		EffectiveDate: types.Date{Time: rec.EffectiveDate},
		Source:        string(rec.Source),
		CapturedAt:    rec.CapturedAt,
		Trend:         string(rec.Trend),
		PreviousValue: rec.PreviousValue,
	}
}

func (s *Server) GetCurrentRate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.CurrentRate(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRateResponse(rec))
}

func (s *Server) GetRateForDate(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	d, err := time.Parse(types.DateFormat, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rec, err := s.svc.RateForDate(r.Context(), d)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRateResponse(rec))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrRateNotFound), errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "rate not found")
	case errors.Is(err, application.ErrInvalidResponse):
		writeError(w, http.StatusBadGateway, "rate source returned an invalid response")
	case errors.Is(err, application.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "rate source unavailable")
	default:
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package folio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

type stubRates struct {
	lastStayID uuid.UUID
	lastRates  AdjustmentRates
	err        error
}

func (s *stubRates) UpdateAdjustmentRates(_ context.Context, stayID uuid.UUID, rates AdjustmentRates) error {
	s.lastStayID = stayID
	s.lastRates = rates
	return s.err
}

func newFolioRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/stays/{stayID}/folio", h.Get)
	r.Put("/stays/{stayID}/financials", h.UpdateFinancials)
	return r
}

func TestHandlerGetFolio(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	src := &stubSource{
		room: RoomCharge{RoomLabel: "204", Nights: 3, NightlyRate: d(t, "1000")},
		rates: AdjustmentRates{
			ServiceChargePercent: d(t, "10"),
			TaxPercent:           d(t, "13"),
		},
	}
	h := &Handler{Svc: &Service{Src: src}, Log: zerolog.Nop()}
	router := newFolioRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/stays/"+uuid.NewString()+"/folio", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Data.Subtotal.Equal(d(t, "3000")))
	require.True(t, body.Data.GrandTotal.Equal(d(t, "3729")))
	require.True(t, body.Data.RemainingBalance.Equal(d(t, "3729")))
}

func TestHandlerGetFolioInvalidID(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	h := &Handler{Svc: &Service{Src: &stubSource{}}, Log: zerolog.Nop()}
	router := newFolioRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/stays/not-a-uuid/folio", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetFolioNotFound(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	h := &Handler{Svc: &Service{Src: &stubSource{err: ErrStayNotFound}}, Log: zerolog.Nop()}
	router := newFolioRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/stays/"+uuid.NewString()+"/folio", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestHandlerUpdateFinancials(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	rates := &stubRates{}
	h := &Handler{
		Svc:      &Service{Src: &stubSource{}},
		Rates:    rates,
		Validate: validator.New(),
		Log:      zerolog.Nop(),
	}
	router := newFolioRouter(h)
	stayID := uuid.New()

	payload := `{"discountEnabled":true,"discountPercent":10,"serviceChargePercent":10,"taxPercent":13}`
	req := httptest.NewRequest(http.MethodPut, "/stays/"+stayID.String()+"/financials", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, stayID, rates.lastStayID)
	require.True(t, rates.lastRates.DiscountEnabled)
	require.True(t, rates.lastRates.DiscountPercent.Equal(d(t, "10")))
	require.True(t, rates.lastRates.TaxPercent.Equal(d(t, "13")))
}

func TestHandlerUpdateFinancialsRejectsOutOfRange(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	rates := &stubRates{}
	h := &Handler{
		Svc:      &Service{Src: &stubSource{}},
		Rates:    rates,
		Validate: validator.New(),
		Log:      zerolog.Nop(),
	}
	router := newFolioRouter(h)

	payload := `{"discountEnabled":true,"discountPercent":150,"serviceChargePercent":10,"taxPercent":13}`
	req := httptest.NewRequest(http.MethodPut, "/stays/"+uuid.NewString()+"/financials", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, uuid.Nil, rates.lastStayID)
}

func TestHandlerUpdateFinancialsNotFound(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	h := &Handler{
		Svc:      &Service{Src: &stubSource{}},
		Rates:    &stubRates{err: ErrStayNotFound},
		Validate: validator.New(),
		Log:      zerolog.Nop(),
	}
	router := newFolioRouter(h)

	payload := `{"discountEnabled":false,"discountPercent":0,"serviceChargePercent":10,"taxPercent":13}`
	req := httptest.NewRequest(http.MethodPut, "/stays/"+uuid.NewString()+"/financials", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

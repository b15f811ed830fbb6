package folio

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Rahultharu064/HPMS-sub001/internal/common"
	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

// RatesStore persists adjustment-rate changes for a stay.
type RatesStore interface {
	UpdateAdjustmentRates(ctx context.Context, stayID uuid.UUID, rates AdjustmentRates) error
}

// Handler exposes the folio view and the update-financials operation.
type Handler struct {
	Svc      *Service
	Rates    RatesStore
	Events   *events.Bus
	Validate *validator.Validate
	Log      zerolog.Logger
}

// Get renders the folio snapshot for a stay.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "folio service not configured", nil)
		return
	}
	stayID, err := uuid.Parse(chi.URLParam(r, "stayID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid stay id", nil)
		return
	}
	snap, err := h.Svc.BuildFolio(r.Context(), stayID)
	if err != nil {
		if errors.Is(err, ErrStayNotFound) {
			obs.FolioBuildTotal.WithLabelValues("not_found").Inc()
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "stay not found", nil)
			return
		}
		obs.FolioBuildTotal.WithLabelValues("error").Inc()
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load folio", nil)
		return
	}
	obs.FolioBuildTotal.WithLabelValues("ok").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": snap})
}

type financialsRequest struct {
	DiscountEnabled      bool    `json:"discountEnabled"`
	DiscountPercent      float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	ServiceChargePercent float64 `json:"serviceChargePercent" validate:"gte=0"`
	TaxPercent           float64 `json:"taxPercent" validate:"gte=0"`
}

// UpdateFinancials persists new adjustment rates for a stay and emits a
// refresh event for the UI.
func (h *Handler) UpdateFinancials(w http.ResponseWriter, r *http.Request) {
	if h.Rates == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rates store not configured", nil)
		return
	}
	stayID, err := uuid.Parse(chi.URLParam(r, "stayID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid stay id", nil)
		return
	}
	var req financialsRequest
	if err := common.Decode(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid adjustment rates", map[string]any{"error": err.Error()})
			return
		}
	}
	rates := AdjustmentRates{
		DiscountEnabled:      req.DiscountEnabled,
		DiscountPercent:      decimal.NewFromFloat(req.DiscountPercent),
		ServiceChargePercent: decimal.NewFromFloat(req.ServiceChargePercent),
		TaxPercent:           decimal.NewFromFloat(req.TaxPercent),
	}
	if err := h.Rates.UpdateAdjustmentRates(r.Context(), stayID, rates); err != nil {
		if errors.Is(err, ErrStayNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "stay not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update financials", nil)
		return
	}
	if h.Events != nil {
		if _, err := h.Events.Emit(r.Context(), events.TopicFinancialsUpdated, stayID, map[string]any{
			"discountEnabled":      req.DiscountEnabled,
			"discountPercent":      req.DiscountPercent,
			"serviceChargePercent": req.ServiceChargePercent,
			"taxPercent":           req.TaxPercent,
		}); err != nil {
			h.Log.Error().Err(err).Str("stay_id", stayID.String()).Msg("emit financials event")
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"discountEnabled":      req.DiscountEnabled,
			"discountPercent":      req.DiscountPercent,
			"serviceChargePercent": req.ServiceChargePercent,
			"taxPercent":           req.TaxPercent,
		},
	})
}

package coupon

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Rahultharu064/HPMS-sub001/internal/common"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
)

// Handler exposes coupon application.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type applyRequest struct {
	Code string `json:"code" validate:"required"`
}

// Apply redeems a coupon code against a stay.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "coupon service not configured", nil)
		return
	}
	stayID, err := uuid.Parse(chi.URLParam(r, "stayID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid stay id", nil)
		return
	}
	var req applyRequest
	if err := common.Decode(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "coupon code is required", nil)
			return
		}
	}
	rates, err := h.Svc.Apply(r.Context(), stayID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, folio.ErrStayNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "stay not found", nil)
		case errors.Is(err, ErrCouponNotFound):
			common.JSONError(w, http.StatusNotFound, "COUPON_NOT_FOUND", "coupon not found", nil)
		case errors.Is(err, ErrCouponInactive),
			errors.Is(err, ErrCouponNotYetValid),
			errors.Is(err, ErrCouponExpired),
			errors.Is(err, ErrUsageLimitReached),
			errors.Is(err, ErrMinimumSpendUnmet):
			common.JSONError(w, http.StatusUnprocessableEntity, "COUPON_REJECTED", err.Error(), nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to apply coupon", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"discountEnabled":      rates.DiscountEnabled,
			"discountPercent":      rates.DiscountPercent,
			"serviceChargePercent": rates.ServiceChargePercent,
			"taxPercent":           rates.TaxPercent,
		},
	})
}

package payment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rahultharu064/HPMS-sub001/internal/common"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
)

// Handler exposes the payment-recording REST surface.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type recordRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=cash card bank_transfer online"`
	Status string  `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
}

// Record appends a payment to a stay.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "payment service not configured", nil)
		return
	}
	stayID, err := uuid.Parse(chi.URLParam(r, "stayID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid stay id", nil)
		return
	}
	var req recordRequest
	if err := common.Decode(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid payment", map[string]any{"error": err.Error()})
			return
		}
	}
	p, err := h.Svc.Record(r.Context(), stayID, RecordInput{
		Amount: decimal.NewFromFloat(req.Amount),
		Method: req.Method,
		Status: folio.PaymentStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, folio.ErrStayNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "stay not found", nil)
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownMethod), errors.Is(err, ErrUnknownStatus):
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to record payment", nil)
		}
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": paymentJSON(p)})
}

// List returns all payment records for a stay.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "payment service not configured", nil)
		return
	}
	stayID, err := uuid.Parse(chi.URLParam(r, "stayID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid stay id", nil)
		return
	}
	payments, err := h.Svc.List(r.Context(), stayID)
	if err != nil {
		if errors.Is(err, folio.ErrStayNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "stay not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list payments", nil)
		return
	}
	out := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentJSON(p))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func paymentJSON(p folio.Payment) map[string]any {
	return map[string]any{
		"id":        p.ID.String(),
		"amount":    p.Amount,
		"status":    string(p.Status),
		"method":    p.Method,
		"createdAt": p.CreatedAt,
	}
}

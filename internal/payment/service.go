// Package payment implements the record-payment operation for a stay's
// folio. Records are append-only; reconciliation happens at folio read time.
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

var (
	// ErrInvalidAmount is returned when the payment amount is not positive.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrUnknownMethod is returned for a payment method outside the accepted set.
	ErrUnknownMethod = errors.New("unknown payment method")
	// ErrUnknownStatus is returned for a status outside the accepted set.
	ErrUnknownStatus = errors.New("unknown payment status")
)

var knownMethods = map[string]struct{}{
	"cash":          {},
	"card":          {},
	"bank_transfer": {},
	"online":        {},
}

// Ledger is the durable payment storage the service writes to.
type Ledger interface {
	StayExists(ctx context.Context, stayID uuid.UUID) error
	InsertPayment(ctx context.Context, stayID uuid.UUID, amount decimal.Decimal, method string, status folio.PaymentStatus) (folio.Payment, error)
	Payments(ctx context.Context, stayID uuid.UUID) ([]folio.Payment, error)
}

// RecordInput carries a new payment entry. Status defaults to completed:
// front-desk cash/card entry settles immediately in this system.
type RecordInput struct {
	Amount decimal.Decimal
	Method string
	Status folio.PaymentStatus
}

// Service validates and appends payment records, emitting a UI refresh event
// per successful write.
type Service struct {
	Ledger Ledger
	Events *events.Bus
	Log    zerolog.Logger
}

// Record appends a payment to the stay's ledger.
func (s *Service) Record(ctx context.Context, stayID uuid.UUID, in RecordInput) (folio.Payment, error) {
	if s == nil || s.Ledger == nil {
		return folio.Payment{}, errors.New("payment service not configured")
	}
	if !in.Amount.IsPositive() {
		return folio.Payment{}, ErrInvalidAmount
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if _, ok := knownMethods[method]; !ok {
		return folio.Payment{}, ErrUnknownMethod
	}
	status := in.Status
	if status == "" {
		status = folio.PaymentCompleted
	}
	if !folio.KnownPaymentStatus(status) {
		return folio.Payment{}, ErrUnknownStatus
	}
	p, err := s.Ledger.InsertPayment(ctx, stayID, in.Amount, method, status)
	if err != nil {
		obs.PaymentRecordedTotal.WithLabelValues(method, "error").Inc()
		return folio.Payment{}, err
	}
	obs.PaymentRecordedTotal.WithLabelValues(method, "ok").Inc()
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicPaymentRecorded, stayID, map[string]any{
			"paymentId": p.ID.String(),
			"amount":    p.Amount.String(),
			"method":    p.Method,
			"status":    string(p.Status),
		}); err != nil {
			s.Log.Error().Err(err).Str("stay_id", stayID.String()).Msg("emit payment event")
		}
	}
	return p, nil
}

// List returns the stay's payment records, verifying the stay exists so a
// bad id surfaces as NotFound rather than an empty ledger.
func (s *Service) List(ctx context.Context, stayID uuid.UUID) ([]folio.Payment, error) {
	if s == nil || s.Ledger == nil {
		return nil, errors.New("payment service not configured")
	}
	if err := s.Ledger.StayExists(ctx, stayID); err != nil {
		return nil, err
	}
	return s.Ledger.Payments(ctx, stayID)
}

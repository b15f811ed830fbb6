package folio

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrStayNotFound is returned when the stay a folio was requested for does
// not exist.
var ErrStayNotFound = errors.New("stay not found")

// Source supplies the durable data a folio is built from. Implementations
// are expected to map a missing stay to ErrStayNotFound and to surface
// storage failures unchanged; the aggregator performs no retries.
type Source interface {
	RoomCharge(ctx context.Context, stayID uuid.UUID) (RoomCharge, error)
	ServiceCharges(ctx context.Context, stayID uuid.UUID) ([]ServiceCharge, error)
	AdjustmentRates(ctx context.Context, stayID uuid.UUID) (AdjustmentRates, error)
	Payments(ctx context.Context, stayID uuid.UUID) ([]Payment, error)
}

// Snapshot is the itemized bill for a stay at read time. It is recomputed on
// every request and never cached, so two reads with no intervening writes
// return identical values.
type Snapshot struct {
	StayID              uuid.UUID       `json:"stayId"`
	ChargeLines         []ChargeLine    `json:"chargeLines"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	ServiceChargeAmount decimal.Decimal `json:"serviceChargeAmount"`
	TaxAmount           decimal.Decimal `json:"taxAmount"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
	TotalPaid           decimal.Decimal `json:"totalPaid"`
	RemainingBalance    decimal.Decimal `json:"remainingBalance"`
	Overpayment         decimal.Decimal `json:"overpayment"`
}

// Service aggregates charge lines, adjustment rates and payments into folio
// snapshots. Read-only; the snapshot is all-or-nothing.
type Service struct {
	Src Source
}

// BuildFolio assembles the folio snapshot for a stay.
func (s *Service) BuildFolio(ctx context.Context, stayID uuid.UUID) (Snapshot, error) {
	if s == nil || s.Src == nil {
		return Snapshot{}, errors.New("folio service not configured")
	}
	room, err := s.Src.RoomCharge(ctx, stayID)
	if err != nil {
		return Snapshot{}, err
	}
	services, err := s.Src.ServiceCharges(ctx, stayID)
	if err != nil {
		return Snapshot{}, err
	}
	rates, err := s.Src.AdjustmentRates(ctx, stayID)
	if err != nil {
		return Snapshot{}, err
	}
	payments, err := s.Src.Payments(ctx, stayID)
	if err != nil {
		return Snapshot{}, err
	}

	lines := ChargeLines(room, services)
	subtotal := Subtotal(lines)
	breakdown := Compute(subtotal, rates)
	settlement := Reconcile(breakdown.GrandTotal, payments)

	return Snapshot{
		StayID:              stayID,
		ChargeLines:         lines,
		Subtotal:            subtotal,
		DiscountAmount:      breakdown.DiscountAmount,
		ServiceChargeAmount: breakdown.ServiceChargeAmount,
		TaxAmount:           breakdown.TaxAmount,
		GrandTotal:          breakdown.GrandTotal,
		TotalPaid:           settlement.TotalPaid,
		RemainingBalance:    settlement.Balance,
		Overpayment:         settlement.Overpayment,
	}, nil
}

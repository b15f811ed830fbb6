// Package stay provides the durable data access for stays: the charge line
// source, adjustment rates, the append-only payment ledger and the domain
// event log.
package stay

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
)

const fkViolation = "23503"

// Store reads and writes stay data through a pgx pool. Money columns are
// NUMERIC and travel through text so decimals stay exact.
type Store struct {
	Pool *pgxpool.Pool
	// Defaults fills rate columns left NULL on the stay row. Passed in
	// explicitly from configuration, never read from a global.
	Defaults folio.AdjustmentRates
}

// RoomCharge returns the room component of the stay's bill. Nights count
// check_out - check_in in whole days, clamped at zero.
func (s *Store) RoomCharge(ctx context.Context, stayID uuid.UUID) (folio.RoomCharge, error) {
	const q = `
SELECT r.label, GREATEST(st.check_out - st.check_in, 0), r.nightly_rate::text
FROM stays st
JOIN rooms r ON r.id = st.room_id
WHERE st.id = $1`
	var (
		label   string
		nights  int32
		rateRaw string
	)
	err := s.Pool.QueryRow(ctx, q, stayID).Scan(&label, &nights, &rateRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return folio.RoomCharge{}, folio.ErrStayNotFound
	}
	if err != nil {
		return folio.RoomCharge{}, fmt.Errorf("stay: room charge: %w", err)
	}
	rate, err := parseDecimal(rateRaw)
	if err != nil {
		return folio.RoomCharge{}, err
	}
	return folio.RoomCharge{RoomLabel: label, Nights: nights, NightlyRate: rate}, nil
}

// ServiceCharges lists the extra-service entries attached to a stay.
func (s *Store) ServiceCharges(ctx context.Context, stayID uuid.UUID) ([]folio.ServiceCharge, error) {
	const q = `
SELECT name, quantity, unit_price::text
FROM stay_services
WHERE stay_id = $1
ORDER BY id`
	rows, err := s.Pool.Query(ctx, q, stayID)
	if err != nil {
		return nil, fmt.Errorf("stay: service charges: %w", err)
	}
	defer rows.Close()

	var out []folio.ServiceCharge
	for rows.Next() {
		var (
			name     string
			quantity int32
			priceRaw string
		)
		if err := rows.Scan(&name, &quantity, &priceRaw); err != nil {
			return nil, fmt.Errorf("stay: scan service charge: %w", err)
		}
		price, err := parseDecimal(priceRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, folio.ServiceCharge{Name: name, Quantity: quantity, UnitPrice: price})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stay: service charges: %w", err)
	}
	return out, nil
}

// AdjustmentRates returns the stay's adjustment rates, falling back to the
// configured defaults for columns never set.
func (s *Store) AdjustmentRates(ctx context.Context, stayID uuid.UUID) (folio.AdjustmentRates, error) {
	const q = `
SELECT discount_enabled, discount_percent::text, service_charge_percent::text, tax_percent::text
FROM stays
WHERE id = $1`
	var (
		enabled                  bool
		discount, service, taxed *string
	)
	err := s.Pool.QueryRow(ctx, q, stayID).Scan(&enabled, &discount, &service, &taxed)
	if errors.Is(err, pgx.ErrNoRows) {
		return folio.AdjustmentRates{}, folio.ErrStayNotFound
	}
	if err != nil {
		return folio.AdjustmentRates{}, fmt.Errorf("stay: adjustment rates: %w", err)
	}
	rates := folio.AdjustmentRates{
		DiscountEnabled:      enabled,
		DiscountPercent:      s.Defaults.DiscountPercent,
		ServiceChargePercent: s.Defaults.ServiceChargePercent,
		TaxPercent:           s.Defaults.TaxPercent,
	}
	if discount != nil {
		if rates.DiscountPercent, err = parseDecimal(*discount); err != nil {
			return folio.AdjustmentRates{}, err
		}
	}
	if service != nil {
		if rates.ServiceChargePercent, err = parseDecimal(*service); err != nil {
			return folio.AdjustmentRates{}, err
		}
	}
	if taxed != nil {
		if rates.TaxPercent, err = parseDecimal(*taxed); err != nil {
			return folio.AdjustmentRates{}, err
		}
	}
	return rates, nil
}

// UpdateAdjustmentRates persists new rates for the stay.
func (s *Store) UpdateAdjustmentRates(ctx context.Context, stayID uuid.UUID, rates folio.AdjustmentRates) error {
	const q = `
UPDATE stays
SET discount_enabled = $2,
    discount_percent = $3::numeric,
    service_charge_percent = $4::numeric,
    tax_percent = $5::numeric,
    updated_at = now()
WHERE id = $1`
	tag, err := s.Pool.Exec(ctx, q, stayID,
		rates.DiscountEnabled,
		rates.DiscountPercent.String(),
		rates.ServiceChargePercent.String(),
		rates.TaxPercent.String(),
	)
	if err != nil {
		return fmt.Errorf("stay: update rates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return folio.ErrStayNotFound
	}
	return nil
}

// StayExists verifies the stay row is present, returning
// folio.ErrStayNotFound when it is not.
func (s *Store) StayExists(ctx context.Context, stayID uuid.UUID) error {
	var one int
	err := s.Pool.QueryRow(ctx, `SELECT 1 FROM stays WHERE id = $1`, stayID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return folio.ErrStayNotFound
	}
	if err != nil {
		return fmt.Errorf("stay: exists: %w", err)
	}
	return nil
}

// Payments lists all payment records for a stay, oldest first.
func (s *Store) Payments(ctx context.Context, stayID uuid.UUID) ([]folio.Payment, error) {
	const q = `
SELECT id, amount::text, status, method, created_at
FROM payments
WHERE stay_id = $1
ORDER BY created_at, id`
	rows, err := s.Pool.Query(ctx, q, stayID)
	if err != nil {
		return nil, fmt.Errorf("stay: payments: %w", err)
	}
	defer rows.Close()

	var out []folio.Payment
	for rows.Next() {
		var (
			p         folio.Payment
			amountRaw string
			status    string
		)
		if err := rows.Scan(&p.ID, &amountRaw, &status, &p.Method, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("stay: scan payment: %w", err)
		}
		if p.Amount, err = parseDecimal(amountRaw); err != nil {
			return nil, err
		}
		p.Status = folio.PaymentStatus(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stay: payments: %w", err)
	}
	return out, nil
}

// InsertPayment appends a payment record to the stay's ledger.
func (s *Store) InsertPayment(ctx context.Context, stayID uuid.UUID, amount decimal.Decimal, method string, status folio.PaymentStatus) (folio.Payment, error) {
	const q = `
INSERT INTO payments (stay_id, amount, status, method)
VALUES ($1, $2::numeric, $3, $4)
RETURNING id, amount::text, status, method, created_at`
	var (
		p         folio.Payment
		amountRaw string
		rawStatus string
	)
	err := s.Pool.QueryRow(ctx, q, stayID, amount.String(), string(status), method).
		Scan(&p.ID, &amountRaw, &rawStatus, &p.Method, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return folio.Payment{}, folio.ErrStayNotFound
		}
		return folio.Payment{}, fmt.Errorf("stay: insert payment: %w", err)
	}
	if p.Amount, err = parseDecimal(amountRaw); err != nil {
		return folio.Payment{}, err
	}
	p.Status = folio.PaymentStatus(rawStatus)
	return p, nil
}

// InsertEvent appends a domain event row. Implements events.Store.
func (s *Store) InsertEvent(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte) (events.Event, error) {
	const q = `
INSERT INTO domain_events (topic, aggregate_id, payload)
VALUES ($1, $2, $3)
RETURNING id, occurred_at`
	ev := events.Event{Topic: topic, AggregateID: aggregateID, Payload: payload}
	if err := s.Pool.QueryRow(ctx, q, topic, aggregateID, payload).Scan(&ev.ID, &ev.OccurredAt); err != nil {
		return events.Event{}, fmt.Errorf("stay: insert event: %w", err)
	}
	return ev, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("stay: parse numeric %q: %w", raw, err)
	}
	return d, nil
}

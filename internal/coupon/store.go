package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store reads coupon rules from Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

// GetByCode loads the coupon rule for a code, case-insensitively.
func (s *Store) GetByCode(ctx context.Context, code string) (Rule, error) {
	const q = `
SELECT code, percent::text, min_subtotal::text, usage_limit, used_count, active, valid_from, valid_to
FROM coupons
WHERE lower(code) = lower($1)`
	var (
		r                          Rule
		percentRaw, minSubtotalRaw string
	)
	err := s.Pool.QueryRow(ctx, q, strings.TrimSpace(code)).Scan(
		&r.Code, &percentRaw, &minSubtotalRaw, &r.UsageLimit, &r.UsedCount, &r.Active, &r.ValidFrom, &r.ValidTo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rule{}, ErrCouponNotFound
	}
	if err != nil {
		return Rule{}, fmt.Errorf("coupon: get by code: %w", err)
	}
	if r.Percent, err = decimal.NewFromString(percentRaw); err != nil {
		return Rule{}, fmt.Errorf("coupon: parse percent: %w", err)
	}
	if r.MinSubtotal, err = decimal.NewFromString(minSubtotalRaw); err != nil {
		return Rule{}, fmt.Errorf("coupon: parse min subtotal: %w", err)
	}
	return r, nil
}

// IncrementUsage consumes one redemption of the coupon.
func (s *Store) IncrementUsage(ctx context.Context, code string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE coupons SET used_count = used_count + 1 WHERE lower(code) = lower($1)`, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("coupon: increment usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCouponNotFound
	}
	return nil
}

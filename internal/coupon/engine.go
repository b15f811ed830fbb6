// Package coupon implements discount coupon codes for stays. A coupon grants
// a discount percentage; applying it flips the stay's discount rates on and
// consumes one use.
package coupon

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrCouponNotFound is returned when no coupon carries the given code.
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrCouponInactive is returned when the coupon has been switched off.
	ErrCouponInactive = errors.New("coupon not active")
	// ErrCouponNotYetValid is returned before the coupon's validity window opens.
	ErrCouponNotYetValid = errors.New("coupon not yet valid")
	// ErrCouponExpired is returned when the coupon's validity window has closed.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrUsageLimitReached indicates the coupon exhausted its redemption quota.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	// ErrMinimumSpendUnmet indicates the folio subtotal did not meet the coupon requirement.
	ErrMinimumSpendUnmet = errors.New("coupon minimum spend not met")
)

// Rule captures the runtime constraints of a coupon.
type Rule struct {
	Code        string
	Percent     decimal.Decimal
	MinSubtotal decimal.Decimal
	UsageLimit  *int32
	UsedCount   int32
	Active      bool
	ValidFrom   *time.Time
	ValidTo     *time.Time
}

// Validate ensures the rule can be applied at the provided instant against
// the stay's current subtotal.
func (r Rule) Validate(now time.Time, subtotal decimal.Decimal) error {
	if !r.Active {
		return ErrCouponInactive
	}
	if subtotal.LessThan(r.MinSubtotal) {
		return ErrMinimumSpendUnmet
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return ErrCouponNotYetValid
	}
	if r.ValidTo != nil && now.After(*r.ValidTo) {
		return ErrCouponExpired
	}
	if r.UsageLimit != nil && *r.UsageLimit >= 0 && r.UsedCount >= *r.UsageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

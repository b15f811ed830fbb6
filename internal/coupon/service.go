package coupon

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

// RuleStore loads and consumes coupon rules.
type RuleStore interface {
	GetByCode(ctx context.Context, code string) (Rule, error)
	IncrementUsage(ctx context.Context, code string) error
}

// Service applies coupons to stays: it checks the rule against the stay's
// current subtotal, then rewrites the stay's discount rates.
type Service struct {
	Folio  *folio.Service
	Rules  RuleStore
	Rates  folio.RatesStore
	Events *events.Bus
	Log    zerolog.Logger
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Apply validates the coupon against the stay and, on success, enables the
// discount at the coupon's percentage and consumes one use. Returns the
// rates now in effect for the stay.
func (s *Service) Apply(ctx context.Context, stayID uuid.UUID, code string) (folio.AdjustmentRates, error) {
	if s == nil || s.Folio == nil || s.Rules == nil || s.Rates == nil {
		return folio.AdjustmentRates{}, errors.New("coupon service not configured")
	}
	snap, err := s.Folio.BuildFolio(ctx, stayID)
	if err != nil {
		obs.CouponRedeemTotal.WithLabelValues("error").Inc()
		return folio.AdjustmentRates{}, err
	}
	rule, err := s.Rules.GetByCode(ctx, code)
	if err != nil {
		obs.CouponRedeemTotal.WithLabelValues("not_found").Inc()
		return folio.AdjustmentRates{}, err
	}
	if err := rule.Validate(s.now(), snap.Subtotal); err != nil {
		obs.CouponRedeemTotal.WithLabelValues("rejected").Inc()
		return folio.AdjustmentRates{}, err
	}
	rates, err := s.Folio.Src.AdjustmentRates(ctx, stayID)
	if err != nil {
		obs.CouponRedeemTotal.WithLabelValues("error").Inc()
		return folio.AdjustmentRates{}, err
	}
	rates.DiscountEnabled = true
	rates.DiscountPercent = rule.Percent
	if err := s.Rates.UpdateAdjustmentRates(ctx, stayID, rates); err != nil {
		obs.CouponRedeemTotal.WithLabelValues("error").Inc()
		return folio.AdjustmentRates{}, err
	}
	if err := s.Rules.IncrementUsage(ctx, rule.Code); err != nil {
		obs.CouponRedeemTotal.WithLabelValues("error").Inc()
		return folio.AdjustmentRates{}, err
	}
	obs.CouponRedeemTotal.WithLabelValues("ok").Inc()
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicCouponApplied, stayID, map[string]any{
			"code":            rule.Code,
			"discountPercent": rule.Percent.String(),
		}); err != nil {
			s.Log.Error().Err(err).Str("stay_id", stayID.String()).Msg("emit coupon event")
		}
	}
	return rates, nil
}

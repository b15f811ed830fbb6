package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// FolioBuildTotal counts folio snapshot builds by outcome.
	FolioBuildTotal *prometheus.CounterVec
	// PaymentRecordedTotal counts payment-recording outcomes by method.
	PaymentRecordedTotal *prometheus.CounterVec
	// CouponRedeemTotal counts coupon application outcomes.
	CouponRedeemTotal *prometheus.CounterVec
	// HousekeepingTransitionTotal counts housekeeping task status transitions.
	HousekeepingTransitionTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		FolioBuildTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "folio_build_total",
			Help:      "Count of folio snapshot builds by outcome.",
		}, []string{"result"})
		PaymentRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_recorded_total",
			Help:      "Count of payment-recording outcomes.",
		}, []string{"method", "result"})
		CouponRedeemTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redeem_total",
			Help:      "Count of coupon application outcomes.",
		}, []string{"result"})
		HousekeepingTransitionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "housekeeping_transition_total",
			Help:      "Count of housekeeping task status transitions.",
		}, []string{"to_status"})

		registerDomainCounter(reg, &FolioBuildTotal)
		registerDomainCounter(reg, &PaymentRecordedTotal)
		registerDomainCounter(reg, &CouponRedeemTotal)
		registerDomainCounter(reg, &HousekeepingTransitionTotal)
	})
}

func registerDomainCounter(reg prometheus.Registerer, c **prometheus.CounterVec) {
	if err := reg.Register(*c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*c = existing
				return
			}
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}

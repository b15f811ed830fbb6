package folio

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// AdjustmentRates holds the percentage-based adjustments applied to a stay's
// subtotal. Rates are percent values (13 means 13%), never hidden globals:
// every computation receives an explicit value so different stays and
// properties can carry different policies.
type AdjustmentRates struct {
	DiscountEnabled      bool
	DiscountPercent      decimal.Decimal
	ServiceChargePercent decimal.Decimal
	TaxPercent           decimal.Decimal
}

// Breakdown aggregates the amounts derived from a subtotal by Compute.
type Breakdown struct {
	DiscountAmount      decimal.Decimal
	ServiceChargeAmount decimal.Decimal
	TaxAmount           decimal.Decimal
	GrandTotal          decimal.Decimal
}

// Compute derives discount, service charge, tax and grand total from the
// subtotal. The cascade order is a business rule, not incidental: service
// charge applies to the post-discount amount, and tax applies to the
// post-discount amount including the service charge. Values are carried at
// full precision; rounding is left to presentation.
//
//	discount      = subtotal * discountPercent / 100   (when enabled)
//	serviceCharge = (subtotal - discount) * serviceChargePercent / 100
//	tax           = (subtotal - discount + serviceCharge) * taxPercent / 100
//	grandTotal    = subtotal - discount + serviceCharge + tax
//
// Out-of-range inputs (e.g. a discount above 100%) are not rejected here;
// validation belongs to the caller.
func Compute(subtotal decimal.Decimal, rates AdjustmentRates) Breakdown {
	discount := decimal.Zero
	if rates.DiscountEnabled {
		discount = subtotal.Mul(rates.DiscountPercent).Div(hundred)
	}
	discounted := subtotal.Sub(discount)
	serviceCharge := discounted.Mul(rates.ServiceChargePercent).Div(hundred)
	taxable := discounted.Add(serviceCharge)
	tax := taxable.Mul(rates.TaxPercent).Div(hundred)
	return Breakdown{
		DiscountAmount:      discount,
		ServiceChargeAmount: serviceCharge,
		TaxAmount:           tax,
		GrandTotal:          taxable.Add(tax),
	}
}

package folio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the settlement state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// KnownPaymentStatus reports whether s is one of the recognised statuses.
func KnownPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment is an append-only payment record owned by a stay. The reconciler
// treats status as given; transitions happen elsewhere.
type Payment struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	Status    PaymentStatus
	Method    string
	CreatedAt time.Time
}

// Settlement is the result of reconciling payments against a grand total.
// Balance is clamped at zero; the unclamped credit is kept on Overpayment so
// a refund owed to the guest is never silently discarded.
type Settlement struct {
	TotalPaid   decimal.Decimal
	Balance     decimal.Decimal
	Overpayment decimal.Decimal
}

// Reconcile sums completed payments and derives the remaining balance.
// Pending, failed and refunded payments never contribute to the total paid.
func Reconcile(grandTotal decimal.Decimal, payments []Payment) Settlement {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	balance := grandTotal.Sub(paid)
	over := decimal.Zero
	if balance.IsNegative() {
		over = balance.Neg()
		balance = decimal.Zero
	}
	return Settlement{TotalPaid: paid, Balance: balance, Overpayment: over}
}

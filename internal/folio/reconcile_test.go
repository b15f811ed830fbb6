package folio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestReconcileFullySettled(t *testing.T) {
	payments := []Payment{
		{ID: uuid.New(), Amount: d(t, "1000"), Status: PaymentCompleted},
		{ID: uuid.New(), Amount: d(t, "118.7"), Status: PaymentCompleted},
	}

	got := Reconcile(d(t, "1118.7"), payments)

	require.True(t, got.TotalPaid.Equal(d(t, "1118.7")))
	require.True(t, got.Balance.IsZero())
	require.True(t, got.Overpayment.IsZero())
}

func TestReconcilePartialPayment(t *testing.T) {
	payments := []Payment{
		{ID: uuid.New(), Amount: d(t, "500"), Status: PaymentCompleted},
	}

	got := Reconcile(d(t, "1118.7"), payments)

	require.True(t, got.TotalPaid.Equal(d(t, "500")))
	require.True(t, got.Balance.Equal(d(t, "618.7")))
	require.True(t, got.Overpayment.IsZero())
}

func TestReconcileOverpaymentClampsBalance(t *testing.T) {
	payments := []Payment{
		{ID: uuid.New(), Amount: d(t, "1500"), Status: PaymentCompleted},
	}

	got := Reconcile(d(t, "1000"), payments)

	require.True(t, got.TotalPaid.Equal(d(t, "1500")))
	require.True(t, got.Balance.IsZero(), "balance must never go negative")
	require.True(t, got.Overpayment.Equal(d(t, "500")))
}

func TestReconcileIgnoresNonCompletedStatuses(t *testing.T) {
	payments := []Payment{
		{ID: uuid.New(), Amount: d(t, "300"), Status: PaymentPending},
		{ID: uuid.New(), Amount: d(t, "300"), Status: PaymentFailed},
		{ID: uuid.New(), Amount: d(t, "300"), Status: PaymentRefunded},
		{ID: uuid.New(), Amount: d(t, "250"), Status: PaymentCompleted},
	}

	got := Reconcile(d(t, "1000"), payments)

	require.True(t, got.TotalPaid.Equal(d(t, "250")))
	require.True(t, got.Balance.Equal(d(t, "750")))
}

func TestReconcileNoPayments(t *testing.T) {
	got := Reconcile(d(t, "1000"), nil)

	require.True(t, got.TotalPaid.IsZero())
	require.True(t, got.Balance.Equal(d(t, "1000")))
	require.True(t, got.Overpayment.IsZero())
}

func TestKnownPaymentStatus(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded} {
		require.True(t, KnownPaymentStatus(s), "status %s", s)
	}
	require.False(t, KnownPaymentStatus("voided"))
	require.False(t, KnownPaymentStatus(""))
}

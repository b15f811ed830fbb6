package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/folio"
	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

type memLedger struct {
	stays    map[uuid.UUID]struct{}
	payments map[uuid.UUID][]folio.Payment
}

func newMemLedger(stayIDs ...uuid.UUID) *memLedger {
	l := &memLedger{
		stays:    make(map[uuid.UUID]struct{}),
		payments: make(map[uuid.UUID][]folio.Payment),
	}
	for _, id := range stayIDs {
		l.stays[id] = struct{}{}
	}
	return l
}

func (l *memLedger) StayExists(_ context.Context, stayID uuid.UUID) error {
	if _, ok := l.stays[stayID]; !ok {
		return folio.ErrStayNotFound
	}
	return nil
}

func (l *memLedger) InsertPayment(_ context.Context, stayID uuid.UUID, amount decimal.Decimal, method string, status folio.PaymentStatus) (folio.Payment, error) {
	if _, ok := l.stays[stayID]; !ok {
		return folio.Payment{}, folio.ErrStayNotFound
	}
	p := folio.Payment{
		ID:        uuid.New(),
		Amount:    amount,
		Status:    status,
		Method:    method,
		CreatedAt: time.Now(),
	}
	l.payments[stayID] = append(l.payments[stayID], p)
	return p, nil
}

func (l *memLedger) Payments(_ context.Context, stayID uuid.UUID) ([]folio.Payment, error) {
	return l.payments[stayID], nil
}

type memEventStore struct {
	events []events.Event
}

func (s *memEventStore) InsertEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (events.Event, error) {
	ev := events.Event{
		ID:          uuid.New(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}
	s.events = append(s.events, ev)
	return ev, nil
}

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestRecordPayment(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	stayID := uuid.New()
	ledger := newMemLedger(stayID)
	store := &memEventStore{}
	svc := &Service{
		Ledger: ledger,
		Events: &events.Bus{Store: store},
		Log:    zerolog.Nop(),
	}

	p, err := svc.Record(context.Background(), stayID, RecordInput{
		Amount: amt(t, "1118.7"),
		Method: "card",
	})
	require.NoError(t, err)
	require.Equal(t, folio.PaymentCompleted, p.Status, "status defaults to completed")
	require.Equal(t, "card", p.Method)
	require.True(t, p.Amount.Equal(amt(t, "1118.7")))

	require.Len(t, store.events, 1)
	require.Equal(t, events.TopicPaymentRecorded, store.events[0].Topic)
	require.Equal(t, stayID, store.events[0].AggregateID)
}

func TestRecordPaymentNormalizesMethod(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	stayID := uuid.New()
	svc := &Service{Ledger: newMemLedger(stayID), Log: zerolog.Nop()}

	p, err := svc.Record(context.Background(), stayID, RecordInput{
		Amount: amt(t, "100"),
		Method: "  Cash ",
	})
	require.NoError(t, err)
	require.Equal(t, "cash", p.Method)
}

func TestRecordPaymentExplicitStatus(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	stayID := uuid.New()
	svc := &Service{Ledger: newMemLedger(stayID), Log: zerolog.Nop()}

	p, err := svc.Record(context.Background(), stayID, RecordInput{
		Amount: amt(t, "100"),
		Method: "online",
		Status: folio.PaymentPending,
	})
	require.NoError(t, err)
	require.Equal(t, folio.PaymentPending, p.Status)
}

func TestRecordPaymentValidation(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	stayID := uuid.New()
	svc := &Service{Ledger: newMemLedger(stayID), Log: zerolog.Nop()}
	ctx := context.Background()

	_, err := svc.Record(ctx, stayID, RecordInput{Amount: decimal.Zero, Method: "cash"})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(ctx, stayID, RecordInput{Amount: amt(t, "-5"), Method: "cash"})
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Record(ctx, stayID, RecordInput{Amount: amt(t, "10"), Method: "barter"})
	require.ErrorIs(t, err, ErrUnknownMethod)

	_, err = svc.Record(ctx, stayID, RecordInput{Amount: amt(t, "10"), Method: "cash", Status: "voided"})
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestRecordPaymentUnknownStay(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	svc := &Service{Ledger: newMemLedger(), Log: zerolog.Nop()}

	_, err := svc.Record(context.Background(), uuid.New(), RecordInput{
		Amount: amt(t, "10"),
		Method: "cash",
	})
	require.ErrorIs(t, err, folio.ErrStayNotFound)
}

func TestListPayments(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())

	stayID := uuid.New()
	svc := &Service{Ledger: newMemLedger(stayID), Log: zerolog.Nop()}
	ctx := context.Background()

	_, err := svc.Record(ctx, stayID, RecordInput{Amount: amt(t, "100"), Method: "cash"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, stayID, RecordInput{Amount: amt(t, "200"), Method: "card"})
	require.NoError(t, err)

	payments, err := svc.List(ctx, stayID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	_, err = svc.List(ctx, uuid.New())
	require.ErrorIs(t, err, folio.ErrStayNotFound)
}

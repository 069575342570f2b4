package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"azurea_hotel/internal/adapters/observability"
	"azurea_hotel/internal/domain"
)

// duplicateWindow guards against double-submits of the same payment. A
// completed transaction for the same booking and amount inside the window
// is treated as the same payment event.
const duplicateWindow = 2 * time.Minute

type PaymentService struct {
	bookings     domain.BookingStore
	transactions domain.TransactionStore
	now          func() time.Time
}

func NewPaymentService(b domain.BookingStore, t domain.TransactionStore) *PaymentService {
	return &PaymentService{bookings: b, transactions: t, now: time.Now}
}

// RecordPayment appends one completed transaction and marks the booking
// paid. It never touches booking.status: payment and lifecycle are
// orthogonal axes.
func (s *PaymentService) RecordPayment(ctx context.Context, bookingID int64, amount string, txType string) (domain.Transaction, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Transaction{}, err
	}

	amt, err := parseAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	t := domain.TxBooking
	if txType != "" {
		switch domain.TransactionType(txType) {
		case domain.TxBooking, domain.TxReservation, domain.TxRefund:
			t = domain.TransactionType(txType)
		default:
			return domain.Transaction{}, domain.InvalidValues(
				[]string{string(domain.TxBooking), string(domain.TxReservation), string(domain.TxRefund)},
				"invalid transaction type: %s", txType)
		}
	}

	dup, err := s.transactions.HasRecentCompleted(ctx, bookingID, amt, duplicateWindow)
	if err != nil {
		return domain.Transaction{}, err
	}
	if dup {
		return domain.Transaction{}, domain.Conflictf("payment already recorded for this booking")
	}

	tx := domain.Transaction{
		BookingID:       &bookingID,
		UserID:          b.GuestID,
		Type:            t,
		Amount:          amt,
		Status:          domain.TxCompleted,
		TransactionDate: s.now(),
	}
	id, err := s.transactions.CommitPayment(ctx, tx)
	if err != nil {
		observability.ObservePayment("error")
		return domain.Transaction{}, err
	}
	tx.ID = id
	observability.ObservePayment("ok")
	return tx, nil
}

// ComputeRevenue sums completed transactions in [from, to), partitioned by
// property type of the linked booking. An empty ledger yields zeros.
func (s *PaymentService) ComputeRevenue(ctx context.Context, from, to time.Time) (domain.RevenueSummary, error) {
	return s.transactions.RevenueBetween(ctx, from, to)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, domain.Invalidf("amount is required")
	}
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, domain.Invalidf("invalid amount: %s", raw)
	}
	if !amt.IsPositive() {
		return decimal.Decimal{}, domain.Invalidf("amount must be positive")
	}
	return amt.Round(2), nil
}

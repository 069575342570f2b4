package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"azurea_hotel/internal/app"
	"azurea_hotel/internal/domain"
)

type fakeTransactions struct {
	rows    []domain.Transaction
	recent  bool
	revenue domain.RevenueSummary
}

func (f *fakeTransactions) CommitPayment(ctx context.Context, t domain.Transaction) (int64, error) {
	t.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, t)
	return t.ID, nil
}

func (f *fakeTransactions) HasRecentCompleted(ctx context.Context, bookingID int64, amount decimal.Decimal, window time.Duration) (bool, error) {
	return f.recent, nil
}

func (f *fakeTransactions) RevenueBetween(ctx context.Context, from, to time.Time) (domain.RevenueSummary, error) {
	return f.revenue, nil
}

func TestRecordPayment_HappyPath(t *testing.T) {
	bk := newFakeBookings(fixtureBooking(1, domain.StatusConfirmed))
	tr := &fakeTransactions{}
	svc := app.NewPaymentService(bk, tr)

	tx, err := svc.RecordPayment(context.Background(), 1, "1500.00", "")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.Type != domain.TxBooking {
		t.Fatalf("empty type must default to booking, got %s", tx.Type)
	}
	if tx.Status != domain.TxCompleted {
		t.Fatalf("status = %s", tx.Status)
	}
	if tx.Amount.StringFixed(2) != "1500.00" {
		t.Fatalf("amount = %s", tx.Amount)
	}
	if tx.BookingID == nil || *tx.BookingID != 1 {
		t.Fatalf("booking link missing")
	}
	if tx.UserID != guestID {
		t.Fatalf("ledger row must carry the guest, got %d", tx.UserID)
	}
	if len(tr.rows) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(tr.rows))
	}
}

func TestRecordPayment_AmountValidation(t *testing.T) {
	bk := newFakeBookings(fixtureBooking(1, domain.StatusConfirmed))
	svc := app.NewPaymentService(bk, &fakeTransactions{})
	ctx := context.Background()

	for _, amount := range []string{"", "abc", "-10", "0"} {
		if _, err := svc.RecordPayment(ctx, 1, amount, ""); !errors.Is(err, domain.ErrInvalid) {
			t.Fatalf("amount %q: expected invalid, got %v", amount, err)
		}
	}

	// fractional cents round to 2dp
	tx, err := svc.RecordPayment(ctx, 1, "99.999", "")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if tx.Amount.StringFixed(2) != "100.00" {
		t.Fatalf("expected rounding to 100.00, got %s", tx.Amount)
	}
}

func TestRecordPayment_InvalidType(t *testing.T) {
	bk := newFakeBookings(fixtureBooking(1, domain.StatusConfirmed))
	svc := app.NewPaymentService(bk, &fakeTransactions{})

	_, err := svc.RecordPayment(context.Background(), 1, "100.00", "tip")
	if !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	valid := domain.ValidValues(err)
	if len(valid) != 3 {
		t.Fatalf("expected 3 valid types, got %v", valid)
	}
}

func TestRecordPayment_DuplicateGuard(t *testing.T) {
	bk := newFakeBookings(fixtureBooking(1, domain.StatusConfirmed))
	tr := &fakeTransactions{recent: true}
	svc := app.NewPaymentService(bk, tr)

	_, err := svc.RecordPayment(context.Background(), 1, "1500.00", "")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(tr.rows) != 0 {
		t.Fatalf("duplicate must not append a row")
	}
}

func TestRecordPayment_UnknownBooking(t *testing.T) {
	svc := app.NewPaymentService(newFakeBookings(), &fakeTransactions{})

	_, err := svc.RecordPayment(context.Background(), 404, "100.00", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestComputeRevenue_EmptyLedgerIsZeros(t *testing.T) {
	svc := app.NewPaymentService(newFakeBookings(), &fakeTransactions{})

	rev, err := svc.ComputeRevenue(context.Background(), time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if !rev.Total.IsZero() || !rev.RoomRevenue.IsZero() || !rev.VenueRevenue.IsZero() {
		t.Fatalf("expected zeros, got %+v", rev)
	}
}

func TestComputeRevenue_Partition(t *testing.T) {
	tr := &fakeTransactions{revenue: domain.RevenueSummary{
		Total:        decimal.RequireFromString("2750.00"),
		RoomRevenue:  decimal.RequireFromString("1500.00"),
		VenueRevenue: decimal.RequireFromString("1000.00"),
	}}
	svc := app.NewPaymentService(newFakeBookings(), tr)

	rev, err := svc.ComputeRevenue(context.Background(), time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	// unlinked ledger rows count toward total only
	linked := rev.RoomRevenue.Add(rev.VenueRevenue)
	if !linked.LessThanOrEqual(rev.Total) {
		t.Fatalf("partition exceeds total: %s > %s", linked, rev.Total)
	}
}

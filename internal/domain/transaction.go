package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxBooking     TransactionType = "booking"
	TxReservation TransactionType = "reservation" // legacy area-reservation ledger entries
	TxRefund      TransactionType = "cancellation_refund"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is an append-only ledger row. TransactionDate is set at
// creation and never updated.
type Transaction struct {
	ID              int64
	BookingID       *int64
	ReservationID   *int64
	UserID          int64
	Type            TransactionType
	Amount          decimal.Decimal
	Status          TransactionStatus
	TransactionDate time.Time
}

// RevenueSummary partitions period revenue by property type. Transactions
// with no booking link contribute to Total only.
type RevenueSummary struct {
	Total        decimal.Decimal
	RoomRevenue  decimal.Decimal
	VenueRevenue decimal.Decimal
}

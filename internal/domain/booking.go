package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusReserved   BookingStatus = "reserved"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
	StatusRejected   BookingStatus = "rejected"
	StatusMissed     BookingStatus = "missed_reservation"
)

// ValidStatuses is the recognized set, in lifecycle order. Error payloads
// enumerate it so clients can correct bad input.
var ValidStatuses = []BookingStatus{
	StatusPending, StatusReserved, StatusConfirmed, StatusCheckedIn,
	StatusCheckedOut, StatusCancelled, StatusRejected, StatusMissed,
}

// NormalizeStatus maps input aliases onto stored values ("no_show" is the
// client-side name for a missed reservation) and reports whether the result
// is a recognized status.
func NormalizeStatus(s string) (BookingStatus, bool) {
	if s == "no_show" {
		return StatusMissed, true
	}
	st := BookingStatus(s)
	for _, v := range ValidStatuses {
		if st == v {
			return st, true
		}
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Booking struct {
	ID                 int64
	GuestID            int64
	Resource           ResourceRef
	CheckInDate        time.Time // date only
	CheckOutDate       time.Time // date only
	StartTime          *string   // "15:04", venue bookings
	EndTime            *string
	Status             BookingStatus
	PaymentStatus      PaymentStatus
	TotalPrice         *decimal.Decimal
	ValidIDURL         string
	SpecialRequest     *string
	CancellationDate   *time.Time
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive reports whether the booking currently holds its resource.
func (b Booking) IsActive() bool {
	switch b.Status {
	case StatusReserved, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// IsCancellable reports whether the guest cancel flow may still run.
func (b Booking) IsCancellable() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusReserved:
		return true
	}
	return false
}

func (b Booking) IsVenue() bool { return b.Resource.Kind == KindArea }

// DurationDays is the length of stay in whole days.
func (b Booking) DurationDays() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStore interface {
	CreateBooking(ctx context.Context, b Booking) (int64, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error) // newest first
	ListBookingsByGuest(ctx context.Context, guestID int64) ([]Booking, error)
	DeleteBooking(ctx context.Context, id int64) error

	// CommitTransition persists the booking's status fields and, when
	// resStatus is non-nil, the referenced resource's status in a single
	// database transaction. A reader never sees one side without the other.
	CommitTransition(ctx context.Context, b Booking, resStatus *ResourceStatus) error

	// ActiveBookingCount counts bookings in {reserved, confirmed,
	// checked_in} referencing the resource. Edit/delete guards use it.
	ActiveBookingCount(ctx context.Context, ref ResourceRef) (int, error)

	CountByStatuses(ctx context.Context, statuses ...BookingStatus) (int, error)
}

type ResourceStore interface {
	CreateResource(ctx context.Context, r Resource) (int64, error)
	GetResource(ctx context.Context, ref ResourceRef) (Resource, error)
	ListResources(ctx context.Context, kind ResourceKind) ([]Resource, error)
	ListByStatus(ctx context.Context, kind ResourceKind, st ResourceStatus) ([]Resource, error)
	CountByStatus(ctx context.Context, kind ResourceKind, st ResourceStatus) (int, error)
	UpdateResource(ctx context.Context, r Resource) error
	DeleteResource(ctx context.Context, ref ResourceRef) error

	CreateAmenity(ctx context.Context, description string) (int64, error)
	GetAmenity(ctx context.Context, id int64) (Amenity, error)
	ListAmenities(ctx context.Context, page, pageSize int) (AmenitiesPage, error)
	UpdateAmenity(ctx context.Context, a Amenity) error
	DeleteAmenity(ctx context.Context, id int64) error
}

type TransactionStore interface {
	// CommitPayment appends the transaction row and marks the linked
	// booking paid in one database transaction.
	CommitPayment(ctx context.Context, t Transaction) (int64, error)

	// HasRecentCompleted reports whether a completed transaction for the
	// same booking and amount exists within the window ending now.
	HasRecentCompleted(ctx context.Context, bookingID int64, amount decimal.Decimal, window time.Duration) (bool, error)

	RevenueBetween(ctx context.Context, from, to time.Time) (RevenueSummary, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListStaff(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, u User) error
	ArchiveStaff(ctx context.Context, id int64) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r Review) (int64, error)
	HasReview(ctx context.Context, bookingID int64) (bool, error)
	ListReviews(ctx context.Context, bookingID int64) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// BookingSnapshot is the flattened view the mail templates render.
type BookingSnapshot struct {
	BookingID    int64
	GuestName    string
	GuestEmail   string
	PropertyType string // "Room" | "Venue"
	PropertyName string
	CheckIn      string // YYYY-MM-DD
	CheckOut     string
	Status       string
}

// Notifier delivers booking mail. Delivery failures are the caller's to
// swallow: a committed transition is never rolled back over one.
type Notifier interface {
	SendConfirmation(ctx context.Context, s BookingSnapshot) error
	SendRejection(ctx context.Context, s BookingSnapshot, reason string) error
}

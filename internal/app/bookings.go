package app

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"azurea_hotel/internal/domain"
)

const timeLayout = "15:04"

// BookingRequest is a guest's reservation request. ValidIDURL points at the
// uploaded identity document; upload mechanics live outside the core.
type BookingRequest struct {
	GuestID        int64
	Resource       domain.ResourceRef
	CheckIn        string // YYYY-MM-DD
	CheckOut       string
	StartTime      *string // HH:MM, venue bookings
	EndTime        *string
	ValidIDURL     string
	SpecialRequest *string
}

func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	checkIn, checkOut, err := parseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return domain.Booking{}, err
	}
	if strings.TrimSpace(req.ValidIDURL) == "" {
		return domain.Booking{}, domain.Invalidf("a valid ID document is required")
	}

	res, err := s.resources.GetResource(ctx, req.Resource)
	if err != nil {
		return domain.Booking{}, err
	}

	total := computePrice(res, checkIn, checkOut, req.StartTime, req.EndTime)

	now := s.now()
	b := domain.Booking{
		GuestID:        req.GuestID,
		Resource:       res.Ref(),
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentUnpaid,
		TotalPrice:     total,
		ValidIDURL:     req.ValidIDURL,
		SpecialRequest: req.SpecialRequest,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	id, err := s.bookings.CreateBooking(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}
	b.ID = id
	return b, nil
}

// computePrice is nights x price for rooms, hours x price for venue
// bookings carrying both times. Nil when the duration cannot be derived;
// staff fill the price in later.
func computePrice(res domain.Resource, checkIn, checkOut time.Time, startTime, endTime *string) *decimal.Decimal {
	if res.Kind == domain.KindRoom {
		nights := int(checkOut.Sub(checkIn).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		v := res.Price.Mul(decimal.NewFromInt(int64(nights)))
		return &v
	}
	if startTime == nil || endTime == nil {
		return nil
	}
	st, err1 := time.Parse(timeLayout, *startTime)
	et, err2 := time.Parse(timeLayout, *endTime)
	if err1 != nil || err2 != nil || !et.After(st) {
		return nil
	}
	hours := decimal.NewFromFloat(et.Sub(st).Hours())
	v := res.Price.Mul(hours)
	return &v
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx)
}

func (s *BookingService) ListGuestBookings(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	return s.bookings.ListBookingsByGuest(ctx, guestID)
}

// Cancel is the guest-facing cancellation flow. Unlike the admin status
// update it requires a non-empty reason and enforces ownership.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64, actor domain.Actor, reason string) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.GuestID != actor.UserID && !actor.Role.IsStaff() {
		return domain.Booking{}, domain.Forbiddenf("you can only cancel your own bookings")
	}
	if !b.IsCancellable() {
		return domain.Booking{}, domain.Conflictf("cannot cancel booking with status: %s", b.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return domain.Booking{}, domain.Invalidf("a cancellation reason is required")
	}

	prev := b.Status
	t := s.now()
	b.Status = domain.StatusCancelled
	b.CancellationDate = &t
	b.CancellationReason = &reason
	b.UpdatedAt = t

	if err := s.bookings.CommitTransition(ctx, b, resourceWrite(prev, domain.StatusCancelled, nil)); err != nil {
		return domain.Booking{}, err
	}
	s.invalidateListings(ctx)
	return b, nil
}

// DeleteBooking removes a booking record outright. Records that reached
// check-in are part of the stay history and stay put.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID int64, actor domain.Actor) error {
	if !actor.Role.IsStaff() {
		return domain.Forbiddenf("only staff or admin may delete bookings")
	}
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.Status == domain.StatusCheckedIn || b.Status == domain.StatusCheckedOut {
		return domain.Conflictf("cannot delete booking with status: %s", b.Status)
	}
	return s.bookings.DeleteBooking(ctx, bookingID)
}

// CreateReview records post-stay feedback. Only the guest who stayed may
// review, only after check-out, at most once per booking.
func (s *BookingService) CreateReview(ctx context.Context, bookingID int64, actor domain.Actor, rating int, text string) (domain.Review, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Review{}, err
	}
	if b.GuestID != actor.UserID {
		return domain.Review{}, domain.Forbiddenf("you can only review your own bookings")
	}
	if b.Status != domain.StatusCheckedOut {
		return domain.Review{}, domain.Conflictf("booking is only reviewable after check-out")
	}
	if rating < 1 || rating > 5 {
		return domain.Review{}, domain.Invalidf("rating must be between 1 and 5")
	}
	exists, err := s.reviews.HasReview(ctx, bookingID)
	if err != nil {
		return domain.Review{}, err
	}
	if exists {
		return domain.Review{}, domain.Conflictf("booking already has a review")
	}

	r := domain.Review{
		BookingID: bookingID,
		UserID:    actor.UserID,
		Rating:    rating,
		Text:      text,
		CreatedAt: s.now(),
	}
	id, err := s.reviews.CreateReview(ctx, r)
	if err != nil {
		return domain.Review{}, err
	}
	r.ID = id
	return r, nil
}

func parseDateRange(arrival, departure string) (time.Time, time.Time, error) {
	if arrival == "" || departure == "" {
		return time.Time{}, time.Time{}, domain.Invalidf("please provide both arrival and departure dates")
	}
	a, err := time.Parse(dateLayout, arrival)
	if err != nil {
		return time.Time{}, time.Time{}, domain.Invalidf("invalid date format, use YYYY-MM-DD")
	}
	d, err := time.Parse(dateLayout, departure)
	if err != nil {
		return time.Time{}, time.Time{}, domain.Invalidf("invalid date format, use YYYY-MM-DD")
	}
	if !d.After(a) {
		return time.Time{}, time.Time{}, domain.Invalidf("departure date should be greater than arrival date")
	}
	return a, d, nil
}

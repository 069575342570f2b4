package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"azurea_hotel/internal/adapters/observability"
	"azurea_hotel/internal/domain"
)

const defaultRejectionReason = "Rejected by admin/staff"

// notifyTimeout bounds the post-commit mail attempt. A slow relay is a
// delivery failure, not a transition failure.
const notifyTimeout = 10 * time.Second

type BookingService struct {
	bookings  domain.BookingStore
	resources domain.ResourceStore
	users     domain.UserStore
	reviews   domain.ReviewStore
	notifier  domain.Notifier
	cache     domain.Cache
	now       func() time.Time
}

func NewBookingService(
	b domain.BookingStore,
	r domain.ResourceStore,
	u domain.UserStore,
	rv domain.ReviewStore,
	n domain.Notifier,
	c domain.Cache,
) *BookingService {
	return &BookingService{bookings: b, resources: r, users: u, reviews: rv, notifier: n, cache: c, now: time.Now}
}

type TransitionOptions struct {
	Reason       string
	SetAvailable *bool // explicit override: force the resource back to available
}

type TransitionResult struct {
	Booking domain.Booking
	Message string
}

// Transition moves a booking to requestedStatus, writing the implied
// resource status through in the same database transaction and sending
// confirmation/rejection mail after commit.
func (s *BookingService) Transition(ctx context.Context, bookingID int64, requestedStatus string, actor domain.Actor, opts TransitionOptions) (TransitionResult, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return TransitionResult{}, err
	}

	next, ok := domain.NormalizeStatus(requestedStatus)
	if !ok {
		return TransitionResult{}, domain.InvalidValues(statusStrings(),
			"invalid status: %s", requestedStatus)
	}

	if !actor.Role.IsStaff() {
		return TransitionResult{}, domain.Forbiddenf("only staff or admin may update booking status")
	}

	prev := b.Status
	if next == prev && opts.SetAvailable == nil {
		// Repeating an accepted transition is a no-op: no resource write,
		// no duplicate notification.
		return TransitionResult{Booking: b, Message: statusMessage(next)}, nil
	}

	switch next {
	case domain.StatusRejected:
		reason := opts.Reason
		if reason == "" {
			reason = defaultRejectionReason
		}
		t := s.now()
		b.CancellationDate = &t
		b.CancellationReason = &reason
	case domain.StatusCancelled:
		// Same precondition as the guest path: once the stay is underway
		// or the booking already reached a terminal state, cancellation
		// is off the table.
		if !b.IsCancellable() {
			return TransitionResult{}, domain.Conflictf("cannot cancel booking with status: %s", prev)
		}
		reason := opts.Reason
		if reason == "" {
			reason = "Cancelled by admin/staff"
		}
		t := s.now()
		b.CancellationDate = &t
		b.CancellationReason = &reason
	}

	b.Status = next
	b.UpdatedAt = s.now()

	resStatus := resourceWrite(prev, next, opts.SetAvailable)
	if err := s.bookings.CommitTransition(ctx, b, resStatus); err != nil {
		observability.ObserveTransition(string(prev), string(next), "error")
		return TransitionResult{}, err
	}
	observability.ObserveTransition(string(prev), string(next), "ok")

	s.invalidateListings(ctx)

	// Committed state is durable; mail runs after and never unwinds it.
	switch {
	case next == domain.StatusReserved && prev != domain.StatusReserved:
		s.notify(ctx, b, "confirmation", "")
	case next == domain.StatusRejected && prev != domain.StatusRejected:
		s.notify(ctx, b, "rejection", derefStr(b.CancellationReason))
	}

	return TransitionResult{Booking: b, Message: statusMessage(next)}, nil
}

func (s *BookingService) notify(ctx context.Context, b domain.Booking, kind, reason string) {
	snap, err := s.snapshot(ctx, b)
	if err != nil {
		observability.ObserveNotification(kind, "error")
		log.Error().Err(err).Int64("booking_id", b.ID).Msg("build booking snapshot failed")
		return
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	switch kind {
	case "confirmation":
		err = s.notifier.SendConfirmation(nctx, snap)
	case "rejection":
		err = s.notifier.SendRejection(nctx, snap, reason)
	}
	if err != nil {
		observability.ObserveNotification(kind, "error")
		log.Error().Err(err).Int64("booking_id", b.ID).Str("kind", kind).Msg("booking mail failed")
		return
	}
	observability.ObserveNotification(kind, "ok")
}

// resourceWrite is the deterministic booking-status → resource-status
// mapping. nil means the transition implies no resource write.
func resourceWrite(prev, next domain.BookingStatus, setAvailable *bool) *domain.ResourceStatus {
	var out *domain.ResourceStatus
	switch next {
	case domain.StatusReserved, domain.StatusConfirmed:
		out = rs(domain.ResourceReserved)
	case domain.StatusCheckedIn:
		out = rs(domain.ResourceOccupied)
	case domain.StatusCheckedOut, domain.StatusMissed:
		out = rs(domain.ResourceAvailable)
	case domain.StatusCancelled, domain.StatusRejected:
		// Pending bookings never held the resource; nothing to release.
		if prev != domain.StatusPending {
			out = rs(domain.ResourceAvailable)
		}
	}
	if setAvailable != nil && *setAvailable {
		out = rs(domain.ResourceAvailable)
	}
	return out
}

func (s *BookingService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, key := range []string{availabilityKey, statsKey} {
		_ = s.cache.Del(ctx, key)
	}
}

func rs(v domain.ResourceStatus) *domain.ResourceStatus { return &v }

func statusMessage(st domain.BookingStatus) string {
	return fmt.Sprintf("Booking status updated to %s", st)
}

func statusStrings() []string {
	out := make([]string, 0, len(domain.ValidStatuses)+1)
	for _, v := range domain.ValidStatuses {
		out = append(out, string(v))
	}
	out = append(out, "no_show")
	return out
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

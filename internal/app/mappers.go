package app

import (
	"context"

	"azurea_hotel/internal/domain"
)

const dateLayout = "2006-01-02"

// snapshot flattens a booking with its guest and property into the view the
// mail templates render.
func (s *BookingService) snapshot(ctx context.Context, b domain.Booking) (domain.BookingSnapshot, error) {
	u, err := s.users.GetUser(ctx, b.GuestID)
	if err != nil {
		return domain.BookingSnapshot{}, err
	}
	res, err := s.resources.GetResource(ctx, b.Resource)
	if err != nil {
		return domain.BookingSnapshot{}, err
	}

	propertyType := "Room"
	if b.IsVenue() {
		propertyType = "Venue"
	}
	return domain.BookingSnapshot{
		BookingID:    b.ID,
		GuestName:    u.FullName(),
		GuestEmail:   u.Email,
		PropertyType: propertyType,
		PropertyName: res.Name,
		CheckIn:      b.CheckInDate.Format(dateLayout),
		CheckOut:     b.CheckOutDate.Format(dateLayout),
		Status:       string(b.Status),
	}, nil
}

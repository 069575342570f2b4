package domain

import "time"

// Review is post-stay feedback, one per booking, permitted only once the
// booking is checked_out.
type Review struct {
	ID        int64
	BookingID int64
	UserID    int64
	Rating    int // 1..5
	Text      string
	CreatedAt time.Time
}

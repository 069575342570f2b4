package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"azurea_hotel/internal/domain"
)

const (
	availabilityKey = "availability:v1"
	statsKey        = "dashboard:stats:v1"
)

type QueryService struct {
	bookings     domain.BookingStore
	resources    domain.ResourceStore
	transactions domain.TransactionStore
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewQueryService(b domain.BookingStore, r domain.ResourceStore, t domain.TransactionStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{bookings: b, resources: r, transactions: t, cache: c, cacheTTL: ttl}
}

// Availability is a snapshot of resources currently in status available.
// It is not an interval-overlap search against existing bookings; the date
// range is validated and echoed back only.
type Availability struct {
	Arrival   string
	Departure string
	Rooms     []domain.Resource
	Areas     []domain.Resource
}

func (s *QueryService) CheckAvailability(ctx context.Context, arrival, departure string) (Availability, error) {
	if _, _, err := parseDateRange(arrival, departure); err != nil {
		return Availability{}, err
	}

	out := Availability{Arrival: arrival, Departure: departure}
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, availabilityKey, &out); ok {
			out.Arrival, out.Departure = arrival, departure
			return out, nil
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rooms, err := s.resources.ListByStatus(gctx, domain.KindRoom, domain.ResourceAvailable)
		out.Rooms = rooms
		return err
	})
	g.Go(func() error {
		areas, err := s.resources.ListByStatus(gctx, domain.KindArea, domain.ResourceAvailable)
		out.Areas = areas
		return err
	})
	if err := g.Wait(); err != nil {
		return Availability{}, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, availabilityKey, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// DashboardStats mirrors the admin landing page counters.
type DashboardStats struct {
	ActiveBookings   int
	AvailableRooms   int
	OccupiedRooms    int
	MaintenanceRooms int
	Revenue          string // total completed revenue, 2dp
}

func (s *QueryService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, statsKey, &st); ok {
			return st, nil
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.bookings.CountByStatuses(gctx, domain.StatusConfirmed, domain.StatusCheckedIn)
		st.ActiveBookings = n
		return err
	})
	g.Go(func() error {
		n, err := s.resources.CountByStatus(gctx, domain.KindRoom, domain.ResourceAvailable)
		st.AvailableRooms = n
		return err
	})
	g.Go(func() error {
		n, err := s.resources.CountByStatus(gctx, domain.KindRoom, domain.ResourceOccupied)
		st.OccupiedRooms = n
		return err
	})
	g.Go(func() error {
		n, err := s.resources.CountByStatus(gctx, domain.KindRoom, domain.ResourceMaintenance)
		st.MaintenanceRooms = n
		return err
	})
	g.Go(func() error {
		// All-time revenue for the landing page; period reports go through
		// PaymentService.ComputeRevenue.
		rev, err := s.transactions.RevenueBetween(gctx, time.Time{}, farFuture())
		if err != nil {
			return err
		}
		st.Revenue = rev.Total.StringFixed(2)
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, statsKey, st, int(s.cacheTTL.Seconds()))
	}
	return st, nil
}

func farFuture() time.Time {
	return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
}

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

func TestCheckAvailability_DateValidation(t *testing.T) {
	svc := app.NewQueryService(newFakeBookings(), newFakeResources(), &fakeTransactions{}, &fakeCache{}, time.Minute)
	ctx := context.Background()

	cases := []struct {
		name               string
		arrival, departure string
	}{
		{"missing both", "", ""},
		{"missing departure", "2025-01-05", ""},
		{"bad format", "Jan 5 2025", "2025-01-10"},
		{"inverted", "2025-01-10", "2025-01-05"},
		{"same day", "2025-01-05", "2025-01-05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckAvailability(ctx, tc.arrival, tc.departure)
			if !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected invalid, got %v", err)
			}
		})
	}
}

func TestCheckAvailability_SnapshotAndCache(t *testing.T) {
	available := fixtureRoom()
	occupied := fixtureRoom()
	occupied.ID = 12
	occupied.Status = domain.ResourceOccupied
	venue := domain.Resource{
		ID: 31, Kind: domain.KindArea, Name: "Garden Pavilion",
		Capacity: 80, Price: decimal.NewFromInt(200), Status: domain.ResourceAvailable,
	}
	res := newFakeResources(available, occupied, venue)
	cache := &fakeCache{}
	svc := app.NewQueryService(newFakeBookings(), res, &fakeTransactions{}, cache, time.Minute)
	ctx := context.Background()

	out, err := svc.CheckAvailability(ctx, "2025-01-05", "2025-01-10")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(out.Rooms) != 1 || out.Rooms[0].ID != 11 {
		t.Fatalf("only the available room should list: %+v", out.Rooms)
	}
	if len(out.Areas) != 1 || out.Areas[0].ID != 31 {
		t.Fatalf("venue missing: %+v", out.Areas)
	}
	if out.Arrival != "2025-01-05" || out.Departure != "2025-01-10" {
		t.Fatalf("dates not echoed")
	}

	// Make the room occupied; the cached snapshot still serves
	held := available
	held.Status = domain.ResourceReserved
	res.byRef[held.Ref()] = held

	out2, err := svc.CheckAvailability(ctx, "2025-02-01", "2025-02-03")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(out2.Rooms) != 1 {
		t.Fatalf("expected cached room list, got %+v", out2.Rooms)
	}
	// The requested dates win over the cached ones
	if out2.Arrival != "2025-02-01" || out2.Departure != "2025-02-03" {
		t.Fatalf("cached dates leaked: %s / %s", out2.Arrival, out2.Departure)
	}
}

func TestQueries_NoCacheConfigured(t *testing.T) {
	res := newFakeResources(fixtureRoom())
	bk := newFakeBookings(fixtureBooking(1, domain.StatusConfirmed))
	svc := app.NewQueryService(bk, res, &fakeTransactions{}, nil, time.Minute)
	ctx := context.Background()

	out, err := svc.CheckAvailability(ctx, "2025-01-05", "2025-01-10")
	if err != nil {
		t.Fatalf("availability without cache: %v", err)
	}
	if len(out.Rooms) != 1 {
		t.Fatalf("expected the available room: %+v", out.Rooms)
	}

	st, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats without cache: %v", err)
	}
	if st.ActiveBookings != 1 {
		t.Fatalf("active = %d, want 1", st.ActiveBookings)
	}
}

func TestDashboardStats(t *testing.T) {
	bk := newFakeBookings(
		fixtureBooking(1, domain.StatusConfirmed),
		fixtureBooking(2, domain.StatusCheckedIn),
		fixtureBooking(3, domain.StatusPending),
		fixtureBooking(4, domain.StatusCancelled),
	)

	free := fixtureRoom()
	busy := fixtureRoom()
	busy.ID = 12
	busy.Status = domain.ResourceOccupied
	down := fixtureRoom()
	down.ID = 13
	down.Status = domain.ResourceMaintenance
	res := newFakeResources(free, busy, down)

	tr := &fakeTransactions{revenue: domain.RevenueSummary{Total: decimal.RequireFromString("1234.50")}}
	svc := app.NewQueryService(bk, res, tr, &fakeCache{}, time.Minute)

	st, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.ActiveBookings != 2 {
		t.Fatalf("active = %d, want 2 (confirmed + checked_in)", st.ActiveBookings)
	}
	if st.AvailableRooms != 1 || st.OccupiedRooms != 1 || st.MaintenanceRooms != 1 {
		t.Fatalf("room counters wrong: %+v", st)
	}
	if st.Revenue != "1234.50" {
		t.Fatalf("revenue = %s", st.Revenue)
	}
}

func TestDashboardStats_Cached(t *testing.T) {
	bk := newFakeBookings(fixtureBooking(1, domain.StatusConfirmed))
	res := newFakeResources(fixtureRoom())
	tr := &fakeTransactions{}
	cache := &fakeCache{}
	svc := app.NewQueryService(bk, res, tr, cache, time.Minute)
	ctx := context.Background()

	first, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	// New booking lands; the cached counters still serve until invalidation
	bk.byID[9] = fixtureBooking(9, domain.StatusConfirmed)

	second, err := svc.DashboardStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if second.ActiveBookings != first.ActiveBookings {
		t.Fatalf("expected cached stats, got %+v", second)
	}
}

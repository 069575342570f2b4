//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"

	"azurea_hotel/internal/domain"
	mysqlrepo "azurea_hotel/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string { return &s }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=azurea",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/azurea?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------
func TestRepo_MySQL_BookingLifecycle(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// guest
	guestID, err := repo.CreateUser(ctx, domain.User{
		Email: "amira@example.com", FirstName: "Amira", LastName: "Khalil",
		PasswordHash: "x", Role: domain.RoleGuest,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// amenities + room
	wifiID, err := repo.CreateAmenity(ctx, "wifi")
	if err != nil {
		t.Fatalf("CreateAmenity: %v", err)
	}
	acID, err := repo.CreateAmenity(ctx, "air conditioning")
	if err != nil {
		t.Fatalf("CreateAmenity: %v", err)
	}
	roomID, err := repo.CreateResource(ctx, domain.Resource{
		Kind: domain.KindRoom, Name: "Deluxe 101", RoomType: pstr("deluxe"),
		Capacity: 2, Price: decimal.NewFromInt(150),
		Status: domain.ResourceAvailable, AmenityIDs: []int64{wifiID, acID},
	})
	if err != nil {
		t.Fatalf("CreateResource room: %v", err)
	}
	areaID, err := repo.CreateResource(ctx, domain.Resource{
		Kind: domain.KindArea, Name: "Garden Pavilion",
		Capacity: 80, Price: decimal.NewFromInt(200),
		Status: domain.ResourceAvailable,
	})
	if err != nil {
		t.Fatalf("CreateResource area: %v", err)
	}

	room, err := repo.GetResource(ctx, domain.ResourceRef{Kind: domain.KindRoom, ID: roomID})
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if len(room.AmenityIDs) != 2 {
		t.Fatalf("amenity join not round-tripped: %+v", room.AmenityIDs)
	}

	// booking
	now := time.Now().UTC().Truncate(time.Second)
	total := decimal.RequireFromString("450.00")
	bookingID, err := repo.CreateBooking(ctx, domain.Booking{
		GuestID:      guestID,
		Resource:     domain.ResourceRef{Kind: domain.KindRoom, ID: roomID},
		CheckInDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
		Status:       domain.StatusPending, PaymentStatus: domain.PaymentUnpaid,
		TotalPrice: &total, ValidIDURL: "https://files.example/id/1.png",
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	b, err := repo.GetBooking(ctx, bookingID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if b.Resource.Kind != domain.KindRoom || b.Resource.ID != roomID {
		t.Fatalf("resource ref not round-tripped: %+v", b.Resource)
	}
	if b.TotalPrice == nil || b.TotalPrice.StringFixed(2) != "450.00" {
		t.Fatalf("total price not round-tripped: %v", b.TotalPrice)
	}

	// transition booking + room atomically
	b.Status = domain.StatusReserved
	b.UpdatedAt = now.Add(time.Minute)
	reserved := domain.ResourceReserved
	if err := repo.CommitTransition(ctx, b, &reserved); err != nil {
		t.Fatalf("CommitTransition: %v", err)
	}

	b2, _ := repo.GetBooking(ctx, bookingID)
	if b2.Status != domain.StatusReserved {
		t.Fatalf("booking status = %s", b2.Status)
	}
	room2, _ := repo.GetResource(ctx, domain.ResourceRef{Kind: domain.KindRoom, ID: roomID})
	if room2.Status != domain.ResourceReserved {
		t.Fatalf("room status = %s, want reserved", room2.Status)
	}

	n, err := repo.ActiveBookingCount(ctx, domain.ResourceRef{Kind: domain.KindRoom, ID: roomID})
	if err != nil || n != 1 {
		t.Fatalf("ActiveBookingCount = %d, %v", n, err)
	}
	if c, _ := repo.CountByStatuses(ctx, domain.StatusReserved, domain.StatusCheckedIn); c != 1 {
		t.Fatalf("CountByStatuses = %d", c)
	}

	// payment flips payment_status and lands in the ledger
	amount := decimal.RequireFromString("450.00")
	txID, err := repo.CommitPayment(ctx, domain.Transaction{
		BookingID: &bookingID, UserID: guestID,
		Type: domain.TxBooking, Amount: amount,
		Status: domain.TxCompleted, TransactionDate: time.Now().UTC(),
	})
	if err != nil || txID == 0 {
		t.Fatalf("CommitPayment: id=%d err=%v", txID, err)
	}
	b3, _ := repo.GetBooking(ctx, bookingID)
	if b3.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("payment status = %s, want paid", b3.PaymentStatus)
	}

	dup, err := repo.HasRecentCompleted(ctx, bookingID, amount, 2*time.Minute)
	if err != nil || !dup {
		t.Fatalf("HasRecentCompleted = %v, %v", dup, err)
	}
	if miss, _ := repo.HasRecentCompleted(ctx, bookingID, decimal.NewFromInt(1), 2*time.Minute); miss {
		t.Fatalf("different amount must not count as duplicate")
	}

	// revenue partitions by resource kind
	rev, err := repo.RevenueBetween(ctx, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RevenueBetween: %v", err)
	}
	if rev.Total.StringFixed(2) != "450.00" || rev.RoomRevenue.StringFixed(2) != "450.00" {
		t.Fatalf("revenue = %+v", rev)
	}
	if !rev.VenueRevenue.IsZero() {
		t.Fatalf("venue revenue should be zero, got %s", rev.VenueRevenue)
	}

	// listings
	rooms, err := repo.ListByStatus(ctx, domain.KindRoom, domain.ResourceAvailable)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("reserved room must not list as available")
	}
	areas, _ := repo.ListByStatus(ctx, domain.KindArea, domain.ResourceAvailable)
	if len(areas) != 1 || areas[0].ID != areaID {
		t.Fatalf("area listing wrong: %+v", areas)
	}

	// reviews
	if _, err := repo.CreateReview(ctx, domain.Review{
		BookingID: bookingID, UserID: guestID, Rating: 5,
		Text: "spotless", CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	has, _ := repo.HasReview(ctx, bookingID)
	if !has {
		t.Fatalf("HasReview should be true")
	}

	// amenity pagination
	page, err := repo.ListAmenities(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListAmenities: %v", err)
	}
	if page.Total != 2 || page.Pages != 2 || len(page.Items) != 1 {
		t.Fatalf("pagination wrong: %+v", page)
	}
}

package mysql

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"azurea_hotel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func valDec(p *decimal.Decimal) any {
	if p == nil {
		return nil
	}
	return p.StringFixed(2)
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time
	return &v
}

func decPtr(n sql.NullString) (*decimal.Decimal, error) {
	if !n.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(n.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseIDList turns a GROUP_CONCAT result ("3,7,12") into ids.
func parseIDList(n sql.NullString) []int64 {
	if !n.Valid || n.String == "" {
		return nil
	}
	parts := strings.Split(n.String, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err == nil {
			out = append(out, id)
		}
	}
	return out
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---------------------------------------------------------------------------
// BookingStore
// ---------------------------------------------------------------------------

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.GuestID,
		string(b.Resource.Kind),
		b.Resource.ID,
		b.CheckInDate,
		b.CheckOutDate,
		valStr(b.StartTime),
		valStr(b.EndTime),
		string(b.Status),
		string(b.PaymentStatus),
		valDec(b.TotalPrice),
		b.ValidIDURL,
		valStr(b.SpecialRequest),
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	var kind string
	var startTime, endTime, totalPrice, specialReq, cancelReason sql.NullString
	var cancelDate sql.NullTime

	err := row.Scan(
		&b.ID, &b.GuestID, &kind, &b.Resource.ID,
		&b.CheckInDate, &b.CheckOutDate,
		&startTime, &endTime,
		&b.Status, &b.PaymentStatus,
		&totalPrice, &b.ValidIDURL,
		&specialReq, &cancelDate, &cancelReason,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	b.Resource.Kind = domain.ResourceKind(kind)
	b.StartTime = strPtr(startTime)
	b.EndTime = strPtr(endTime)
	b.SpecialRequest = strPtr(specialReq)
	b.CancellationDate = timePtr(cancelDate)
	b.CancellationReason = strPtr(cancelReason)
	if b.TotalPrice, err = decPtr(totalPrice); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.NotFoundf("booking %d not found", id)
	}
	return b, err
}

func (r *Repo) listBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return r.listBookings(ctx, listBookingsSQL)
}

func (r *Repo) ListBookingsByGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	return r.listBookings(ctx, listBookingsByGuestSQL, guestID)
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundf("booking %d not found", id)
	}
	return nil
}

// CommitTransition writes the booking's lifecycle fields and, when
// resStatus is set, the resource's occupancy status in one transaction.
func (r *Repo) CommitTransition(ctx context.Context, b domain.Booking, resStatus *domain.ResourceStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, updateBookingStatusSQL,
		string(b.Status),
		string(b.PaymentStatus),
		valDec(b.TotalPrice),
		valTime(b.CancellationDate),
		valStr(b.CancellationReason),
		b.UpdatedAt,
		b.ID,
	); err != nil {
		return err
	}

	if resStatus != nil {
		stmt := updateRoomStatusSQL
		if b.Resource.Kind == domain.KindArea {
			stmt = updateAreaStatusSQL
		}
		if _, err := tx.ExecContext(ctx, stmt, string(*resStatus), b.Resource.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) ActiveBookingCount(ctx context.Context, ref domain.ResourceRef) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, activeBookingCountSQL, string(ref.Kind), ref.ID).Scan(&n)
	return n, err
}

func (r *Repo) CountByStatuses(ctx context.Context, statuses ...domain.BookingStatus) (int, error) {
	if len(statuses) == 0 {
		return 0, nil
	}
	ph := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, st := range statuses {
		ph[i] = "?"
		args[i] = string(st)
	}
	query := countByStatusesPrefix + "(" + strings.Join(ph, ",") + ")"
	var n int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// ResourceStore
// ---------------------------------------------------------------------------

func (r *Repo) CreateResource(ctx context.Context, res domain.Resource) (int64, error) {
	if res.Kind == domain.KindArea {
		out, err := r.db.ExecContext(ctx, insertAreaSQL,
			res.Name, res.Capacity, res.Price.StringFixed(2),
			string(res.Status), valStr(res.Description), valStr(res.ImageURL),
		)
		if err != nil {
			return 0, err
		}
		return out.LastInsertId()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	out, err := tx.ExecContext(ctx, insertRoomSQL,
		res.Name, valStr(res.RoomType), res.Capacity, res.Price.StringFixed(2),
		string(res.Status), valStr(res.Description), valStr(res.ImageURL),
	)
	if err != nil {
		return 0, err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, aid := range res.AmenityIDs {
		if _, err := tx.ExecContext(ctx, insertRoomAmenitySQL, id, aid); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

func scanRoom(row interface{ Scan(...any) error }) (domain.Resource, error) {
	var res domain.Resource
	var roomType, price, desc, img, amenityIDs sql.NullString

	err := row.Scan(&res.ID, &res.Name, &roomType, &res.Capacity, &price,
		&res.Status, &desc, &img, &amenityIDs)
	if err != nil {
		return domain.Resource{}, err
	}
	res.Kind = domain.KindRoom
	res.RoomType = strPtr(roomType)
	res.Description = strPtr(desc)
	res.ImageURL = strPtr(img)
	res.AmenityIDs = parseIDList(amenityIDs)
	if price.Valid {
		if res.Price, err = decimal.NewFromString(price.String); err != nil {
			return domain.Resource{}, err
		}
	}
	return res, nil
}

func scanArea(row interface{ Scan(...any) error }) (domain.Resource, error) {
	var res domain.Resource
	var price, desc, img sql.NullString

	err := row.Scan(&res.ID, &res.Name, &res.Capacity, &price, &res.Status, &desc, &img)
	if err != nil {
		return domain.Resource{}, err
	}
	res.Kind = domain.KindArea
	res.Description = strPtr(desc)
	res.ImageURL = strPtr(img)
	if price.Valid {
		if res.Price, err = decimal.NewFromString(price.String); err != nil {
			return domain.Resource{}, err
		}
	}
	return res, nil
}

func (r *Repo) GetResource(ctx context.Context, ref domain.ResourceRef) (domain.Resource, error) {
	var res domain.Resource
	var err error
	if ref.Kind == domain.KindArea {
		res, err = scanArea(r.db.QueryRowContext(ctx, getAreaSQL, ref.ID))
	} else {
		res, err = scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, ref.ID))
	}
	if err == sql.ErrNoRows {
		return domain.Resource{}, domain.NotFoundf("%s %d not found", ref.Kind, ref.ID)
	}
	return res, err
}

func (r *Repo) listResources(ctx context.Context, kind domain.ResourceKind, query string, args ...any) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Resource
	for rows.Next() {
		var res domain.Resource
		if kind == domain.KindArea {
			res, err = scanArea(rows)
		} else {
			res, err = scanRoom(rows)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repo) ListResources(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	if kind == domain.KindArea {
		return r.listResources(ctx, kind, listAreasSQL)
	}
	return r.listResources(ctx, kind, listRoomsSQL)
}

func (r *Repo) ListByStatus(ctx context.Context, kind domain.ResourceKind, st domain.ResourceStatus) ([]domain.Resource, error) {
	if kind == domain.KindArea {
		return r.listResources(ctx, kind, listAreasByStatusSQL, string(st))
	}
	return r.listResources(ctx, kind, listRoomsByStatusSQL, string(st))
}

func (r *Repo) CountByStatus(ctx context.Context, kind domain.ResourceKind, st domain.ResourceStatus) (int, error) {
	query := countRoomsByStatusSQL
	if kind == domain.KindArea {
		query = countAreasByStatusSQL
	}
	var n int
	err := r.db.QueryRowContext(ctx, query, string(st)).Scan(&n)
	return n, err
}

func (r *Repo) UpdateResource(ctx context.Context, res domain.Resource) error {
	if res.Kind == domain.KindArea {
		out, err := r.db.ExecContext(ctx, updateAreaSQL,
			res.Name, res.Capacity, res.Price.StringFixed(2),
			string(res.Status), valStr(res.Description), valStr(res.ImageURL), res.ID,
		)
		if err != nil {
			return err
		}
		if n, _ := out.RowsAffected(); n == 0 {
			return domain.NotFoundf("area %d not found", res.ID)
		}
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, updateRoomSQL,
		res.Name, valStr(res.RoomType), res.Capacity, res.Price.StringFixed(2),
		string(res.Status), valStr(res.Description), valStr(res.ImageURL), res.ID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteRoomAmenitiesSQL, res.ID); err != nil {
		return err
	}
	for _, aid := range res.AmenityIDs {
		if _, err := tx.ExecContext(ctx, insertRoomAmenitySQL, res.ID, aid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) DeleteResource(ctx context.Context, ref domain.ResourceRef) error {
	stmt := deleteRoomSQL
	if ref.Kind == domain.KindArea {
		stmt = deleteAreaSQL
	}
	out, err := r.db.ExecContext(ctx, stmt, ref.ID)
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundf("%s %d not found", ref.Kind, ref.ID)
	}
	return nil
}

// ---- amenities ----

func (r *Repo) CreateAmenity(ctx context.Context, description string) (int64, error) {
	out, err := r.db.ExecContext(ctx, insertAmenitySQL, description)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

func (r *Repo) GetAmenity(ctx context.Context, id int64) (domain.Amenity, error) {
	var a domain.Amenity
	err := r.db.QueryRowContext(ctx, getAmenitySQL, id).Scan(&a.ID, &a.Description)
	if err == sql.ErrNoRows {
		return domain.Amenity{}, domain.NotFoundf("amenity %d not found", id)
	}
	return a, err
}

func (r *Repo) ListAmenities(ctx context.Context, page, pageSize int) (domain.AmenitiesPage, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countAmenitiesSQL).Scan(&total); err != nil {
		return domain.AmenitiesPage{}, err
	}

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, listAmenitiesSQL, pageSize, offset)
	if err != nil {
		return domain.AmenitiesPage{}, err
	}
	defer rows.Close()

	out := domain.AmenitiesPage{Page: page, Total: total}
	out.Pages = (total + pageSize - 1) / pageSize
	if out.Pages == 0 {
		out.Pages = 1
	}
	for rows.Next() {
		var a domain.Amenity
		if err := rows.Scan(&a.ID, &a.Description); err != nil {
			return domain.AmenitiesPage{}, err
		}
		out.Items = append(out.Items, a)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateAmenity(ctx context.Context, a domain.Amenity) error {
	out, err := r.db.ExecContext(ctx, updateAmenitySQL, a.Description, a.ID)
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundf("amenity %d not found", a.ID)
	}
	return nil
}

func (r *Repo) DeleteAmenity(ctx context.Context, id int64) error {
	out, err := r.db.ExecContext(ctx, deleteAmenitySQL, id)
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundf("amenity %d not found", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// TransactionStore
// ---------------------------------------------------------------------------

// CommitPayment appends the ledger row and flips the linked booking to paid
// in one transaction.
func (r *Repo) CommitPayment(ctx context.Context, t domain.Transaction) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	out, err := tx.ExecContext(ctx, insertTransactionSQL,
		valInt64(t.BookingID),
		valInt64(t.ReservationID),
		t.UserID,
		string(t.Type),
		t.Amount.StringFixed(2),
		string(t.Status),
		t.TransactionDate,
	)
	if err != nil {
		return 0, err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, err
	}

	if t.BookingID != nil {
		if _, err := tx.ExecContext(ctx, markBookingPaidSQL, t.TransactionDate, *t.BookingID); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

func (r *Repo) HasRecentCompleted(ctx context.Context, bookingID int64, amount decimal.Decimal, window time.Duration) (bool, error) {
	cutoff := time.Now().Add(-window)
	var n int
	err := r.db.QueryRowContext(ctx, recentCompletedSQL, bookingID, amount.StringFixed(2), cutoff).Scan(&n)
	return n > 0, err
}

func (r *Repo) RevenueBetween(ctx context.Context, from, to time.Time) (domain.RevenueSummary, error) {
	var total, room, venue string
	err := r.db.QueryRowContext(ctx, revenueSQL, from, to).Scan(&total, &room, &venue)
	if err != nil {
		return domain.RevenueSummary{}, err
	}

	var out domain.RevenueSummary
	if out.Total, err = decimal.NewFromString(total); err != nil {
		return domain.RevenueSummary{}, err
	}
	if out.RoomRevenue, err = decimal.NewFromString(room); err != nil {
		return domain.RevenueSummary{}, err
	}
	if out.VenueRevenue, err = decimal.NewFromString(venue); err != nil {
		return domain.RevenueSummary{}, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// UserStore
// ---------------------------------------------------------------------------

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	out, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, string(u.Role))
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.Archived, &u.CreatedAt)
	return u, err
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserSQL, id))
	if err == sql.ErrNoRows {
		return domain.User{}, domain.NotFoundf("user %d not found", id)
	}
	return u, err
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, getUserByEmailSQL, email))
	if err == sql.ErrNoRows {
		return domain.User{}, domain.NotFoundf("user not found")
	}
	return u, err
}

func (r *Repo) ListStaff(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, listStaffSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) error {
	out, err := r.db.ExecContext(ctx, updateUserSQL,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, string(u.Role), u.ID)
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundf("user %d not found", u.ID)
	}
	return nil
}

func (r *Repo) ArchiveStaff(ctx context.Context, id int64) error {
	out, err := r.db.ExecContext(ctx, archiveStaffSQL, id)
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundf("user %d not found", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// ReviewStore
// ---------------------------------------------------------------------------

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (int64, error) {
	out, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.BookingID, rv.UserID, rv.Rating, rv.Text, rv.CreatedAt)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

func (r *Repo) HasReview(ctx context.Context, bookingID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, hasReviewSQL, bookingID).Scan(&n)
	return n > 0, err
}

func (r *Repo) ListReviews(ctx context.Context, bookingID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.UserID, &rv.Rating, &rv.Text, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

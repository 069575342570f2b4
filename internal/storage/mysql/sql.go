package mysql

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users (email, first_name, last_name, password_hash, role)
VALUES (?, ?, ?, ?, ?)
`

const userCols = `id, email, first_name, last_name, password_hash, role, archived, created_at`

const getUserSQL = `SELECT ` + userCols + ` FROM users WHERE id = ?`

const getUserByEmailSQL = `SELECT ` + userCols + ` FROM users WHERE email = ?`

const listStaffSQL = `
SELECT ` + userCols + `
FROM users
WHERE role IN ('staff', 'admin') AND archived = 0
ORDER BY id
`

const updateUserSQL = `
UPDATE users
SET email = ?, first_name = ?, last_name = ?, password_hash = ?, role = ?
WHERE id = ?
`

const archiveStaffSQL = `UPDATE users SET archived = 1 WHERE id = ?`

// ---------------------------------------------------------------------------
// amenities
// ---------------------------------------------------------------------------

const insertAmenitySQL = `INSERT INTO amenities (description) VALUES (?)`

const getAmenitySQL = `SELECT id, description FROM amenities WHERE id = ?`

const listAmenitiesSQL = `
SELECT id, description FROM amenities ORDER BY id LIMIT ? OFFSET ?
`

const countAmenitiesSQL = `SELECT COUNT(*) FROM amenities`

const updateAmenitySQL = `UPDATE amenities SET description = ? WHERE id = ?`

const deleteAmenitySQL = `DELETE FROM amenities WHERE id = ?`

// ---------------------------------------------------------------------------
// rooms
// ---------------------------------------------------------------------------

// amenity_ids is aggregated in-query so listing stays a single round trip.
const roomSelect = `
SELECT r.id, r.name, r.room_type, r.capacity, r.price, r.status,
       r.description, r.image_url,
       GROUP_CONCAT(ra.amenity_id ORDER BY ra.amenity_id) AS amenity_ids
FROM rooms r
LEFT JOIN room_amenities ra ON ra.room_id = r.id
`

const getRoomSQL = roomSelect + `WHERE r.id = ? GROUP BY r.id`

const listRoomsSQL = roomSelect + `GROUP BY r.id ORDER BY r.id`

const listRoomsByStatusSQL = roomSelect + `WHERE r.status = ? GROUP BY r.id ORDER BY r.id`

const countRoomsByStatusSQL = `SELECT COUNT(*) FROM rooms WHERE status = ?`

const insertRoomSQL = `
INSERT INTO rooms (name, room_type, capacity, price, status, description, image_url)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms
SET name = ?, room_type = ?, capacity = ?, price = ?, status = ?,
    description = ?, image_url = ?
WHERE id = ?
`

const updateRoomStatusSQL = `UPDATE rooms SET status = ? WHERE id = ?`

const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`

const deleteRoomAmenitiesSQL = `DELETE FROM room_amenities WHERE room_id = ?`

const insertRoomAmenitySQL = `INSERT INTO room_amenities (room_id, amenity_id) VALUES (?, ?)`

// ---------------------------------------------------------------------------
// areas
// ---------------------------------------------------------------------------

const areaSelect = `
SELECT id, name, capacity, price, status, description, image_url
FROM areas
`

const getAreaSQL = areaSelect + `WHERE id = ?`

const listAreasSQL = areaSelect + `ORDER BY id`

const listAreasByStatusSQL = areaSelect + `WHERE status = ? ORDER BY id`

const countAreasByStatusSQL = `SELECT COUNT(*) FROM areas WHERE status = ?`

const insertAreaSQL = `
INSERT INTO areas (name, capacity, price, status, description, image_url)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateAreaSQL = `
UPDATE areas
SET name = ?, capacity = ?, price = ?, status = ?, description = ?, image_url = ?
WHERE id = ?
`

const updateAreaStatusSQL = `UPDATE areas SET status = ? WHERE id = ?`

const deleteAreaSQL = `DELETE FROM areas WHERE id = ?`

// ---------------------------------------------------------------------------
// bookings
// ---------------------------------------------------------------------------

const bookingCols = `
id, guest_id, resource_kind, resource_id, check_in_date, check_out_date,
start_time, end_time, status, payment_status, total_price, valid_id_url,
special_request, cancellation_date, cancellation_reason, created_at, updated_at
`

const insertBookingSQL = `
INSERT INTO bookings
  (guest_id, resource_kind, resource_id, check_in_date, check_out_date,
   start_time, end_time, status, payment_status, total_price, valid_id_url,
   special_request, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`

const listBookingsSQL = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at DESC, id DESC`

const listBookingsByGuestSQL = `
SELECT ` + bookingCols + `
FROM bookings
WHERE guest_id = ?
ORDER BY created_at DESC, id DESC
`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const updateBookingStatusSQL = `
UPDATE bookings
SET status = ?, payment_status = ?, total_price = ?,
    cancellation_date = ?, cancellation_reason = ?, updated_at = ?
WHERE id = ?
`

const activeBookingCountSQL = `
SELECT COUNT(*)
FROM bookings
WHERE resource_kind = ? AND resource_id = ?
  AND status IN ('reserved', 'confirmed', 'checked_in')
`

const countByStatusesPrefix = `SELECT COUNT(*) FROM bookings WHERE status IN `

// ---------------------------------------------------------------------------
// transactions
// ---------------------------------------------------------------------------

const insertTransactionSQL = `
INSERT INTO transactions
  (booking_id, reservation_id, user_id, transaction_type, amount, status, transaction_date)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const markBookingPaidSQL = `
UPDATE bookings SET payment_status = 'paid', updated_at = ? WHERE id = ?
`

const recentCompletedSQL = `
SELECT COUNT(*)
FROM transactions
WHERE booking_id = ? AND amount = ? AND status = 'completed'
  AND transaction_date >= ?
`

// Transactions without a booking link contribute to the total only.
const revenueSQL = `
SELECT
  COALESCE(SUM(t.amount), 0),
  COALESCE(SUM(CASE WHEN b.resource_kind = 'room' THEN t.amount ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN b.resource_kind = 'area' THEN t.amount ELSE 0 END), 0)
FROM transactions t
LEFT JOIN bookings b ON b.id = t.booking_id
WHERE t.status = 'completed'
  AND t.transaction_date >= ? AND t.transaction_date < ?
`

// ---------------------------------------------------------------------------
// reviews
// ---------------------------------------------------------------------------

const insertReviewSQL = `
INSERT INTO reviews (booking_id, user_id, rating, ` + "`text`" + `, created_at)
VALUES (?, ?, ?, ?, ?)
`

const hasReviewSQL = `SELECT COUNT(*) FROM reviews WHERE booking_id = ?`

const listReviewsSQL = `
SELECT id, booking_id, user_id, rating, ` + "`text`" + `, created_at
FROM reviews
WHERE booking_id = ?
ORDER BY id
`

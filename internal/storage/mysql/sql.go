package mysql

// ---- catalog ----

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, city, country, rating, price_per_night, tags, badge, description)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  city            = VALUES(city),
  country         = VALUES(country),
  rating          = VALUES(rating),
  price_per_night = VALUES(price_per_night),
  tags            = VALUES(tags),
  badge           = VALUES(badge),
  description     = VALUES(description),
  updated_at      = CURRENT_TIMESTAMP
`

const upsertRoomSQL = `
INSERT INTO rooms
  (id, hotel_id, room_number, type, price, capacity, amenities, available)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel_id    = VALUES(hotel_id),
  room_number = VALUES(room_number),
  type        = VALUES(type),
  price       = VALUES(price),
  capacity    = VALUES(capacity),
  amenities   = VALUES(amenities),
  available   = VALUES(available)
`

const upsertRestaurantSQL = `
INSERT INTO restaurants
  (id, hotel_id, name, cuisine, hours, description)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  hotel_id    = VALUES(hotel_id),
  name        = VALUES(name),
  cuisine     = VALUES(cuisine),
  hours       = VALUES(hours),
  description = VALUES(description)
`

const upsertTableSQL = `
INSERT INTO restaurant_tables
  (id, restaurant_id, label, capacity, price_extra, category, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  restaurant_id = VALUES(restaurant_id),
  label         = VALUES(label),
  capacity      = VALUES(capacity),
  price_extra   = VALUES(price_extra),
  category      = VALUES(category),
  status        = VALUES(status)
`

const hotelColumns = `id, name, city, country, rating, price_per_night, tags, badge, description`

const roomColumns = `id, hotel_id, room_number, type, price, capacity, amenities, available`

const restaurantColumns = `id, hotel_id, name, cuisine, hours, description`

const tableColumns = `id, restaurant_id, label, capacity, price_extra, category, status`

// ---- accounts ----

const insertUserSQL = `INSERT INTO users (email, password_hash, name, created_at) VALUES (?, ?, ?, ?)`

const userColumns = `id, email, password_hash, name, created_at`

const insertSessionSQL = `INSERT INTO sessions (token, user_id, created_at) VALUES (?, ?, ?)`

// ---- ledgers ----

const insertBookingSQL = `
INSERT INTO hotel_bookings
  (id, user_id, hotel_id, room_id, check_in, check_out, guests,
   contact_name, contact_email, contact_phone, total_price, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const bookingColumns = `id, user_id, hotel_id, room_id, check_in, check_out, guests,
  contact_name, contact_email, contact_phone, total_price, status, created_at`

const insertReservationSQL = `
INSERT INTO restaurant_reservations
  (id, user_id, restaurant_id, table_id, slot_date, slot_time, party_size, notes, table_price, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const reservationColumns = `id, user_id, restaurant_id, table_id, slot_date, slot_time,
  party_size, notes, table_price, status, created_at`

// Locking the parent table row serializes reservations per table, including
// the first one for a date when there is no reservation row to lock yet.
const lockTableSQL = `SELECT id FROM restaurant_tables WHERE id = ? FOR UPDATE`

const insertPaymentSQL = `
INSERT INTO payments
  (id, user_id, booking_id, reservation_id, amount, method, status, transaction_id, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const paymentColumns = `id, user_id, booking_id, reservation_id, amount, method, status, transaction_id, created_at`

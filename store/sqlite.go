package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dcode-github/rental_booking_system/models"
)

//go:embed schema.sql
var schemaSQL string

const defaultListLimit = 50

// Characters that would otherwise end or alter the path part of a file: URI.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

func sqliteDSN(path string) string {
	return "file:" + uriPathEscaper.Replace(path) + "?_txlock=immediate&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

// SQLiteStore keeps properties and bookings in a single SQLite file.
//
// Transactions are opened with BEGIN IMMEDIATE, so the overlap check and the
// insert in InsertBooking run under the database write lock.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at path and applies the schema.
// It is safe to call repeatedly on the same file.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer at a time; a single connection also keeps the pragmas.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const propertyColumns = `id, owner_id, title, description, price, location, images, max_guests,
	bedrooms, bathrooms, property_type, amenities, status, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (models.Property, error) {
	var (
		p         models.Property
		images    string
		amenities string
		created   int64
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Price, &p.Location, &images,
		&p.MaxGuests, &p.Bedrooms, &p.Bathrooms, &p.PropertyType, &amenities, &p.Status, &created)
	if err != nil {
		return models.Property{}, err
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return models.Property{}, fmt.Errorf("decode images of property %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(amenities), &p.Amenities); err != nil {
		return models.Property{}, fmt.Errorf("decode amenities of property %s: %w", p.ID, err)
	}
	p.CreatedAt = time.Unix(0, created).UTC()
	return p, nil
}

func (s *SQLiteStore) queryProperties(ctx context.Context, query string, args ...interface{}) ([]models.Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	return string(b), err
}

func (s *SQLiteStore) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	images, err := encodeList(p.Images)
	if err != nil {
		return models.Property{}, err
	}
	amenities, err := encodeList(p.Amenities)
	if err != nil {
		return models.Property{}, err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Title, p.Description, p.Price, p.Location, images, p.MaxGuests,
		p.Bedrooms, p.Bathrooms, p.PropertyType, amenities, p.Status, p.CreatedAt.UnixNano())
	if err != nil {
		return models.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) GetProperty(ctx context.Context, id string) (models.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, ErrNotFound
	}
	return p, err
}

func (s *SQLiteStore) GetPublishedProperty(ctx context.Context, id string) (models.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ? AND status = ?`,
		id, models.PropertyPublished)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Property{}, ErrNotFound
	}
	return p, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SQLiteStore) ListPublishedProperties(ctx context.Context, f models.PropertyFilter) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE status = ?`
	args := []interface{}{models.PropertyPublished}

	if f.Location != "" {
		query += ` AND location LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(f.Location)+"%")
	}
	if f.PropertyType != "" {
		query += ` AND property_type = ?`
		args = append(args, f.PropertyType)
	}
	if f.MinPrice != nil {
		query += ` AND price >= ?`
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *f.MaxPrice)
	}
	if f.Guests > 0 {
		query += ` AND max_guests >= ?`
		args = append(args, f.Guests)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	properties, err := s.queryProperties(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published properties: %w", err)
	}
	return properties, nil
}

func (s *SQLiteStore) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	properties, err := s.queryProperties(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list properties of owner %s: %w", ownerID, err)
	}
	return properties, nil
}

// UpdateProperty replaces the editable fields of an owner's property. An
// empty Status leaves the current status unchanged.
func (s *SQLiteStore) UpdateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	images, err := encodeList(p.Images)
	if err != nil {
		return models.Property{}, err
	}
	amenities, err := encodeList(p.Amenities)
	if err != nil {
		return models.Property{}, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE properties SET
			title = ?, description = ?, price = ?, location = ?, images = ?, max_guests = ?,
			bedrooms = ?, bathrooms = ?, property_type = ?, amenities = ?,
			status = COALESCE(NULLIF(?, ''), status)
		WHERE id = ? AND owner_id = ?`,
		p.Title, p.Description, p.Price, p.Location, images, p.MaxGuests,
		p.Bedrooms, p.Bathrooms, p.PropertyType, amenities, string(p.Status),
		p.ID, p.OwnerID)
	if err != nil {
		return models.Property{}, fmt.Errorf("update property %s: %w", p.ID, err)
	}
	if err := expectOneRow(res); err != nil {
		return models.Property{}, err
	}
	return s.GetProperty(ctx, p.ID)
}

func (s *SQLiteStore) UpdatePropertyStatus(ctx context.Context, id, ownerID string, status models.PropertyStatus) (models.Property, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE properties SET status = ? WHERE id = ? AND owner_id = ?`, status, id, ownerID)
	if err != nil {
		return models.Property{}, fmt.Errorf("update status of property %s: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return models.Property{}, err
	}
	return s.GetProperty(ctx, id)
}

// DeleteProperty removes an owner's property; its bookings go with it.
func (s *SQLiteStore) DeleteProperty(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const bookingColumns = `id, property_id, user_id, check_in, check_out, guests, guest_name, guest_email,
	guest_phone, special_requests, total_price, status, created_at, updated_at`

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b                 models.Booking
		checkIn, checkOut int64
		created, updated  int64
	)
	err := row.Scan(&b.ID, &b.PropertyID, &b.UserID, &checkIn, &checkOut, &b.Guests, &b.GuestName, &b.GuestEmail,
		&b.GuestPhone, &b.SpecialRequests, &b.TotalPrice, &b.Status, &created, &updated)
	if err != nil {
		return models.Booking{}, err
	}
	b.CheckIn = time.Unix(checkIn, 0).UTC()
	b.CheckOut = time.Unix(checkOut, 0).UTC()
	b.CreatedAt = time.Unix(0, created).UTC()
	b.UpdatedAt = time.Unix(0, updated).UTC()
	return b, nil
}

func (s *SQLiteStore) ListActiveBookings(ctx context.Context, propertyID string) ([]models.DateRange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT check_in, check_out FROM bookings WHERE property_id = ? AND status IN (?, ?) ORDER BY check_in`,
		propertyID, models.BookingPending, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()

	var ranges []models.DateRange
	for rows.Next() {
		var in, out int64
		if err := rows.Scan(&in, &out); err != nil {
			return nil, err
		}
		ranges = append(ranges, models.DateRange{
			CheckIn:  time.Unix(in, 0).UTC(),
			CheckOut: time.Unix(out, 0).UTC(),
		})
	}
	return ranges, rows.Err()
}

// InsertBooking writes b after re-checking, inside the same write
// transaction, that the property is published and that no active booking
// overlaps [b.CheckIn, b.CheckOut).
func (s *SQLiteStore) InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Booking{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status models.PropertyStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM properties WHERE id = ?`, b.PropertyID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && status != models.PropertyPublished) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("load property %s: %w", b.PropertyID, err)
	}

	if b.Status.Active() {
		var overlapping int
		err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM bookings
			WHERE property_id = ? AND status IN (?, ?) AND check_in < ? AND check_out > ?`,
			b.PropertyID, models.BookingPending, models.BookingConfirmed, b.CheckOut.Unix(), b.CheckIn.Unix(),
		).Scan(&overlapping)
		if err != nil {
			return models.Booking{}, fmt.Errorf("count overlapping bookings: %w", err)
		}
		if overlapping > 0 {
			return models.Booking{}, ErrConstraintViolation
		}
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.PropertyID, b.UserID, b.CheckIn.Unix(), b.CheckOut.Unix(), b.Guests, b.GuestName, b.GuestEmail,
		b.GuestPhone, b.SpecialRequests, b.TotalPrice, b.Status, b.CreatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, fmt.Errorf("commit booking: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	return b, err
}

func (s *SQLiteStore) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (models.Booking, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC().UnixNano(), id, from)
	if err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return models.Booking{}, err
	}
	return s.GetBooking(ctx, id)
}

func (s *SQLiteStore) ListBookingsByOwner(ctx context.Context, ownerID string) ([]models.OwnerBooking, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT b.id, b.property_id, b.user_id, b.check_in, b.check_out, b.guests,
			b.guest_name, b.guest_email, b.guest_phone, b.special_requests, b.total_price, b.status,
			b.created_at, b.updated_at, p.title, p.location, p.owner_id
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE p.owner_id = ?
		ORDER BY b.created_at DESC, b.id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings of owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	out := []models.OwnerBooking{}
	for rows.Next() {
		var (
			ob                models.OwnerBooking
			checkIn, checkOut int64
			created, updated  int64
		)
		err := rows.Scan(&ob.ID, &ob.PropertyID, &ob.UserID, &checkIn, &checkOut, &ob.Guests,
			&ob.GuestName, &ob.GuestEmail, &ob.GuestPhone, &ob.SpecialRequests, &ob.TotalPrice, &ob.Status,
			&created, &updated, &ob.Property.Title, &ob.Property.Location, &ob.Property.OwnerID)
		if err != nil {
			return nil, err
		}
		ob.CheckIn = time.Unix(checkIn, 0).UTC()
		ob.CheckOut = time.Unix(checkOut, 0).UTC()
		ob.CreatedAt = time.Unix(0, created).UTC()
		ob.UpdatedAt = time.Unix(0, updated).UTC()
		ob.Property.ID = ob.PropertyID
		out = append(out, ob)
	}
	return out, rows.Err()
}

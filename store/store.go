package store

import (
	"context"

	"github.com/dcode-github/rental_booking_system/models"
)

// Store is everything the HTTP layer and the booking service need from a
// backend. Owner-scoped writes return ErrNotFound when the property does not
// belong to ownerID.
type Store interface {
	CreateProperty(ctx context.Context, p models.Property) (models.Property, error)
	GetProperty(ctx context.Context, id string) (models.Property, error)
	GetPublishedProperty(ctx context.Context, id string) (models.Property, error)
	ListPublishedProperties(ctx context.Context, f models.PropertyFilter) ([]models.Property, error)
	ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	UpdateProperty(ctx context.Context, p models.Property) (models.Property, error)
	UpdatePropertyStatus(ctx context.Context, id, ownerID string, status models.PropertyStatus) (models.Property, error)
	DeleteProperty(ctx context.Context, id, ownerID string) error

	ListActiveBookings(ctx context.Context, propertyID string) ([]models.DateRange, error)
	InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID string) ([]models.OwnerBooking, error)

	EnsureSchema(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
)

package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/dcode-github/rental_booking_system/models"
	"github.com/dcode-github/rental_booking_system/store"
)

// memStore is an in-memory PropertyStore and BookingStore for service tests.
type memStore struct {
	mu         sync.Mutex
	properties map[string]models.Property
	bookings   map[string]models.Booking
	nextID     int

	listErr   error
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{
		properties: map[string]models.Property{},
		bookings:   map[string]models.Booking{},
	}
}

func (m *memStore) addProperty(p models.Property) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.properties[p.ID] = p
}

func (m *memStore) addBooking(b models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

func (m *memStore) GetPublishedProperty(_ context.Context, id string) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok || p.Status != models.PropertyPublished {
		return models.Property{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) GetProperty(_ context.Context, id string) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok {
		return models.Property{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListActiveBookings(_ context.Context, propertyID string) ([]models.DateRange, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DateRange
	for _, b := range m.bookings {
		if b.PropertyID == propertyID && b.Status.Active() {
			out = append(out, models.DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut})
		}
	}
	return out, nil
}

func (m *memStore) InsertBooking(_ context.Context, b models.Booking) (models.Booking, error) {
	if m.insertErr != nil {
		return models.Booking{}, m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = fmt.Sprintf("b%d", m.nextID)
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memStore) GetBooking(_ context.Context, id string) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, store.ErrNotFound
	}
	return b, nil
}

func (m *memStore) UpdateBookingStatus(_ context.Context, id string, from, to models.BookingStatus) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return models.Booking{}, store.ErrNotFound
	}
	b.Status = to
	m.bookings[id] = b
	return b, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dcode-github/rental_booking_system/models"
	"github.com/dcode-github/rental_booking_system/store"
	"github.com/dcode-github/rental_booking_system/utils"
)

type PropertyStore interface {
	// GetPublishedProperty returns store.ErrNotFound for missing or draft properties.
	GetPublishedProperty(ctx context.Context, id string) (models.Property, error)
	GetProperty(ctx context.Context, id string) (models.Property, error)
}

type BookingStore interface {
	ActiveBookingLister
	// InsertBooking returns store.ErrConstraintViolation when an active
	// booking already overlaps b, and store.ErrNotFound when the property
	// is gone or unpublished.
	InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	// UpdateBookingStatus moves the booking from `from` to `to` and returns
	// store.ErrNotFound when it is not currently in `from`.
	UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (models.Booking, error)
}

// Service runs booking submissions and owner status changes. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	properties PropertyStore
	bookings   BookingStore
	validate   *validator.Validate
	now        func() time.Time
}

func NewService(properties PropertyStore, bookings BookingStore) *Service {
	return &Service{
		properties: properties,
		bookings:   bookings,
		validate:   utils.NewValidator(),
		now:        time.Now,
	}
}

// Submit admits one booking request or rejects it with a *Error. On success
// exactly one pending booking has been written.
func (s *Service) Submit(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Booking{}, reject(KindMalformedRequest, "%s", utils.ValidationMessage(err))
	}
	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return models.Booking{}, err
	}

	property, err := s.loadPublished(ctx, req.PropertyID)
	if err != nil {
		return models.Booking{}, err
	}

	quote, err := Evaluate(property, checkIn, checkOut, req.Guests)
	if err != nil {
		return models.Booking{}, err
	}

	conflict, err := HasConflict(ctx, s.bookings, property.ID, checkIn, checkOut)
	if err != nil {
		return models.Booking{}, err
	}
	if conflict {
		return models.Booking{}, reject(KindDateRangeUnavailable, "property is not available for the selected dates")
	}

	now := s.now().UTC()
	b := models.Booking{
		PropertyID:      property.ID,
		UserID:          req.UserID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
		TotalPrice:      quote.TotalPrice,
		Status:          models.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	saved, err := s.bookings.InsertBooking(ctx, b)
	switch {
	case errors.Is(err, store.ErrConstraintViolation):
		log.Printf("Booking admission lost race for property %s (%s to %s)", property.ID, req.CheckIn, req.CheckOut)
		return models.Booking{}, reject(KindDateRangeUnavailable, "property is not available for the selected dates")
	case errors.Is(err, store.ErrNotFound):
		return models.Booking{}, reject(KindPropertyNotFound, "property not found or not available")
	case err != nil:
		return models.Booking{}, fmt.Errorf("insert booking for property %s: %w", property.ID, err)
	}
	return saved, nil
}

// Quote prices a stay the way Submit would, including the conflict check,
// without writing anything.
func (s *Service) Quote(ctx context.Context, propertyID, checkInRaw, checkOutRaw string, guests int) (Quote, error) {
	checkIn, checkOut, err := parseRange(checkInRaw, checkOutRaw)
	if err != nil {
		return Quote{}, err
	}
	property, err := s.loadPublished(ctx, propertyID)
	if err != nil {
		return Quote{}, err
	}
	quote, err := Evaluate(property, checkIn, checkOut, guests)
	if err != nil {
		return Quote{}, err
	}
	conflict, err := HasConflict(ctx, s.bookings, property.ID, checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	if conflict {
		return quote, reject(KindDateRangeUnavailable, "property is not available for the selected dates")
	}
	return quote, nil
}

// UpdateStatus applies an owner's status change. Ownership is checked
// before the transition itself, so a non-owner always gets Forbidden.
func (s *Service) UpdateStatus(ctx context.Context, callerID, bookingID string, to models.BookingStatus) (models.Booking, error) {
	if !to.Valid() {
		return models.Booking{}, reject(KindMalformedRequest, "invalid status %q", to)
	}

	current, err := s.bookings.GetBooking(ctx, bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Booking{}, reject(KindBookingNotFound, "booking %s not found", bookingID)
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("load booking %s: %w", bookingID, err)
	}

	property, err := s.properties.GetProperty(ctx, current.PropertyID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Booking{}, reject(KindPropertyNotFound, "property %s not found", current.PropertyID)
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("load property %s: %w", current.PropertyID, err)
	}

	if callerID == "" || property.OwnerID != callerID {
		log.Printf("Account %q tried to change booking %s owned by %q", callerID, bookingID, property.OwnerID)
		return models.Booking{}, reject(KindForbidden, "only the property owner can change this booking")
	}

	if err := CheckTransition(current.Status, to); err != nil {
		return models.Booking{}, err
	}

	updated, err := s.bookings.UpdateBookingStatus(ctx, bookingID, current.Status, to)
	if errors.Is(err, store.ErrNotFound) {
		return models.Booking{}, reject(KindInvalidTransition, "booking %s changed status concurrently", bookingID)
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", bookingID, err)
	}
	return updated, nil
}

func (s *Service) loadPublished(ctx context.Context, id string) (models.Property, error) {
	property, err := s.properties.GetPublishedProperty(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Property{}, reject(KindPropertyNotFound, "property not found or not available")
	}
	if err != nil {
		return models.Property{}, fmt.Errorf("load property %s: %w", id, err)
	}
	return property, nil
}

func parseRange(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	checkIn, err := models.ParseDate(checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, reject(KindMalformedRequest, "checkIn: %v", err)
	}
	checkOut, err := models.ParseDate(checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, reject(KindMalformedRequest, "checkOut: %v", err)
	}
	return checkIn, checkOut, nil
}

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/dcode-github/rental_booking_system/models"
)

// Overlaps reports whether [aIn, aOut) and [bIn, bOut) intersect. A stay
// that checks out on the day another checks in does not overlap it.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

type ActiveBookingLister interface {
	ListActiveBookings(ctx context.Context, propertyID string) ([]models.DateRange, error)
}

// HasConflict reports whether any pending or confirmed booking of the
// property overlaps the candidate range. It takes no locks; the store's
// insert re-checks under its own transaction.
func HasConflict(ctx context.Context, bookings ActiveBookingLister, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	ranges, err := bookings.ListActiveBookings(ctx, propertyID)
	if err != nil {
		return false, fmt.Errorf("list active bookings for property %s: %w", propertyID, err)
	}
	for _, r := range ranges {
		if Overlaps(checkIn, checkOut, r.CheckIn, r.CheckOut) {
			return true, nil
		}
	}
	return false, nil
}

package booking

import (
	"time"

	"github.com/dcode-github/rental_booking_system/models"
)

type Quote struct {
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"totalPrice"`
}

// Evaluate checks one candidate stay against the property snapshot and
// prices it. It does not look at other bookings; see HasConflict.
//
// The guest limit is checked before the dates so an oversized party is
// always reported as GuestLimitExceeded.
func Evaluate(p models.Property, checkIn, checkOut time.Time, guests int) (Quote, error) {
	if p.Status != models.PropertyPublished {
		return Quote{}, reject(KindNotAvailable, "property %s is not available for booking", p.ID)
	}
	if guests < 1 {
		return Quote{}, reject(KindMalformedRequest, "at least 1 guest is required")
	}
	if guests > p.MaxGuests {
		return Quote{}, reject(KindGuestLimitExceeded, "maximum %d guests allowed for this property", p.MaxGuests)
	}
	if !checkOut.After(checkIn) {
		return Quote{}, reject(KindInvalidDateRange, "check-out must be after check-in")
	}

	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return Quote{}, reject(KindInvalidDateRange, "stay must be at least one night")
	}

	return Quote{
		Nights:     nights,
		TotalPrice: float64(nights) * p.Price,
	}, nil
}

const secondsPerDay = 24 * 60 * 60

// Nights rounds a stay up to whole days. It works on Unix seconds so ranges
// longer than a time.Duration still count correctly.
func Nights(checkIn, checkOut time.Time) int {
	secs := checkOut.Unix() - checkIn.Unix()
	nanos := checkOut.Nanosecond() - checkIn.Nanosecond()
	if nanos < 0 {
		secs--
		nanos += int(time.Second)
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay != 0 || nanos > 0 {
		days++
	}
	return int(days)
}

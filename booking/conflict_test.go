package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/rental_booking_system/models"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut string
		want                 bool
	}{
		{"back to back", "2024-01-01", "2024-01-05", "2024-01-05", "2024-01-08", false},
		{"one night shared", "2024-01-01", "2024-01-05", "2024-01-04", "2024-01-08", true},
		{"contained", "2024-01-01", "2024-01-10", "2024-01-03", "2024-01-04", true},
		{"identical", "2024-01-01", "2024-01-05", "2024-01-01", "2024-01-05", true},
		{"disjoint", "2024-01-01", "2024-01-03", "2024-02-01", "2024-02-03", false},
		{"same start", "2024-01-01", "2024-01-02", "2024-01-01", "2024-01-09", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := [2]string{tc.aIn, tc.aOut}
			b := [2]string{tc.bIn, tc.bOut}
			got := Overlaps(date(a[0]), date(a[1]), date(b[0]), date(b[1]))
			assert.Equal(t, tc.want, got)

			// symmetric
			assert.Equal(t, got, Overlaps(date(b[0]), date(b[1]), date(a[0]), date(a[1])))
		})
	}
}

func TestHasConflict_OnlyActiveBookingsCount(t *testing.T) {
	m := newMemStore()
	m.addBooking(models.Booking{ID: "c", PropertyID: "p1", CheckIn: date("2024-06-01"), CheckOut: date("2024-06-05"), Status: models.BookingCancelled})
	m.addBooking(models.Booking{ID: "d", PropertyID: "p1", CheckIn: date("2024-06-01"), CheckOut: date("2024-06-05"), Status: models.BookingCompleted})
	m.addBooking(models.Booking{ID: "e", PropertyID: "p2", CheckIn: date("2024-06-01"), CheckOut: date("2024-06-05"), Status: models.BookingConfirmed})

	conflict, err := HasConflict(context.Background(), m, "p1", date("2024-06-02"), date("2024-06-03"))
	require.NoError(t, err)
	assert.False(t, conflict)

	m.addBooking(models.Booking{ID: "f", PropertyID: "p1", CheckIn: date("2024-06-01"), CheckOut: date("2024-06-05"), Status: models.BookingPending})

	conflict, err = HasConflict(context.Background(), m, "p1", date("2024-06-02"), date("2024-06-03"))
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestHasConflict_StoreError(t *testing.T) {
	m := newMemStore()
	m.listErr = errors.New("connection reset")

	_, err := HasConflict(context.Background(), m, "p1", date("2024-06-02"), date("2024-06-03"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	_, isBusiness := AsError(err)
	assert.False(t, isBusiness)
}

package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcode-github/rental_booking_system/models"
)

func TestCheckTransition(t *testing.T) {
	all := []models.BookingStatus{
		models.BookingPending,
		models.BookingConfirmed,
		models.BookingCancelled,
		models.BookingCompleted,
	}
	allowed := map[[2]models.BookingStatus]bool{
		{models.BookingPending, models.BookingConfirmed}:   true,
		{models.BookingPending, models.BookingCancelled}:   true,
		{models.BookingConfirmed, models.BookingCompleted}: true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CheckTransition(from, to)
			if allowed[[2]models.BookingStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(models.BookingPending))
	assert.False(t, IsTerminal(models.BookingConfirmed))
	assert.True(t, IsTerminal(models.BookingCancelled))
	assert.True(t, IsTerminal(models.BookingCompleted))
}

func TestCheckTransition_TerminalMessage(t *testing.T) {
	err := CheckTransition(models.BookingCancelled, models.BookingConfirmed)
	assert.ErrorContains(t, err, "can no longer change")
}

package booking

import "github.com/dcode-github/rental_booking_system/models"

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted},
}

func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s models.BookingStatus) bool {
	return len(transitions[s]) == 0
}

func CheckTransition(from, to models.BookingStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	if IsTerminal(from) {
		return reject(KindInvalidTransition, "booking is %s and can no longer change", from)
	}
	return reject(KindInvalidTransition, "cannot move booking from %s to %s", from, to)
}

package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dcode-github/rental_booking_system/booking"
	"github.com/dcode-github/rental_booking_system/models"
)

type quoteResponse struct {
	Admissible bool    `json:"admissible"`
	Kind       string  `json:"kind,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"totalPrice"`
}

// QuoteBooking answers whether a stay could be booked right now and what it
// would cost. Rule rejections are part of the answer, not HTTP errors.
func QuoteBooking(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		query := r.URL.Query()

		guests, err := strconv.Atoi(query.Get("guests"))
		if err != nil {
			malformed(w, "guests must be an integer")
			return
		}

		quote, err := svc.Quote(r.Context(), propertyID, query.Get("checkIn"), query.Get("checkOut"), guests)
		if err != nil {
			e, ok := booking.AsError(err)
			if !ok || e.Kind == booking.KindMalformedRequest || e.Kind == booking.KindPropertyNotFound {
				writeServiceError(w, r, err)
				return
			}
			WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: quoteResponse{
				Kind:       string(e.Kind),
				Reason:     e.Reason,
				Nights:     quote.Nights,
				TotalPrice: quote.TotalPrice,
			}})
			return
		}

		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: quoteResponse{
			Admissible: true,
			Nights:     quote.Nights,
			TotalPrice: quote.TotalPrice,
		}})
	}
}

// SubmitBooking admits a guest's booking request. Authentication is
// optional; a signed-in guest is recorded on the booking.
func SubmitBooking(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.BookingRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.UserID = accountID(r)

		b, err := svc.Submit(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.Printf("Booking %s created for property %s", b.ID, b.PropertyID)
		WriteJSON(w, http.StatusCreated, models.APIResponse{Success: true, Message: "Booking request submitted", Data: b})
	}
}

func GetOwnerBookings(repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		bookings, err := repo.ListBookingsByOwner(r.Context(), userID)
		if err != nil {
			log.Printf("Error fetching bookings of %s: %v", userID, err)
			WriteError(w, http.StatusInternalServerError, kindInternal, "Error fetching bookings")
			return
		}
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: bookings})
	}
}

type bookingStatusUpdate struct {
	Status models.BookingStatus `json:"status"`
}

func UpdateBookingStatus(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireAccount(w, r)
		if !ok {
			return
		}
		bookingID := mux.Vars(r)["id"]

		var body bookingStatusUpdate
		if !decodeBody(w, r, &body) {
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), userID, bookingID, body.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.Printf("Booking %s moved to %s by %s", bookingID, updated.Status, userID)
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "Booking status updated", Data: updated})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: "ok"})
	}
}

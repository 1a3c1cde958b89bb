package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/dcode-github/rental_booking_system/booking"
	"github.com/dcode-github/rental_booking_system/models"
	"github.com/dcode-github/rental_booking_system/utils"
)

type ContextKey string

const UserIDKey = ContextKey("userID")

// Inline image payloads make property bodies large.
const maxBodyBytes = 10 << 20

const kindInternal = "InternalError"

var validate = utils.NewValidator()

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, models.APIResponse{Success: false, Error: kind, Message: message})
}

func statusFor(kind booking.Kind) int {
	switch kind {
	case booking.KindMalformedRequest, booking.KindInvalidDateRange, booking.KindGuestLimitExceeded:
		return http.StatusBadRequest
	case booking.KindPropertyNotFound, booking.KindBookingNotFound, booking.KindNotAvailable:
		return http.StatusNotFound
	case booking.KindDateRangeUnavailable, booking.KindInvalidTransition:
		return http.StatusConflict
	case booking.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeServiceError maps a business rejection to its status code. Anything
// else is logged and reported as an internal error without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := booking.AsError(err); ok {
		WriteError(w, statusFor(e.Kind), string(e.Kind), e.Reason)
		return
	}
	log.Printf("Request %s %s failed: %v", r.Method, r.URL.Path, err)
	WriteError(w, http.StatusInternalServerError, kindInternal, "internal server error")
}

func malformed(w http.ResponseWriter, format string, args ...interface{}) {
	WriteError(w, http.StatusBadRequest, string(booking.KindMalformedRequest), fmt.Sprintf(format, args...))
}

// decodeBody reads a single JSON document of at most maxBodyBytes into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, string(booking.KindMalformedRequest), "request body too large")
			return false
		}
		log.Printf("Invalid request body for %s %s: %v", r.Method, r.URL.Path, err)
		malformed(w, "invalid request body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		malformed(w, "request body must contain a single JSON object")
		return false
	}
	return true
}

func accountID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}

// requireAccount returns the caller's account id, or writes 401 when the
// route was mounted without authentication.
func requireAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := accountID(r)
	if id == "" {
		log.Printf("User ID missing in context for %s %s", r.Method, r.URL.Path)
		WriteError(w, http.StatusUnauthorized, "Unauthorized", "User ID missing in context")
		return "", false
	}
	return id, true
}

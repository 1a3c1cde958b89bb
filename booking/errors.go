package booking

import (
	"errors"
	"fmt"
)

// Kind names a business-rule rejection. Kinds are stable and safe to show
// to API clients.
type Kind string

const (
	KindNotAvailable         Kind = "NotAvailable"
	KindInvalidDateRange     Kind = "InvalidDateRange"
	KindGuestLimitExceeded   Kind = "GuestLimitExceeded"
	KindDateRangeUnavailable Kind = "DateRangeUnavailable"
	KindMalformedRequest     Kind = "MalformedRequest"
	KindPropertyNotFound     Kind = "PropertyNotFound"
	KindBookingNotFound      Kind = "BookingNotFound"
	KindInvalidTransition    Kind = "InvalidTransition"
	KindForbidden            Kind = "Forbidden"
)

// Error is a rejected request. It is never retried.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, booking.ErrForbidden).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotAvailable         = &Error{Kind: KindNotAvailable}
	ErrInvalidDateRange     = &Error{Kind: KindInvalidDateRange}
	ErrGuestLimitExceeded   = &Error{Kind: KindGuestLimitExceeded}
	ErrDateRangeUnavailable = &Error{Kind: KindDateRangeUnavailable}
	ErrMalformedRequest     = &Error{Kind: KindMalformedRequest}
	ErrPropertyNotFound     = &Error{Kind: KindPropertyNotFound}
	ErrBookingNotFound      = &Error{Kind: KindBookingNotFound}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition}
	ErrForbidden            = &Error{Kind: KindForbidden}
)

func reject(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AsError returns the business error carried by err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

package store

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup, including
	// owner-scoped lookups where the record exists but belongs to someone else.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when an insert would put two active
	// bookings on overlapping dates of the same property.
	ErrConstraintViolation = errors.New("constraint violation")
)

package models

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ActiveBookingStatuses are the statuses that hold a property's dates.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// BookingRequest is a guest submission before it is admitted.
type BookingRequest struct {
	PropertyID      string `json:"propertyId" validate:"required"`
	CheckIn         string `json:"checkIn" validate:"required"`
	CheckOut        string `json:"checkOut" validate:"required"`
	Guests          int    `json:"guests" validate:"required,min=1"`
	GuestName       string `json:"guestName" validate:"required,min=2,max=120"`
	GuestEmail      string `json:"guestEmail" validate:"required,email"`
	GuestPhone      string `json:"guestPhone" validate:"omitempty,max=32"`
	SpecialRequests string `json:"specialRequests" validate:"omitempty,max=2000"`
	UserID          string `json:"-"`
}

type Booking struct {
	ID              string        `bson:"_id" json:"id"`
	PropertyID      string        `bson:"propertyId" json:"propertyId"`
	UserID          string        `bson:"userId,omitempty" json:"userId,omitempty"`
	CheckIn         time.Time     `bson:"checkIn" json:"checkIn"`
	CheckOut        time.Time     `bson:"checkOut" json:"checkOut"`
	Guests          int           `bson:"guests" json:"guests"`
	GuestName       string        `bson:"guestName" json:"guestName"`
	GuestEmail      string        `bson:"guestEmail" json:"guestEmail"`
	GuestPhone      string        `bson:"guestPhone,omitempty" json:"guestPhone,omitempty"`
	SpecialRequests string        `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	TotalPrice      float64       `bson:"totalPrice" json:"totalPrice"`
	Status          BookingStatus `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// OwnerBooking is a booking as listed on the owner dashboard.
type OwnerBooking struct {
	Booking  `bson:",inline"`
	Property PropertySummary `bson:"property" json:"property"`
}

// DateRange is a half-open [CheckIn, CheckOut) stay.
type DateRange struct {
	CheckIn  time.Time `bson:"checkIn" json:"checkIn"`
	CheckOut time.Time `bson:"checkOut" json:"checkOut"`
}

const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// UTC calendar day it falls on, at midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s or RFC 3339", s, DateLayout)
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), nil
}

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/rental_booking_system/models"
	"github.com/dcode-github/rental_booking_system/store"
)

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	m := newMemStore()
	m.addProperty(publishedProperty())
	m.addBooking(models.Booking{
		ID:         "existing",
		PropertyID: "p1",
		CheckIn:    date("2024-06-01"),
		CheckOut:   date("2024-06-05"),
		Status:     models.BookingConfirmed,
	})
	svc := NewService(m, m)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func request(checkIn, checkOut string, guests int) models.BookingRequest {
	return models.BookingRequest{
		PropertyID: "p1",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     guests,
		GuestName:  "Ana Torres",
		GuestEmail: "ana@example.com",
	}
}

func TestSubmit_SameDayTurnoverAdmitted(t *testing.T) {
	svc, m := newTestService(t)

	b, err := svc.Submit(context.Background(), request("2024-06-05", "2024-06-08", 2))
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, 300.0, b.TotalPrice)
	assert.Equal(t, date("2024-06-05"), b.CheckIn)
	assert.Equal(t, date("2024-06-08"), b.CheckOut)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), b.CreatedAt)
	assert.Equal(t, 2, m.count())
}

func TestSubmit_OverlapRejected(t *testing.T) {
	svc, m := newTestService(t)

	_, err := svc.Submit(context.Background(), request("2024-06-03", "2024-06-06", 2))
	assert.ErrorIs(t, err, ErrDateRangeUnavailable)
	assert.Equal(t, 1, m.count(), "rejected submission must not write")
}

func TestSubmit_GuestLimitRegardlessOfDates(t *testing.T) {
	svc, _ := newTestService(t)

	for _, r := range [][2]string{
		{"2024-06-05", "2024-06-08"},
		{"2024-06-03", "2024-06-06"},
	} {
		_, err := svc.Submit(context.Background(), request(r[0], r[1], 5))
		assert.ErrorIs(t, err, ErrGuestLimitExceeded, "%v", r)
	}
}

func TestSubmit_TimestampsPricedAsCalendarDays(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.Submit(context.Background(), request("2024-07-01T00:00:00Z", "2024-07-02T00:00:00.5Z", 1))
	require.NoError(t, err)
	assert.Equal(t, date("2024-07-02"), b.CheckOut)
	assert.Equal(t, 100.0, b.TotalPrice)
}

func TestSubmit_InvalidDateRange(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), request("2024-07-08", "2024-07-08", 2))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestSubmit_MalformedRequest(t *testing.T) {
	svc, m := newTestService(t)

	missingProperty := request("2024-07-01", "2024-07-02", 1)
	missingProperty.PropertyID = ""
	badEmail := request("2024-07-01", "2024-07-02", 1)
	badEmail.GuestEmail = "nope"

	cases := map[string]models.BookingRequest{
		"missing property": missingProperty,
		"bad email":        badEmail,
		"zero guests":      request("2024-07-01", "2024-07-02", 0),
		"bad date":         request("07/01/2024", "2024-07-02", 1),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), req)
			assert.ErrorIs(t, err, ErrMalformedRequest)
		})
	}
	assert.Equal(t, 1, m.count())
}

func TestSubmit_PropertyNotFound(t *testing.T) {
	svc, m := newTestService(t)
	draft := publishedProperty()
	draft.ID = "draft"
	draft.Status = models.PropertyDraft
	m.addProperty(draft)

	for _, id := range []string{"missing", "draft"} {
		req := request("2024-07-01", "2024-07-02", 1)
		req.PropertyID = id
		_, err := svc.Submit(context.Background(), req)
		assert.ErrorIs(t, err, ErrPropertyNotFound, id)
	}
}

func TestSubmit_LostRaceIsUnavailable(t *testing.T) {
	svc, m := newTestService(t)
	m.insertErr = store.ErrConstraintViolation

	_, err := svc.Submit(context.Background(), request("2024-07-01", "2024-07-03", 1))
	assert.ErrorIs(t, err, ErrDateRangeUnavailable)
}

func TestSubmit_InfrastructureFailure(t *testing.T) {
	svc, m := newTestService(t)
	m.insertErr = errors.New("write concern timeout")

	_, err := svc.Submit(context.Background(), request("2024-07-01", "2024-07-03", 1))
	require.Error(t, err)
	_, isBusiness := AsError(err)
	assert.False(t, isBusiness)
}

func TestQuote(t *testing.T) {
	svc, m := newTestService(t)

	q, err := svc.Quote(context.Background(), "p1", "2024-06-05", "2024-06-08", 2)
	require.NoError(t, err)
	assert.Equal(t, Quote{Nights: 3, TotalPrice: 300}, q)

	_, err = svc.Quote(context.Background(), "p1", "2024-06-03", "2024-06-06", 2)
	assert.ErrorIs(t, err, ErrDateRangeUnavailable)
	assert.Equal(t, 1, m.count(), "quote must not write")
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	svc, m := newTestService(t)
	m.addBooking(models.Booking{ID: "b", PropertyID: "p1", Status: models.BookingPending})
	ctx := context.Background()

	b, err := svc.UpdateStatus(ctx, "owner-1", "b", models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	_, err = svc.UpdateStatus(ctx, "owner-1", "b", models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	b, err = svc.UpdateStatus(ctx, "owner-1", "b", models.BookingCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, b.Status)
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	svc, m := newTestService(t)
	m.addBooking(models.Booking{ID: "b", PropertyID: "p1", Status: models.BookingCancelled})

	_, err := svc.UpdateStatus(context.Background(), "owner-1", "b", models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_NonOwnerForbidden(t *testing.T) {
	svc, m := newTestService(t)
	m.addBooking(models.Booking{ID: "b", PropertyID: "p1", Status: models.BookingPending})
	m.addBooking(models.Booking{ID: "done", PropertyID: "p1", Status: models.BookingCompleted})

	for _, tc := range []struct {
		id string
		to models.BookingStatus
	}{
		{"b", models.BookingConfirmed},
		{"b", models.BookingCompleted},
		{"done", models.BookingPending},
	} {
		_, err := svc.UpdateStatus(context.Background(), "guest-9", tc.id, tc.to)
		assert.ErrorIs(t, err, ErrForbidden, "%s -> %s", tc.id, tc.to)
	}

	_, err := svc.UpdateStatus(context.Background(), "", "b", models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	got, _ := m.GetBooking(context.Background(), "b")
	assert.Equal(t, models.BookingPending, got.Status)
}

func TestUpdateStatus_OwnerOfDraftProperty(t *testing.T) {
	svc, m := newTestService(t)
	p := publishedProperty()
	p.Status = models.PropertyDraft
	m.addProperty(p)
	m.addBooking(models.Booking{ID: "b", PropertyID: "p1", Status: models.BookingPending})

	_, err := svc.UpdateStatus(context.Background(), "owner-1", "b", models.BookingCancelled)
	assert.NoError(t, err)
}

func TestUpdateStatus_NotFoundAndInvalidStatus(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), "owner-1", "missing", models.BookingConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.UpdateStatus(context.Background(), "owner-1", "existing", models.BookingStatus("archived"))
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

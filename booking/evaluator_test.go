package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/rental_booking_system/models"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func publishedProperty() models.Property {
	return models.Property{
		ID:        "p1",
		OwnerID:   "owner-1",
		Price:     100,
		MaxGuests: 4,
		Status:    models.PropertyPublished,
	}
}

func TestEvaluate_PricesWholeNights(t *testing.T) {
	q, err := Evaluate(publishedProperty(), date("2024-06-05"), date("2024-06-08"), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 300.0, q.TotalPrice)
}

func TestEvaluate_NightsMatchDayCount(t *testing.T) {
	p := publishedProperty()
	p.Price = 87.5
	start := date("2024-01-01")

	for days := 1; days <= 45; days++ {
		q, err := Evaluate(p, start, start.AddDate(0, 0, days), 1)
		require.NoError(t, err, "days=%d", days)
		assert.Equal(t, days, q.Nights)
		assert.Equal(t, float64(days)*p.Price, q.TotalPrice)
	}
}

func TestEvaluate_PartialDayRoundsUp(t *testing.T) {
	in := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	out := time.Date(2024, 3, 3, 11, 0, 0, 0, time.UTC)

	q, err := Evaluate(publishedProperty(), in, out, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, 200.0, q.TotalPrice)
}

func TestEvaluate_VeryLongStay(t *testing.T) {
	q, err := Evaluate(publishedProperty(), date("1700-01-01"), date("2100-01-01"), 1)
	require.NoError(t, err)
	assert.Equal(t, 146097, q.Nights)
	assert.Equal(t, 146097*100.0, q.TotalPrice)
}

func TestNights_SubSecondRemainderRoundsUp(t *testing.T) {
	in := date("2024-06-01")
	assert.Equal(t, 1, Nights(in, in.Add(24*time.Hour)))
	assert.Equal(t, 2, Nights(in, in.Add(24*time.Hour+500*time.Millisecond)))
	assert.Equal(t, 1, Nights(in.Add(900*time.Millisecond), in.Add(24*time.Hour+100*time.Millisecond)))
}

func TestEvaluate_InvalidDateRange(t *testing.T) {
	cases := []struct {
		name    string
		in, out string
	}{
		{"same day", "2024-06-05", "2024-06-05"},
		{"reversed", "2024-06-08", "2024-06-05"},
		{"far reversed", "2025-01-01", "2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(publishedProperty(), date(tc.in), date(tc.out), 1)
			assert.ErrorIs(t, err, ErrInvalidDateRange)
		})
	}
}

func TestEvaluate_GuestLimitExceeded(t *testing.T) {
	for guests := 5; guests <= 8; guests++ {
		_, err := Evaluate(publishedProperty(), date("2024-06-05"), date("2024-06-08"), guests)
		require.ErrorIs(t, err, ErrGuestLimitExceeded)
		assert.Contains(t, err.Error(), "maximum 4 guests")
	}
}

func TestEvaluate_GuestLimitWinsOverBadDates(t *testing.T) {
	_, err := Evaluate(publishedProperty(), date("2024-06-08"), date("2024-06-05"), 5)
	assert.ErrorIs(t, err, ErrGuestLimitExceeded)
}

func TestEvaluate_ExactlyMaxGuestsAllowed(t *testing.T) {
	_, err := Evaluate(publishedProperty(), date("2024-06-05"), date("2024-06-06"), 4)
	assert.NoError(t, err)
}

func TestEvaluate_ZeroGuests(t *testing.T) {
	_, err := Evaluate(publishedProperty(), date("2024-06-05"), date("2024-06-06"), 0)
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestEvaluate_DraftNotAvailable(t *testing.T) {
	p := publishedProperty()
	p.Status = models.PropertyDraft

	_, err := Evaluate(p, date("2024-06-05"), date("2024-06-08"), 2)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestEvaluate_FreeProperty(t *testing.T) {
	p := publishedProperty()
	p.Price = 0

	q, err := Evaluate(p, date("2024-06-05"), date("2024-06-08"), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Zero(t, q.TotalPrice)
}

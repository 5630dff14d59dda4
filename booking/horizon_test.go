package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hearth/booking-engine/booking"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testHorizon() booking.Horizon {
	return booking.NewHorizon(date(2020, time.December, 17), 90)
}

func TestHorizon_Index(t *testing.T) {
	h := testHorizon()

	assert.Equal(t, 0, h.Index(date(2020, time.December, 17)), "reference date is index 0")
	assert.Equal(t, 1, h.Index(date(2020, time.December, 18)), "first bookable day is index 1")
	assert.Equal(t, 15, h.Index(date(2021, time.January, 1)))
	assert.Equal(t, 90, h.Index(date(2021, time.March, 17)))
	assert.Equal(t, -1, h.Index(date(2020, time.December, 16)))
}

func TestHorizon_Date_InvertsIndex(t *testing.T) {
	h := testHorizon()

	for _, d := range []time.Time{
		date(2020, time.December, 18),
		date(2021, time.January, 1),
		date(2021, time.March, 17),
	} {
		assert.Equal(t, d, h.Date(h.Index(d)))
	}
}

func TestHorizon_Contains(t *testing.T) {
	h := testHorizon()

	assert.False(t, h.Contains(date(2020, time.December, 17)), "reference day itself is outside the window")
	assert.True(t, h.Contains(date(2020, time.December, 18)))
	assert.True(t, h.Contains(date(2021, time.March, 17)), "day 90 is the last tracked day")
	assert.False(t, h.Contains(date(2021, time.March, 18)), "day 91 is past the horizon")
}

func TestNewHorizon_NormalizesToMidnightUTC(t *testing.T) {
	// A reference with a time-of-day must not shift day-index math.
	noisy := time.Date(2020, time.December, 17, 18, 45, 12, 0, time.UTC)
	h := booking.NewHorizon(noisy, 90)

	assert.Equal(t, date(2020, time.December, 17), h.Reference)
	assert.Equal(t, 1, h.Index(date(2020, time.December, 18)))
}

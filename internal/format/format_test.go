package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14:05", "2:05 PM"},
		{"00:30", "12:30 AM"},
		{"12:00", "12:00 PM"},
		{"06:15", "6:15 AM"},
		{"23:59", "11:59 PM"},
		{"", ""},
		{"soon", "soon"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Time(tt.in), tt.in)
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "20 Oct 2026", Date("2026-10-20"))
	assert.Equal(t, "1 Jan 2027", Date("2027-01-01"))
	assert.Equal(t, "tomorrow", Date("tomorrow"))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("18:45")
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 45, m)

	h, m, err = ParseClock("05:10:00")
	require.NoError(t, err)
	assert.Equal(t, 5, h)
	assert.Equal(t, 10, m)

	_, _, err = ParseClock("24:00")
	assert.Error(t, err)
	_, _, err = ParseClock("0830")
	assert.Error(t, err)
}

func TestPriceAndRupees(t *testing.T) {
	assert.Equal(t, "4520.50", Price(4520.5))
	assert.Equal(t, "3000.00", Price(3000))
	assert.Equal(t, "₹5000", Rupees(5000))
	assert.Equal(t, "₹11301", Rupees(11301.25))
	assert.Equal(t, "₹3", Rupees(2.5))
}

func TestTodayAndIsDate(t *testing.T) {
	assert.Equal(t, "2026-10-15", Today(time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)))
	assert.True(t, IsDate("2026-02-28"))
	assert.False(t, IsDate("2026-02-30"))
	assert.False(t, IsDate("20/10/2026"))
}

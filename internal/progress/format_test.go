package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound_HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in     float64
		places int
		want   float64
	}{
		{68.5714285, 2, 68.57},
		{12.25, 1, 12.3},
		{-12.25, 1, -12.3},
		{2.675, 2, 2.68},
		{0.05, 1, 0.1},
		{99.94, 1, 99.9},
		{99.95, 1, 100.0},
		{42, 1, 42},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Round(tc.in, tc.places), "Round(%v, %d)", tc.in, tc.places)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "85.0%", FormatPercentage(f(85), 100))
	assert.Equal(t, "33.3%", FormatPercentage(f(1), 3))
	assert.Equal(t, "66.7%", FormatPercentage(f(2), 3))
	assert.Equal(t, "12.5%", FormatPercentage(f(1), 8))
	assert.Equal(t, "0.0%", FormatPercentage(f(0), 100))
	assert.Equal(t, "0.1%", FormatPercentage(f(1), 2000))
}

func TestFormatPercentage_NullScoreIsNotAvailable(t *testing.T) {
	assert.Equal(t, NotAvailable, FormatPercentage(nil, 100))
	assert.Equal(t, NotAvailable, FormatPercentage(f(5), 0))
}

func TestAverage_String(t *testing.T) {
	assert.Equal(t, NotAvailable, Average{}.String())
	assert.Equal(t, "0.0%", Percent(0).String())
	assert.Equal(t, "68.6%", Percent(68.5714).String())
}

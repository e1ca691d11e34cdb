package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"1", 100},
		{"19.99", 1999},
		{"-42.50", -4250},
		{"0.01", 1},
		{"1234567.89", 123456789},
		// Half-away-from-zero rounding at the third decimal
		{"1.005", 101},
		{"1.004", 100},
		{"-1.005", -101},
	}

	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ToMinorUnits(d), "ToMinorUnits(%s)", tt.in)
	}
}

func TestRoundTrip(t *testing.T) {
	// Every minor-unit amount must survive decimal conversion exactly
	for _, minor := range []int64{0, 1, -1, 99, 100, 1999, -4250, 123456789} {
		assert.Equal(t, minor, ToMinorUnits(ToDecimal(minor)), "round trip of %d", minor)
	}
}

func TestParse(t *testing.T) {
	minor, err := Parse("19.99")
	require.NoError(t, err)
	assert.Equal(t, int64(1999), minor)

	_, err = Parse("not-a-number")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "19.99", Format(1999))
	assert.Equal(t, "0.00", Format(0))
	assert.Equal(t, "-42.50", Format(-4250))
	assert.Equal(t, "1.00", Format(100))
}

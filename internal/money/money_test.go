package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		cents Cents
		want  string
	}{
		{"zero", 0, "$0.00"},
		{"whole pesos", 20000, "$200.00"},
		{"with fraction", 123450, "$1,234.50"},
		{"single centavo", 1, "$0.01"},
		{"large", 1234567890, "$12,345,678.90"},
		{"negative", -6500, "-$65.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cents.Format())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"$200.00", 20000},
		{"$1,234.50", 123450},
		{"$50", 5000},
		{"1500.5", 150050},
		{"MX$300.00", 30000},
		{"  $65.00  ", 6500},
		{"-$100.00", -10000},
		{"-MX$100.00", -10000},
		{"-100", -10000},
		{"0.01", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"", "$", "-", "-$", "abc", "$12.345", "$12.x0", "1.2.3"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrMalformedAmount)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, c := range []Cents{0, 1, 99, 6500, 10000, 123450, 98765432, -1, -6500, -123450} {
		got, err := Parse(c.Format())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestMultiply(t *testing.T) {
	assert.Equal(t, Cents(60000), Multiply(20000, 3))
	assert.Equal(t, Cents(0), Multiply(20000, 0))
}

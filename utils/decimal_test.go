package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	d, err := ParseMoney("199.99")
	require.NoError(t, err)
	assert.Equal(t, "199.99", d.String())

	_, err = ParseMoney("")
	assert.Error(t, err)

	_, err = ParseMoney("abc")
	assert.Error(t, err)

	_, err = ParseMoney("-1")
	assert.Error(t, err)

	// zero is a legal amount (free shipping)
	d, err = ParseMoney("0")
	require.NoError(t, err)
	assert.False(t, IsPositive(d))
}

func TestDecimalRoundTrip(t *testing.T) {
	orig := decimal.RequireFromString("12345.6789")

	d128, err := ToDecimal128(orig)
	require.NoError(t, err)

	back, err := FromDecimal128(d128)
	require.NoError(t, err)
	assert.True(t, orig.Equal(back))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, IsPositive(MustDecimal128("0.01")))
	assert.False(t, IsPositive(MustDecimal128("0")))
	assert.False(t, IsPositive(MustDecimal128("-3")))
}

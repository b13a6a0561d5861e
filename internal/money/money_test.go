package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestToLYD(t *testing.T) {
	testCases := []struct {
		name      string
		amountUSD string
		rate      string
		expected  string
	}{
		{name: "whole amount", amountUSD: "100", rate: "5.15", expected: "515"},
		{name: "rounds half up", amountUSD: "10.01", rate: "0.5", expected: "5.01"},
		{name: "fractional rate", amountUSD: "33.33", rate: "4.8", expected: "159.98"},
		{name: "zero amount", amountUSD: "0", rate: "5", expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToLYD(dec(tc.amountUSD), dec(tc.rate))
			require.NoError(t, err)
			assert.True(t, dec(tc.expected).Equal(got), "got %s", got)
		})
	}
}

func TestToLYDRejectsNonPositiveRate(t *testing.T) {
	_, err := ToLYD(dec("100"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = ToLYD(dec("100"), dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = ToUSD(dec("100"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestConversionRoundTrip(t *testing.T) {
	tolerance := dec("0.01")
	rates := []string{"0.75", "1", "4.8", "5.1534", "12.3456"}
	amounts := []string{"0.01", "1", "99.99", "1234.56", "100000"}

	for _, rate := range rates {
		for _, amount := range amounts {
			usd, err := ToUSD(dec(amount), dec(rate))
			require.NoError(t, err)
			back, err := ToLYD(usd, dec(rate))
			require.NoError(t, err)

			diff := back.Sub(dec(amount)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"amount %s at rate %s came back as %s", amount, rate, back)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(" 12.345 ")
	require.NoError(t, err)
	assert.True(t, dec("12.35").Equal(got))

	for _, raw := range []string{"", "  ", "abc", "12,5", "1.2.3"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", raw)
	}
}

func TestRateChannelValid(t *testing.T) {
	for _, channel := range []RateChannel{
		RateBase, RateCardsCash, RateCardsBank, RateCardsBalance,
		RateProductsCash, RateProductsBank, RateProductsBalance,
	} {
		assert.True(t, channel.Valid(), "channel %s", channel)
	}
	assert.False(t, RateChannel("cards").Valid())
}

// Package money holds the currency arithmetic shared by every ledger
// computation. All amounts are decimal; floats never touch money.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// RateChannel names one of the configurable exchange-rate knobs. Every
// conversion takes an explicit channel or an explicit rate value; picking the
// wrong knob for a payment channel is a correctness hazard, so a bare float
// is never accepted.
type RateChannel string

const (
	RateBase            RateChannel = "base"
	RateCardsCash       RateChannel = "cards_cash"
	RateCardsBank       RateChannel = "cards_bank"
	RateCardsBalance    RateChannel = "cards_balance"
	RateProductsCash    RateChannel = "products_cash"
	RateProductsBank    RateChannel = "products_bank"
	RateProductsBalance RateChannel = "products_balance"
)

var (
	// ErrInvalidRate is returned when a conversion is attempted with a
	// missing, zero or negative exchange rate.
	ErrInvalidRate = errors.New("exchange rate must be positive")

	// ErrInvalidAmount is returned when an externally supplied amount
	// cannot be parsed. Malformed input is rejected, never defaulted to zero.
	ErrInvalidAmount = errors.New("invalid money amount")

	// ErrUnknownChannel is returned for a rate channel outside the known set.
	ErrUnknownChannel = errors.New("unknown rate channel")
)

// Valid reports whether c is one of the known rate channels.
func (c RateChannel) Valid() bool {
	switch c {
	case RateBase, RateCardsCash, RateCardsBank, RateCardsBalance,
		RateProductsCash, RateProductsBank, RateProductsBalance:
		return true
	}
	return false
}

// Round normalizes an amount to 2 fractional digits, half up.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ToLYD converts a USD amount to LYD at the given rate, rounded to 2
// fractional digits half up.
func ToLYD(amountUSD, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return Round(amountUSD.Mul(rate)), nil
}

// ToUSD converts a LYD amount back to USD at the given rate. The result
// keeps 4 fractional digits so converting back to LYD stays within 0.01 of
// the original amount.
func ToUSD(amountLYD, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, ErrInvalidRate
	}
	return amountLYD.DivRound(rate, 4), nil
}

// Parse reads an externally supplied amount string. It fails closed:
// malformed input is an error, not zero.
func Parse(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return Round(parsed), nil
}

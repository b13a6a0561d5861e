package models

import (
	"github.com/shopspring/decimal"

	"github.com/example/safina/internal/money"
)

// AppSettings is the single process-wide configuration row: the base
// exchange rate, per-kilo freight prices, and the independent rate knobs
// for card and product purchase channels.
type AppSettings struct {
	BaseModel
	ExchangeRate        decimal.Decimal `gorm:"type:numeric(14,4)" json:"exchange_rate"`
	PricePerKiloAirUSD  decimal.Decimal `gorm:"type:numeric(14,2)" json:"price_per_kilo_air_usd"`
	PricePerKiloSeaUSD  decimal.Decimal `gorm:"type:numeric(14,2)" json:"price_per_kilo_sea_usd"`
	CardsCashRate       decimal.Decimal `gorm:"type:numeric(14,4)" json:"cards_cash_rate"`
	CardsBankRate       decimal.Decimal `gorm:"type:numeric(14,4)" json:"cards_bank_rate"`
	CardsBalanceRate    decimal.Decimal `gorm:"type:numeric(14,4)" json:"cards_balance_rate"`
	ProductsCashRate    decimal.Decimal `gorm:"type:numeric(14,4)" json:"products_cash_rate"`
	ProductsBankRate    decimal.Decimal `gorm:"type:numeric(14,4)" json:"products_bank_rate"`
	ProductsBalanceRate decimal.Decimal `gorm:"type:numeric(14,4)" json:"products_balance_rate"`
}

// Rate selects the exchange rate for the given channel.
func (s *AppSettings) Rate(channel money.RateChannel) (decimal.Decimal, error) {
	switch channel {
	case money.RateBase:
		return s.ExchangeRate, nil
	case money.RateCardsCash:
		return s.CardsCashRate, nil
	case money.RateCardsBank:
		return s.CardsBankRate, nil
	case money.RateCardsBalance:
		return s.CardsBalanceRate, nil
	case money.RateProductsCash:
		return s.ProductsCashRate, nil
	case money.RateProductsBank:
		return s.ProductsBankRate, nil
	case money.RateProductsBalance:
		return s.ProductsBalanceRate, nil
	default:
		return decimal.Zero, money.ErrUnknownChannel
	}
}
